package main

import (
	"context"
	"log"
	"os"

	"finledger/internal/cli"
	"finledger/internal/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	command := ""
	args := []string{}
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx, command, args); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
