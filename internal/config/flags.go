package config

import (
	"flag"
	"os"
	"time"

	"finledger/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-i string      identity service address (e.g., ":50051")
//	-l string      ledger service address
//	-r string      report service address
//	-d string      PostgreSQL DSN; empty selects in-memory storage
//	-s string      JWT HMAC secret key
//	-t int         service token lifetime, minutes
//	-root string   root CA certificate file (PEM)
//	-inter string  intermediate CA certificate file (PEM)
//	-cert string   service certificate file (PEM)
//	-key string    service private key file (PEM)
//	-u string      S3 access key
//	-p string      S3 secret key
//	-b string      S3 bucket name
//	-g string      S3 region
//	-e string      S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes
// using flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-i", "-l", "-r", "-d", "-s", "-t",
		"-root", "-inter", "-cert", "-key",
		"-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.IdentityAddr, "i", config.IdentityAddr, "identity service address")
	fs.StringVar(&config.LedgerAddr, "l", config.LedgerAddr, "ledger service address")
	fs.StringVar(&config.ReportAddr, "r", config.ReportAddr, "report service address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	serviceTokenLifetime := fs.Int("t", int(config.ServiceTokenLifetime.Minutes()), "service token lifetime (in minutes)")

	fs.StringVar(&config.RootCertFile, "root", config.RootCertFile, "root CA certificate file")
	fs.StringVar(&config.IntermediateCertFile, "inter", config.IntermediateCertFile, "intermediate CA certificate file")
	fs.StringVar(&config.CertFile, "cert", config.CertFile, "service certificate file")
	fs.StringVar(&config.KeyFile, "key", config.KeyFile, "service private key file")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3Endpoint, "e", config.S3Endpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ServiceTokenLifetime = time.Duration(*serviceTokenLifetime) * time.Minute
}
