// Package app assembles the service daemons: configuration, storage,
// TLS material, and the gRPC servers, with graceful shutdown on signals.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"finledger/internal/config"
	"finledger/internal/pki"
)

func initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// loadMaterial reads the certificate chain and key named in the config.
// Without a certificate file the daemon runs without TLS, which is only
// suitable for local development.
func loadMaterial(cfg *config.Config) (*pki.Material, error) {
	if cfg.CertFile == "" {
		return nil, nil
	}
	return pki.LoadMaterial(cfg.RootCertFile, cfg.IntermediateCertFile, cfg.CertFile, cfg.KeyFile)
}
