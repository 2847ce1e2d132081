package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"

	"finledger/internal/common"
	"finledger/internal/config"
	"finledger/internal/dbx"
	"finledger/internal/ledger"
	lg "finledger/internal/ledger/grpc"
	"finledger/internal/ledger/migrations"
	"finledger/internal/logging"
	"finledger/internal/token"
)

// LedgerApp runs the ledger service daemon.
type LedgerApp struct {
	config  *config.Config
	logger  logging.Logger
	service *ledger.Service
	tlsCfg  *tls.Config
}

func NewLedgerApp(ctx context.Context, cfg *config.Config) (*LedgerApp, error) {
	logger := logging.NewJSON(common.LedgerServiceName)

	var repo ledger.Repository
	if cfg.DatabaseDSN == "" {
		repo = ledger.NewMemoryRepository()
	} else {
		db, err := dbx.Open(ctx, cfg.DatabaseDSN, migrations.Migrations)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		repo = ledger.NewPostgresRepository(db)
	}

	material, err := loadMaterial(cfg)
	if err != nil {
		return nil, fmt.Errorf("tls init error: %w", err)
	}
	var tlsCfg *tls.Config
	if material != nil {
		tlsCfg = material.ServerTLSConfig()
	}

	return &LedgerApp{config: cfg, logger: logger, service: ledger.NewService(repo), tlsCfg: tlsCfg}, nil
}

func (app *LedgerApp) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting ledger service...")

	initSignalHandler(cancelFunc)

	authority := token.NewAuthority(common.LedgerServiceName, []byte(app.config.SecretKey), app.config.ServiceTokenLifetime)
	server := lg.NewGRPCServer(app.config.LedgerAddr, app.logger, app.service, authority, app.tlsCfg)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
	return nil
}
