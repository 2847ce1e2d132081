package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"

	"finledger/internal/common"
	"finledger/internal/config"
	"finledger/internal/dbx"
	"finledger/internal/identity"
	ig "finledger/internal/identity/grpc"
	"finledger/internal/identity/migrations"
	"finledger/internal/logging"
	"finledger/internal/token"
)

// IdentityApp runs the identity service daemon.
type IdentityApp struct {
	config  *config.Config
	logger  logging.Logger
	service *identity.Service
	tlsCfg  *tls.Config
}

func NewIdentityApp(ctx context.Context, cfg *config.Config) (*IdentityApp, error) {
	logger := logging.NewJSON(common.IdentityServiceName)

	var repo identity.Repository
	if cfg.DatabaseDSN == "" {
		repo = identity.NewMemoryRepository()
	} else {
		db, err := dbx.Open(ctx, cfg.DatabaseDSN, migrations.Migrations)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		repo = identity.NewPostgresRepository(db)
	}

	material, err := loadMaterial(cfg)
	if err != nil {
		return nil, fmt.Errorf("tls init error: %w", err)
	}
	var tlsCfg *tls.Config
	if material != nil {
		tlsCfg = material.ServerTLSConfig()
	}

	svc := identity.NewService(repo, []byte(cfg.SecretKey), cfg.UserTokenLifetime)

	return &IdentityApp{config: cfg, logger: logger, service: svc, tlsCfg: tlsCfg}, nil
}

func (app *IdentityApp) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting identity service...")

	initSignalHandler(cancelFunc)

	authority := token.NewAuthority(common.IdentityServiceName, []byte(app.config.SecretKey), app.config.ServiceTokenLifetime)
	server := ig.NewGRPCServer(app.config.IdentityAddr, app.logger, app.service, authority, app.tlsCfg)

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
