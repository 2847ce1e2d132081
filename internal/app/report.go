package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"

	"finledger/internal/common"
	"finledger/internal/config"
	"finledger/internal/logging"
	"finledger/internal/report"
	rg "finledger/internal/report/grpc"
	"finledger/internal/token"
	"finledger/internal/wire"
)

// ReportApp runs the report service daemon. It is a client of the ledger
// service and authenticates to it with its own service tokens.
type ReportApp struct {
	config    *config.Config
	logger    logging.Logger
	tlsServer *tls.Config
	tlsClient *tls.Config
}

func NewReportApp(ctx context.Context, cfg *config.Config) (*ReportApp, error) {
	logger := logging.NewJSON(common.ReportServiceName)

	material, err := loadMaterial(cfg)
	if err != nil {
		return nil, fmt.Errorf("tls init error: %w", err)
	}

	app := &ReportApp{config: cfg, logger: logger}
	if material != nil {
		app.tlsServer = material.ServerTLSConfig()
		app.tlsClient = material.ClientTLSConfig("ledger")
	}
	return app, nil
}

func (app *ReportApp) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting report service...")

	initSignalHandler(cancelFunc)

	authority := token.NewAuthority(common.ReportServiceName, []byte(app.config.SecretKey), app.config.ServiceTokenLifetime)

	// The aggregator only reads from the ledger, so its tokens carry the
	// read scope and nothing more.
	source := wire.NewTokenSource(authority, common.LedgerServiceName, []string{common.ScopeRead})
	conn, err := wire.Dial(app.config.LedgerAddr, app.tlsClient, source)
	if err != nil {
		return fmt.Errorf("dial ledger: %w", err)
	}
	defer conn.Close()

	aggregator := report.NewAggregator(wire.NewLedgerClient(conn), app.config.LedgerTimeout, app.logger)

	var publisher report.Publisher
	if app.config.S3Endpoint != "" {
		publisher = report.NewS3Publisher(report.S3Settings{
			Region:    app.config.S3Region,
			Endpoint:  app.config.S3Endpoint,
			Bucket:    app.config.S3Bucket,
			AccessKey: app.config.S3AccessKey,
			SecretKey: app.config.S3SecretKey,
		}, app.logger)
	}

	server := rg.NewGRPCServer(app.config.ReportAddr, app.logger, aggregator, publisher, authority, app.tlsServer)

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
