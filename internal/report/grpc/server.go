// Package grpc exposes the reporting service over gRPC with mutual TLS
// and service token verification.
package grpc

import (
	"context"
	"crypto/tls"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/status"

	"finledger/internal/common"
	"finledger/internal/export"
	"finledger/internal/logging"
	"finledger/internal/report"
	"finledger/internal/token"
	"finledger/internal/wire"
)

type GRPCServer struct {
	address    string
	aggregator *report.Aggregator
	publisher  report.Publisher
	authority  *token.Authority
	tlsConfig  *tls.Config
	logger     logging.Logger
}

// NewGRPCServer wires the reporting service to a listen address.
// publisher may be nil when no object storage is configured; PublishReport
// then fails with Unavailable.
func NewGRPCServer(address string, l logging.Logger, aggregator *report.Aggregator, publisher report.Publisher, authority *token.Authority, tlsConfig *tls.Config) *GRPCServer {
	return &GRPCServer{
		address:    address,
		aggregator: aggregator,
		publisher:  publisher,
		authority:  authority,
		tlsConfig:  tlsConfig,
		logger:     l.With("module", "grpc_server"),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(wire.ServerAuthInterceptor(s.authority, common.ReportServiceName)),
	}
	if s.tlsConfig != nil {
		opts = append(opts, grpc.Creds(credentials.NewTLS(s.tlsConfig)))
	}

	srv := grpc.NewServer(opts...)
	wire.RegisterReportServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

func (s *GRPCServer) GenerateMonthlyReport(ctx context.Context, req *wire.MonthlyReportRequest) (*wire.MonthlyReportResponse, error) {
	r, err := s.aggregator.GenerateMonthlyReport(ctx, req.UserID, req.Month)
	if err != nil {
		s.logger.Error(ctx, "report generation failed", "error", err.Error())
		return nil, wire.StatusError(err)
	}

	resp := &wire.MonthlyReportResponse{
		UserID:        r.UserID,
		Month:         r.Month,
		TotalIncome:   r.TotalIncome,
		TotalExpenses: r.TotalExpenses,
		Balance:       r.Balance,
		Transactions:  make([]wire.Transaction, 0, len(r.Transactions)),
	}
	for _, tx := range r.Transactions {
		resp.Transactions = append(resp.Transactions, wire.FromLedger(tx))
	}
	return resp, nil
}

func (s *GRPCServer) exportArtifact(ctx context.Context, userID, month, format string) (*export.Artifact, error) {
	r, err := s.aggregator.GenerateMonthlyReport(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	return export.Encode(r, format)
}

func (s *GRPCServer) ExportReport(ctx context.Context, req *wire.ExportReportRequest) (*wire.ExportReportResponse, error) {
	artifact, err := s.exportArtifact(ctx, req.UserID, req.Month, req.Format)
	if err != nil {
		s.logger.Error(ctx, "export failed", "error", err.Error())
		return nil, wire.StatusError(err)
	}

	return &wire.ExportReportResponse{
		FileName:    artifact.FileName,
		FileContent: artifact.Content,
		Format:      artifact.Format,
	}, nil
}

func (s *GRPCServer) PublishReport(ctx context.Context, req *wire.PublishReportRequest) (*wire.PublishReportResponse, error) {
	if s.publisher == nil {
		return nil, status.Error(codes.Unavailable, "report storage is not configured")
	}

	artifact, err := s.exportArtifact(ctx, req.UserID, req.Month, req.Format)
	if err != nil {
		s.logger.Error(ctx, "export failed", "error", err.Error())
		return nil, wire.StatusError(err)
	}

	key, err := s.publisher.Publish(ctx, artifact.FileName, artifact.Content)
	if err != nil {
		s.logger.Error(ctx, "publish failed", "error", err.Error())
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	return &wire.PublishReportResponse{FileName: artifact.FileName, StorageKey: key}, nil
}
