// Package grpc exposes the ledger service over gRPC with mutual TLS and
// service token verification.
package grpc

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"finledger/internal/common"
	"finledger/internal/ledger"
	"finledger/internal/logging"
	"finledger/internal/token"
	"finledger/internal/wire"
)

type GRPCServer struct {
	address   string
	service   *ledger.Service
	authority *token.Authority
	tlsConfig *tls.Config
	logger    logging.Logger
}

// NewGRPCServer wires the ledger service to a listen address. tlsConfig
// may be nil for plaintext listeners in tests.
func NewGRPCServer(address string, l logging.Logger, svc *ledger.Service, authority *token.Authority, tlsConfig *tls.Config) *GRPCServer {
	return &GRPCServer{
		address:   address,
		service:   svc,
		authority: authority,
		tlsConfig: tlsConfig,
		logger:    l.With("module", "grpc_server"),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(wire.ServerAuthInterceptor(s.authority, common.LedgerServiceName)),
	}
	if s.tlsConfig != nil {
		opts = append(opts, grpc.Creds(credentials.NewTLS(s.tlsConfig)))
	}

	srv := grpc.NewServer(opts...)
	wire.RegisterLedgerServer(srv, s)

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

func (s *GRPCServer) AddTransaction(ctx context.Context, req *wire.AddTransactionRequest) (*wire.Transaction, error) {
	tx, err := s.service.Append(ctx, req.UserID, req.Amount, req.Category, req.Kind, req.Description, time.Now())
	if err != nil {
		s.logger.Error(ctx, "add transaction failed", "error", err.Error())
		return nil, wire.StatusError(err)
	}

	s.logger.Info(ctx, "transaction recorded", "user_id", tx.UserID, "transaction_id", tx.ID)
	out := wire.FromLedger(*tx)
	return &out, nil
}

func (s *GRPCServer) GetTransactions(ctx context.Context, req *wire.GetTransactionsRequest) (*wire.GetTransactionsResponse, error) {
	txs, err := s.service.Query(ctx, req.UserID, req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Error(ctx, "query failed", "error", err.Error())
		return nil, wire.StatusError(err)
	}

	resp := &wire.GetTransactionsResponse{Transactions: make([]wire.Transaction, 0, len(txs))}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, wire.FromLedger(tx))
	}
	return resp, nil
}
