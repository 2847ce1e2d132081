// Package grpc exposes the identity service over gRPC with mutual TLS and
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
	"finledger/internal/identity"
	"finledger/internal/logging"
	"finledger/internal/token"
	"finledger/internal/wire"
)

type GRPCServer struct {
	address   string
	service   *identity.Service
	authority *token.Authority
	tlsConfig *tls.Config
	logger    logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, svc *identity.Service, authority *token.Authority, tlsConfig *tls.Config) *GRPCServer {
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
		grpc.ChainUnaryInterceptor(wire.ServerAuthInterceptor(s.authority, common.IdentityServiceName)),
	}
	if s.tlsConfig != nil {
		opts = append(opts, grpc.Creds(credentials.NewTLS(s.tlsConfig)))
	}

	srv := grpc.NewServer(opts...)
	wire.RegisterIdentityServer(srv, s)

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

func userResponse(u *identity.User) wire.UserResponse {
	return wire.UserResponse{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *wire.RegisterUserRequest) (*wire.UserResponse, error) {
	s.logger.Info(ctx, "Registration request")

	user, err := s.service.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		s.logger.Error(ctx, "registration failed", "error", err.Error())
		return nil, wire.StatusError(err)
	}

	s.logger.Info(ctx, "Registered", "username", user.Username)
	out := userResponse(user)
	return &out, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *wire.LoginRequest) (*wire.LoginResponse, error) {
	user, accessToken, err := s.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, wire.StatusError(err)
	}

	return &wire.LoginResponse{User: userResponse(user), AccessToken: accessToken}, nil
}

func (s *GRPCServer) GetUser(ctx context.Context, req *wire.GetUserRequest) (*wire.UserResponse, error) {
	user, err := s.service.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, wire.StatusError(err)
	}

	out := userResponse(user)
	return &out, nil
}
