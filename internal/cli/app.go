// Package cli implements the finledger command-line client. It talks to
// all three services and keeps the logged-in user in a JSON session file.
package cli

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"os"

	"google.golang.org/grpc"

	"finledger/internal/common"
	"finledger/internal/config"
	"finledger/internal/identity"
	"finledger/internal/pki"
	"finledger/internal/token"
	"finledger/internal/wire"
)

// DefaultSessionFile is where the CLI keeps its login state.
const DefaultSessionFile = "session.json"

type App struct {
	config      *config.Config
	sessionPath string
	reader      *bufio.Reader
	out         io.Writer

	identity *wire.IdentityClient
	ledger   *wire.LedgerClient
	report   *wire.ReportClient

	conns []*grpc.ClientConn
}

// NewApp dials the three services. Connections are lazy, so unreachable
// services only surface when a command actually calls them.
func NewApp(cfg *config.Config) (*App, error) {
	var clientTLS *tls.Config
	if cfg.CertFile != "" {
		material, err := pki.LoadMaterial(cfg.RootCertFile, cfg.IntermediateCertFile, cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("tls init error: %w", err)
		}
		clientTLS = material.ClientTLSConfig("finledger")
	}

	authority := token.NewAuthority(common.CLIClientName, []byte(cfg.SecretKey), cfg.ServiceTokenLifetime)
	scopes := []string{common.ScopeRead, common.ScopeWrite}

	app := &App{
		config:      cfg,
		sessionPath: DefaultSessionFile,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}

	dial := func(target, audience string) (*grpc.ClientConn, error) {
		source := wire.NewTokenSource(authority, audience, scopes)
		conn, err := wire.Dial(target, clientTLS, source)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", audience, err)
		}
		app.conns = append(app.conns, conn)
		return conn, nil
	}

	identityConn, err := dial(cfg.IdentityAddr, common.IdentityServiceName)
	if err != nil {
		return nil, err
	}
	ledgerConn, err := dial(cfg.LedgerAddr, common.LedgerServiceName)
	if err != nil {
		return nil, err
	}
	reportConn, err := dial(cfg.ReportAddr, common.ReportServiceName)
	if err != nil {
		return nil, err
	}

	app.identity = wire.NewIdentityClient(identityConn)
	app.ledger = wire.NewLedgerClient(ledgerConn)
	app.report = wire.NewReportClient(reportConn)
	return app, nil
}

func (a *App) Close() {
	for _, conn := range a.conns {
		_ = conn.Close()
	}
}

// currentSession loads the session file and verifies the stored access
// token. The user ID the commands act on comes from the token claims,
// not from the editable session file.
func (a *App) currentSession() (*Session, error) {
	s, err := LoadSession(a.sessionPath)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("not logged in, run 'finledger login' first")
	}

	userID, err := identity.GetUserIDFromToken(s.AccessToken, []byte(a.config.SecretKey))
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, fmt.Errorf("session expired, run 'finledger login' again")
		}
		return nil, fmt.Errorf("invalid session, run 'finledger login' again")
	}
	s.UserID = userID
	return s, nil
}

// Run dispatches one CLI command.
func (a *App) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return ClearSession(a.sessionPath)
	case "whoami":
		return a.Whoami(ctx)
	case "add":
		return a.Add(ctx, args)
	case "list":
		return a.List(ctx, args)
	case "report":
		return a.Report(ctx, args)
	case "export":
		return a.Export(ctx, args)
	case "help", "":
		a.printHelp()
		return nil
	default:
		a.printHelp()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, `Usage: finledger <command> [options]

Commands:
  register   create an account
  login      log in and store the session
  logout     forget the stored session
  whoami     show the logged-in user
  add        record a transaction  (-amount -category -type -desc)
  list       list transactions     (-from -to)
  report     monthly totals        (-month)
  export     export a report       (-month -format -o | -upload)`)
}
