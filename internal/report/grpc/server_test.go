package grpc

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finledger/internal/common"
	"finledger/internal/export"
	"finledger/internal/ledger"
	lg "finledger/internal/ledger/grpc"
	"finledger/internal/logging"
	"finledger/internal/report"
	"finledger/internal/token"
	"finledger/internal/wire"
)

const testSecret = "report-grpc-test-secret"

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

func startLedger(t *testing.T) string {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	authority := token.NewAuthority(common.LedgerServiceName, []byte(testSecret), 0)
	gs := lg.NewGRPCServer(lis.Addr().String(), testLogger(), ledger.NewService(ledger.NewMemoryRepository()), authority, nil)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(wire.ServerAuthInterceptor(authority, common.LedgerServiceName)))
	wire.RegisterLedgerServer(srv, gs)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	return lis.Addr().String()
}

type stubPublisher struct {
	fileName string
	content  []byte
	err      error
}

func (p *stubPublisher) Publish(_ context.Context, fileName string, content []byte) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.fileName = fileName
	p.content = content
	return "reports/2024/02/" + fileName, nil
}

func startReport(t *testing.T, ledgerAddr string, publisher report.Publisher) string {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	authority := token.NewAuthority(common.ReportServiceName, []byte(testSecret), 0)

	source := wire.NewTokenSource(authority, common.LedgerServiceName, []string{common.ScopeRead})
	conn, err := wire.Dial(ledgerAddr, nil, source)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	aggregator := report.NewAggregator(wire.NewLedgerClient(conn), 2*time.Second, testLogger())
	gs := NewGRPCServer(lis.Addr().String(), testLogger(), aggregator, publisher, authority, nil)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(wire.ServerAuthInterceptor(authority, common.ReportServiceName)))
	wire.RegisterReportServer(srv, gs)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	return lis.Addr().String()
}

func dialReport(t *testing.T, addr string) *wire.ReportClient {
	t.Helper()

	authority := token.NewAuthority(common.CLIClientName, []byte(testSecret), 0)
	source := wire.NewTokenSource(authority, common.ReportServiceName, []string{common.ScopeRead, common.ScopeWrite})

	conn, err := wire.Dial(addr, nil, source)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return wire.NewReportClient(conn)
}

func dialLedger(t *testing.T, addr string) *wire.LedgerClient {
	t.Helper()

	authority := token.NewAuthority(common.CLIClientName, []byte(testSecret), 0)
	source := wire.NewTokenSource(authority, common.LedgerServiceName, []string{common.ScopeRead, common.ScopeWrite})

	conn, err := wire.Dial(addr, nil, source)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return wire.NewLedgerClient(conn)
}

func seedMonth(t *testing.T, ctx context.Context, client *wire.LedgerClient) {
	t.Helper()
	for _, req := range []*wire.AddTransactionRequest{
		{UserID: "u1", Amount: 1000, Category: "salary", Kind: ledger.KindIncome},
		{UserID: "u1", Amount: 300, Category: "groceries", Kind: ledger.KindExpense},
		{UserID: "u1", Amount: 200, Category: "transport", Kind: ledger.KindExpense},
	} {
		_, err := client.AddTransaction(ctx, req)
		require.NoError(t, err)
	}
}

func currentMonth() string {
	return time.Now().UTC().Format("2006-01")
}

func TestGRPCServer_MonthlyReportAcrossServices(t *testing.T) {
	ledgerAddr := startLedger(t)
	reportAddr := startReport(t, ledgerAddr, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	seedMonth(t, ctx, dialLedger(t, ledgerAddr))

	r, err := dialReport(t, reportAddr).GenerateMonthlyReport(ctx, &wire.MonthlyReportRequest{
		UserID: "u1",
		Month:  currentMonth(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, r.TotalIncome)
	assert.Equal(t, 500.0, r.TotalExpenses)
	assert.Equal(t, 500.0, r.Balance)
	assert.Len(t, r.Transactions, 3)
}

func TestGRPCServer_ExportReportCSV(t *testing.T) {
	ledgerAddr := startLedger(t)
	reportAddr := startReport(t, ledgerAddr, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	seedMonth(t, ctx, dialLedger(t, ledgerAddr))

	resp, err := dialReport(t, reportAddr).ExportReport(ctx, &wire.ExportReportRequest{
		UserID: "u1",
		Month:  currentMonth(),
		Format: export.FormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, "report_u1_"+currentMonth()+".csv", resp.FileName)

	content := string(resp.FileContent)
	assert.True(t, strings.HasPrefix(content, "Transaction ID,Date,Amount,Category,Type,Description"))
	assert.Contains(t, content, "Total Income,1000")
	assert.Contains(t, content, "Balance,500")
}

func TestGRPCServer_PublishReport(t *testing.T) {
	ledgerAddr := startLedger(t)
	publisher := &stubPublisher{}
	reportAddr := startReport(t, ledgerAddr, publisher)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	seedMonth(t, ctx, dialLedger(t, ledgerAddr))

	resp, err := dialReport(t, reportAddr).PublishReport(ctx, &wire.PublishReportRequest{
		UserID: "u1",
		Month:  currentMonth(),
		Format: export.FormatJSON,
	})
	require.NoError(t, err)
	assert.Equal(t, "report_u1_"+currentMonth()+".json", resp.FileName)
	assert.Equal(t, "reports/2024/02/"+resp.FileName, resp.StorageKey)
	assert.Equal(t, resp.FileName, publisher.fileName)
	assert.NotEmpty(t, publisher.content)
}

func TestGRPCServer_PublishWithoutStorage(t *testing.T) {
	ledgerAddr := startLedger(t)
	reportAddr := startReport(t, ledgerAddr, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := dialReport(t, reportAddr).PublishReport(ctx, &wire.PublishReportRequest{
		UserID: "u1",
		Month:  currentMonth(),
		Format: export.FormatJSON,
	})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestGRPCServer_InvalidMonth(t *testing.T) {
	ledgerAddr := startLedger(t)
	reportAddr := startReport(t, ledgerAddr, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := dialReport(t, reportAddr).GenerateMonthlyReport(ctx, &wire.MonthlyReportRequest{
		UserID: "u1",
		Month:  "2024/02",
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPCServer_LedgerDown(t *testing.T) {
	// Point the report service at an address nobody listens on.
	reportAddr := startReport(t, "127.0.0.1:1", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := dialReport(t, reportAddr).GenerateMonthlyReport(ctx, &wire.MonthlyReportRequest{
		UserID: "u1",
		Month:  currentMonth(),
	})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}
