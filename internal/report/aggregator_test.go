package report

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finledger/internal/ledger"
	"finledger/internal/logging"
)

type stubQuerier struct {
	txs       []ledger.Transaction
	err       error
	gotStart  string
	gotEnd    string
	delay     time.Duration
	callCount int
}

func (s *stubQuerier) QueryTransactions(ctx context.Context, userID, startDate, endDate string) ([]ledger.Transaction, error) {
	s.callCount++
	s.gotStart, s.gotEnd = startDate, endDate
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.txs, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

func newAggregator(q Querier) *Aggregator {
	return NewAggregator(q, time.Second, testLogger())
}

func TestMonthBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		month     string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{month: "2024-03", wantStart: "2024-03-01", wantEnd: "2024-03-31"},
		{month: "2024-02", wantStart: "2024-02-01", wantEnd: "2024-02-31"},
		{month: "202403", wantErr: true},
		{month: "2024-3", wantErr: true},
		{month: "24-03", wantErr: true},
		{month: "2024-xx", wantErr: true},
		{month: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.month, func(t *testing.T) {
			start, end, err := MonthBounds(tc.month)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMonthFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
		})
	}
}

func TestGenerateMonthlyReport_Totals(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{txs: []ledger.Transaction{
		{ID: "a", UserID: "u1", Amount: 100, Kind: ledger.KindIncome, Date: "2024-03-05 10:00:00"},
		{ID: "b", UserID: "u1", Amount: 40, Kind: ledger.KindExpense, Date: "2024-03-20 15:00:00"},
	}}

	r, err := newAggregator(q).GenerateMonthlyReport(context.Background(), "u1", "2024-03")
	require.NoError(t, err)

	assert.Equal(t, 100.0, r.TotalIncome)
	assert.Equal(t, 40.0, r.TotalExpenses)
	assert.Equal(t, 60.0, r.Balance)
	assert.Len(t, r.Transactions, 2)
	assert.Equal(t, "2024-03-01", q.gotStart)
	assert.Equal(t, "2024-03-31", q.gotEnd)
}

func TestGenerateMonthlyReport_EmptyLedgerIsNotAnError(t *testing.T) {
	t.Parallel()

	r, err := newAggregator(&stubQuerier{txs: []ledger.Transaction{}}).
		GenerateMonthlyReport(context.Background(), "u1", "2024-03")
	require.NoError(t, err)

	assert.Zero(t, r.TotalIncome)
	assert.Zero(t, r.TotalExpenses)
	assert.Zero(t, r.Balance)
	assert.Empty(t, r.Transactions)
}

func TestGenerateMonthlyReport_UnrecognizedKindExcludedFromTotals(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{txs: []ledger.Transaction{
		{ID: "a", Amount: 100, Kind: ledger.KindIncome},
		{ID: "b", Amount: 25, Kind: "test"},
	}}

	r, err := newAggregator(q).GenerateMonthlyReport(context.Background(), "u1", "2024-03")
	require.NoError(t, err)

	assert.Equal(t, 100.0, r.TotalIncome)
	assert.Zero(t, r.TotalExpenses)
	assert.Equal(t, 100.0, r.Balance)
	// The unclassified transaction is still listed.
	assert.Len(t, r.Transactions, 2)
}

func TestGenerateMonthlyReport_InvalidMonth(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{}
	_, err := newAggregator(q).GenerateMonthlyReport(context.Background(), "u1", "202403")

	assert.ErrorIs(t, err, ErrInvalidMonthFormat)
	assert.Zero(t, q.callCount, "ledger must not be queried for a malformed month")
}

func TestGenerateMonthlyReport_DownstreamFailure(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{err: errors.New("connection refused")}
	_, err := newAggregator(q).GenerateMonthlyReport(context.Background(), "u1", "2024-03")

	var de *DownstreamError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Detail, "connection refused")
	assert.Equal(t, 1, q.callCount, "no internal retries")
}

func TestGenerateMonthlyReport_Timeout(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{delay: time.Second}
	a := NewAggregator(q, 20*time.Millisecond, testLogger())

	_, err := a.GenerateMonthlyReport(context.Background(), "u1", "2024-03")

	var de *DownstreamError
	require.ErrorAs(t, err, &de)
}

func TestGenerateMonthlyReport_AuthErrorsPassThrough(t *testing.T) {
	t.Parallel()

	for _, code := range []codes.Code{codes.Unauthenticated, codes.PermissionDenied} {
		q := &stubQuerier{err: status.Error(code, "no token")}
		_, err := newAggregator(q).GenerateMonthlyReport(context.Background(), "u1", "2024-03")

		require.Error(t, err)
		assert.Equal(t, code, status.Code(err))

		var de *DownstreamError
		assert.False(t, errors.As(err, &de), "auth errors must not be wrapped as downstream failures")
	}
}
