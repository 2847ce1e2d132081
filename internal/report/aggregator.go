// Package report implements the monthly report aggregator: it fans out to
// the ledger service, reconciles the result set into derived totals, and
// hands the outcome to the export encoder.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finledger/internal/ledger"
	"finledger/internal/logging"
)

// ErrInvalidMonthFormat is returned when the requested month does not
// split into a 4-digit year and a 2-digit month.
var ErrInvalidMonthFormat = errors.New("month format should be YYYY-MM")

// DownstreamError wraps a failed or timed-out ledger call. It is the
// retryable "service unavailable" class: the aggregator neither knows nor
// cares whether the underlying cause was transient.
type DownstreamError struct {
	Detail string
	Err    error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("ledger unavailable: %s", e.Detail)
}

func (e *DownstreamError) Unwrap() error { return e.Err }

// MonthlyReport is the derived, non-persisted aggregation result. It is
// recomputed on every request and never cached.
type MonthlyReport struct {
	UserID        string
	Month         string
	TotalIncome   float64
	TotalExpenses float64
	Balance       float64
	Transactions  []ledger.Transaction
}

// Querier is the ledger boundary the aggregator calls across the network.
type Querier interface {
	QueryTransactions(ctx context.Context, userID, startDate, endDate string) ([]ledger.Transaction, error)
}

// Aggregator builds monthly reports from ledger data. The ledger call is
// bounded by the configured timeout; there are no retries inside the
// aggregator, retry policy belongs to the caller.
type Aggregator struct {
	ledger  Querier
	timeout time.Duration
	logger  logging.Logger
}

// NewAggregator wires an aggregator to a ledger querier.
func NewAggregator(q Querier, timeout time.Duration, logger logging.Logger) *Aggregator {
	return &Aggregator{ledger: q, timeout: timeout, logger: logger.With("module", "aggregator")}
}

// MonthBounds validates a YYYY-MM month string and derives the query
// bounds. The upper bound is always day 31, even for shorter months: the
// ledger compares date strings lexicographically, so "2024-02-31" still
// includes every February transaction. Callers rely on this exact
// semantics; do not tighten it to a calendar-accurate month end.
func MonthBounds(month string) (startDate, endDate string, err error) {
	if len(month) != 7 || month[4] != '-' {
		return "", "", ErrInvalidMonthFormat
	}
	for i, r := range month {
		if i == 4 {
			continue
		}
		if r < '0' || r > '9' {
			return "", "", ErrInvalidMonthFormat
		}
	}
	return month + "-01", month + "-31", nil
}

// GenerateMonthlyReport queries the ledger for the month and computes the
// derived totals in a single pass. Zero transactions is a valid outcome
// and yields a well-formed report with zero totals. Transactions of a
// kind other than income or expense stay in the report's transaction list
// but contribute to neither total.
func (a *Aggregator) GenerateMonthlyReport(ctx context.Context, userID, month string) (*MonthlyReport, error) {
	startDate, endDate, err := MonthBounds(month)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	txs, err := a.ledger.QueryTransactions(ctx, userID, startDate, endDate)
	if err != nil {
		// Authentication and authorization failures of the downstream
		// call pass through unchanged so callers cannot mistake them
		// for a network blip.
		if code := status.Code(err); code == codes.Unauthenticated || code == codes.PermissionDenied {
			return nil, err
		}
		a.logger.Warn(ctx, "ledger query failed", "user_id", userID, "month", month, "error", err)
		return nil, &DownstreamError{Detail: err.Error(), Err: err}
	}

	r := &MonthlyReport{
		UserID:       userID,
		Month:        month,
		Transactions: txs,
	}
	for _, tx := range txs {
		switch tx.Kind {
		case ledger.KindIncome:
			r.TotalIncome += tx.Amount
		case ledger.KindExpense:
			r.TotalExpenses += tx.Amount
		}
	}
	r.Balance = r.TotalIncome - r.TotalExpenses

	return r, nil
}
