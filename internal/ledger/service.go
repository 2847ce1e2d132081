package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finledger/internal/common"
)

// Service implements the ledger operations over a Repository.
type Service struct {
	repo Repository
}

// NewService creates a ledger service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Append validates the input, assigns a fresh id, stamps now as the
// transaction timestamp and stores the record. Appends are not
// idempotent: a retried call creates a duplicate transaction.
func (s *Service) Append(ctx context.Context, userID string, amount float64, category, kind, description string, now time.Time) (*Transaction, error) {
	switch {
	case userID == "":
		return nil, fmt.Errorf("%w: user id is required", common.ErrorInvalidArgument)
	case kind == "":
		return nil, fmt.Errorf("%w: kind is required", common.ErrorInvalidArgument)
	case amount <= 0:
		return nil, fmt.Errorf("%w: amount must be positive", common.ErrorInvalidArgument)
	}

	tx := &Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Kind:        kind,
		Date:        now.UTC().Format(DateLayout),
		Description: description,
	}

	if err := s.repo.Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("append transaction: %w", err)
	}
	return tx, nil
}

// Query returns the user's transactions within the optional date bounds,
// in insertion order. An unknown user yields an empty slice.
func (s *Service) Query(ctx context.Context, userID, startDate, endDate string) ([]Transaction, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrorInvalidArgument)
	}
	return s.repo.Query(ctx, userID, startDate, endDate)
}
