package ledger

import "context"

// Repository is the storage contract of the ledger store. Append adds an
// already-populated transaction to its user's page; Query returns the
// user's transactions whose date lies within the given bounds, in
// insertion order. Empty bounds are unbounded; an unknown user yields an
// empty result, never an error.
type Repository interface {
	Append(ctx context.Context, tx *Transaction) error
	Query(ctx context.Context, userID, startDate, endDate string) ([]Transaction, error)
}

// inRange reports whether a transaction date falls inside the bounds.
// Comparison is lexicographic on the date strings, matching the query
// semantics callers rely on (e.g. an end bound of "2024-02-31" includes
// every February date).
func inRange(date, startDate, endDate string) bool {
	if startDate != "" && date < startDate {
		return false
	}
	if endDate != "" && date > endDate {
		return false
	}
	return true
}
