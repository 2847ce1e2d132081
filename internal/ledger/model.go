// Package ledger implements the ledger service's authoritative per-user
// append-only transaction log with date-range queries.
package ledger

// Transaction kinds recognized by report aggregation. The store itself
// accepts any non-empty kind; unrecognized values are kept in query
// results but contribute to no report total.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// DateLayout is the timestamp format stamped on every transaction, always
// in UTC. Range queries compare these strings lexicographically, which for
// this layout matches chronological order.
const DateLayout = "2006-01-02 15:04:05"

// Transaction is an immutable ledger record. It is created exactly once on
// ingestion and never updated or deleted.
type Transaction struct {
	ID          string
	UserID      string
	Amount      float64
	Category    string
	Kind        string
	Date        string
	Description string
}
