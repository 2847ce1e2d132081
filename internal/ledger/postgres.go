package ledger

import (
	"context"
	"fmt"

	"finledger/internal/dbx"
)

// PostgresRepository is the durable alternative to the in-memory store.
// The date column is text, so range filters compare lexicographically
// exactly like MemoryRepository does.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, tx *Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, amount, category, kind, date, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.UserID, tx.Amount, tx.Category, tx.Kind, tx.Date, tx.Description)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Query(ctx context.Context, userID, startDate, endDate string) ([]Transaction, error) {
	query := `
		SELECT id, user_id, amount, category, kind, date, description FROM transactions
		WHERE user_id = $1
		  AND ($2 = '' OR date >= $2)
		  AND ($3 = '' OR date <= $3)
		ORDER BY seq;
	`
	rows, err := r.db.QueryContext(ctx, query, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	result := []Transaction{}
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Amount, &tx.Category, &tx.Kind, &tx.Date, &tx.Description,
		); err != nil {
			return nil, err
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
