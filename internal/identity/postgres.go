package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finledger/internal/common"
	"finledger/internal/dbx"
)

// PostgresRepository stores users in PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository constructs a repository bound to the given handle.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the user inside a transaction: an existing-email check
// followed by the insert. The insert keeps ON CONFLICT DO NOTHING so a
// registration racing past the check still reports a duplicate instead
// of failing on the unique constraint.
func (r *PostgresRepository) Create(ctx context.Context, user *User) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var existingID string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM users WHERE email = $1;`, user.Email).Scan(&existingID)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("db error: %w", err)
		}

		query := `
			INSERT INTO users (id, username, email, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO NOTHING;
		`
		res, err := tx.ExecContext(ctx, query,
			user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected error: %w", err)
		}
		if n == 0 {
			return common.ErrorAlreadyExists
		}
		return nil
	})
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1;`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1;`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &user, nil
}
