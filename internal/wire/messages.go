package wire

import "finledger/internal/ledger"

// Transaction is the wire form of a ledger record.
type Transaction struct {
	ID          string  `cbor:"transaction_id"`
	UserID      string  `cbor:"user_id"`
	Amount      float64 `cbor:"amount"`
	Category    string  `cbor:"category"`
	Kind        string  `cbor:"type"`
	Date        string  `cbor:"date"`
	Description string  `cbor:"description"`
}

// FromLedger converts a domain transaction to its wire form.
func FromLedger(tx ledger.Transaction) Transaction {
	return Transaction{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Kind:        tx.Kind,
		Date:        tx.Date,
		Description: tx.Description,
	}
}

// ToLedger converts a wire transaction back to the domain form.
func (t Transaction) ToLedger() ledger.Transaction {
	return ledger.Transaction{
		ID:          t.ID,
		UserID:      t.UserID,
		Amount:      t.Amount,
		Category:    t.Category,
		Kind:        t.Kind,
		Date:        t.Date,
		Description: t.Description,
	}
}

// Ledger service messages.

type AddTransactionRequest struct {
	UserID      string  `cbor:"user_id"`
	Amount      float64 `cbor:"amount"`
	Category    string  `cbor:"category"`
	Kind        string  `cbor:"type"`
	Description string  `cbor:"description"`
}

type GetTransactionsRequest struct {
	UserID    string `cbor:"user_id"`
	StartDate string `cbor:"start_date"`
	EndDate   string `cbor:"end_date"`
}

type GetTransactionsResponse struct {
	Transactions []Transaction `cbor:"transactions"`
}

// Report service messages.

type MonthlyReportRequest struct {
	UserID string `cbor:"user_id"`
	Month  string `cbor:"month"`
}

type MonthlyReportResponse struct {
	UserID        string        `cbor:"user_id"`
	Month         string        `cbor:"month"`
	TotalIncome   float64       `cbor:"total_income"`
	TotalExpenses float64       `cbor:"total_expenses"`
	Balance       float64       `cbor:"balance"`
	Transactions  []Transaction `cbor:"transactions"`
}

type ExportReportRequest struct {
	UserID string `cbor:"user_id"`
	Month  string `cbor:"month"`
	Format string `cbor:"format"`
}

type ExportReportResponse struct {
	FileName    string `cbor:"file_name"`
	FileContent []byte `cbor:"file_content"`
	Format      string `cbor:"format"`
}

type PublishReportRequest struct {
	UserID string `cbor:"user_id"`
	Month  string `cbor:"month"`
	Format string `cbor:"format"`
}

type PublishReportResponse struct {
	FileName   string `cbor:"file_name"`
	StorageKey string `cbor:"storage_key"`
}

// Identity service messages.

type RegisterUserRequest struct {
	Username string `cbor:"username"`
	Email    string `cbor:"email"`
	Password string `cbor:"password"`
}

type LoginRequest struct {
	Email    string `cbor:"email"`
	Password string `cbor:"password"`
}

type GetUserRequest struct {
	UserID string `cbor:"user_id"`
}

type UserResponse struct {
	UserID    string `cbor:"user_id"`
	Username  string `cbor:"username"`
	Email     string `cbor:"email"`
	CreatedAt string `cbor:"created_at"`
}

type LoginResponse struct {
	User        UserResponse `cbor:"user"`
	AccessToken string       `cbor:"access_token"`
}
