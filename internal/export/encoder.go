// Package export renders a monthly report into an exportable byte
// artifact. Encoding is pure; writing the artifact anywhere is the
// caller's responsibility.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"finledger/internal/ledger"
	"finledger/internal/report"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Artifact is a one-shot export result owned by the caller.
type Artifact struct {
	FileName string
	Content  []byte
	Format   string
}

// UnsupportedFormatError reports a format the encoder does not know.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q", e.Format)
}

// FileName builds the artifact name. The pattern is fixed for
// compatibility with existing consumers; do not change it.
func FileName(userID, month, format string) string {
	return fmt.Sprintf("report_%s_%s.%s", userID, month, format)
}

// jsonReport mirrors the exported JSON document layout.
type jsonReport struct {
	UserID        string            `json:"user_id"`
	Month         string            `json:"month"`
	TotalIncome   float64           `json:"total_income"`
	TotalExpenses float64           `json:"total_expenses"`
	Balance       float64           `json:"balance"`
	Transactions  []jsonTransaction `json:"transactions"`
}

type jsonTransaction struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Kind        string  `json:"type"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

// csvHeader is the exact column set and order of the CSV export.
var csvHeader = []string{"Transaction ID", "Date", "Amount", "Category", "Type", "Description"}

// Encode renders the report in the requested format.
func Encode(r *report.MonthlyReport, format string) (*Artifact, error) {
	var content []byte
	var err error

	switch format {
	case FormatJSON:
		content, err = encodeJSON(r)
	case FormatCSV:
		content, err = encodeCSV(r)
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
	if err != nil {
		return nil, err
	}

	return &Artifact{
		FileName: FileName(r.UserID, r.Month, format),
		Content:  content,
		Format:   format,
	}, nil
}

func encodeJSON(r *report.MonthlyReport) ([]byte, error) {
	doc := jsonReport{
		UserID:        r.UserID,
		Month:         r.Month,
		TotalIncome:   r.TotalIncome,
		TotalExpenses: r.TotalExpenses,
		Balance:       r.Balance,
		Transactions:  make([]jsonTransaction, 0, len(r.Transactions)),
	}
	for _, tx := range r.Transactions {
		doc.Transactions = append(doc.Transactions, jsonTransaction{
			ID:          tx.ID,
			Amount:      tx.Amount,
			Category:    tx.Category,
			Kind:        tx.Kind,
			Date:        tx.Date,
			Description: tx.Description,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func encodeCSV(r *report.MonthlyReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{csvHeader}
	for _, tx := range r.Transactions {
		records = append(records, []string{
			tx.ID, tx.Date, formatAmount(tx.Amount), tx.Category, tx.Kind, tx.Description,
		})
	}
	records = append(records,
		[]string{""},
		[]string{"Total Income", formatAmount(r.TotalIncome)},
		[]string{"Total Expenses", formatAmount(r.TotalExpenses)},
		[]string{"Balance", formatAmount(r.Balance)},
	)

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeJSON reconstructs a report from its JSON artifact. It is the
// inverse of Encode for the json format and exists for consumers that
// re-ingest exported reports.
func DecodeJSON(content []byte) (*report.MonthlyReport, error) {
	var doc jsonReport
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	r := &report.MonthlyReport{
		UserID:        doc.UserID,
		Month:         doc.Month,
		TotalIncome:   doc.TotalIncome,
		TotalExpenses: doc.TotalExpenses,
		Balance:       doc.Balance,
		Transactions:  make([]ledger.Transaction, 0, len(doc.Transactions)),
	}
	for _, tx := range doc.Transactions {
		r.Transactions = append(r.Transactions, ledger.Transaction{
			ID:          tx.ID,
			UserID:      doc.UserID,
			Amount:      tx.Amount,
			Category:    tx.Category,
			Kind:        tx.Kind,
			Date:        tx.Date,
			Description: tx.Description,
		})
	}
	return r, nil
}
