package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"finledger/internal/export"
	"finledger/internal/filex"
	"finledger/internal/wire"
)

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.identity.RegisterUser(ctx, &wire.RegisterUserRequest{
		Username: username,
		Email:    email,
		Password: string(password),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %s), now run 'finledger login'\n", user.Username, user.UserID)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	resp, err := a.identity.Login(ctx, &wire.LoginRequest{Email: email, Password: string(password)})
	if err != nil {
		return err
	}

	session := &Session{
		UserID:      resp.User.UserID,
		Username:    resp.User.Username,
		AccessToken: resp.AccessToken,
	}
	if err := SaveSession(a.sessionPath, session); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", resp.User.Username)
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	session, err := a.currentSession()
	if err != nil {
		return err
	}

	user, err := a.identity.GetUser(ctx, &wire.GetUserRequest{UserID: session.UserID})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s <%s> (id %s, since %s)\n", user.Username, user.Email, user.UserID, user.CreatedAt)
	return nil
}

func (a *App) Add(ctx context.Context, args []string) error {
	session, err := a.currentSession()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	amount := fs.Float64("amount", 0, "transaction amount (positive)")
	category := fs.String("category", "", "category, e.g. groceries")
	kind := fs.String("type", "", "income or expense")
	description := fs.String("desc", "", "optional description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tx, err := a.ledger.AddTransaction(ctx, &wire.AddTransactionRequest{
		UserID:      session.UserID,
		Amount:      *amount,
		Category:    *category,
		Kind:        *kind,
		Description: *description,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Recorded %s %s %.2f (%s) at %s\n", tx.Kind, tx.Category, tx.Amount, tx.ID, tx.Date)
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	session, err := a.currentSession()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	from := fs.String("from", "", "start date, YYYY-MM-DD HH:MM:SS")
	to := fs.String("to", "", "end date, YYYY-MM-DD HH:MM:SS")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.ledger.GetTransactions(ctx, &wire.GetTransactionsRequest{
		UserID:    session.UserID,
		StartDate: *from,
		EndDate:   *to,
	})
	if err != nil {
		return err
	}

	if len(resp.Transactions) == 0 {
		fmt.Fprintln(a.out, "No transactions")
		return nil
	}
	for _, tx := range resp.Transactions {
		fmt.Fprintf(a.out, "%s  %-8s %10.2f  %-15s %s\n", tx.Date, tx.Kind, tx.Amount, tx.Category, tx.Description)
	}
	return nil
}

func (a *App) Report(ctx context.Context, args []string) error {
	session, err := a.currentSession()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	month := fs.String("month", "", "month, YYYY-MM")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, err := a.report.GenerateMonthlyReport(ctx, &wire.MonthlyReportRequest{
		UserID: session.UserID,
		Month:  *month,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Report for %s\n", r.Month)
	fmt.Fprintf(a.out, "  income:   %10.2f\n", r.TotalIncome)
	fmt.Fprintf(a.out, "  expenses: %10.2f\n", r.TotalExpenses)
	fmt.Fprintf(a.out, "  balance:  %10.2f\n", r.Balance)
	fmt.Fprintf(a.out, "  transactions: %d\n", len(r.Transactions))
	return nil
}

func (a *App) Export(ctx context.Context, args []string) error {
	session, err := a.currentSession()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	month := fs.String("month", "", "month, YYYY-MM")
	format := fs.String("format", export.FormatJSON, "export format: json or csv")
	output := fs.String("o", "", "output file (defaults to the report file name)")
	upload := fs.Bool("upload", false, "publish to object storage instead of writing a file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *upload {
		resp, err := a.report.PublishReport(ctx, &wire.PublishReportRequest{
			UserID: session.UserID,
			Month:  *month,
			Format: *format,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Published %s as %s\n", resp.FileName, resp.StorageKey)
		return nil
	}

	resp, err := a.report.ExportReport(ctx, &wire.ExportReportRequest{
		UserID: session.UserID,
		Month:  *month,
		Format: *format,
	})
	if err != nil {
		return err
	}

	path := *output
	if path == "" {
		dir, err := filex.EnsureSubDir("exports")
		if err != nil {
			return err
		}
		path = filepath.Join(dir, resp.FileName)
	}
	if err := os.WriteFile(path, resp.FileContent, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Wrote %s (%d bytes)\n", path, len(resp.FileContent))
	return nil
}
