// Package export mirrors stored transactions to a Google Sheets ledger.
// The sheet is an append-only audit copy; it is never read back into the
// dashboard.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gastos/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SheetsClient appends transaction rows to one sheet of a spreadsheet.
type SheetsClient struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsClient builds a client for the given spreadsheet. When
// credentialsJSON is empty, Application Default Credentials are used.
func NewSheetsClient(ctx context.Context, spreadsheetID, sheetName, credentialsJSON string) (*SheetsClient, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if sheetName == "" {
		sheetName = "Transactions"
	}

	opts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}
	if credentialsJSON != "" {
		opts = append(opts, goption.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsClient{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendTransaction appends one row: id, created-at, kind, category,
// description, amount in pesos, owner.
func (c *SheetsClient) AppendTransaction(ctx context.Context, tx core.Transaction) error {
	createdAt := ""
	if !tx.CreatedAt.IsZero() {
		createdAt = tx.CreatedAt.Format(time.RFC3339)
	}

	vr := &gsheet.ValueRange{Values: [][]any{{
		tx.ID,
		createdAt,
		string(tx.Kind),
		tx.Category,
		tx.Description,
		tx.Amount.Pesos(),
		tx.OwnerID,
	}}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.sheetName, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append transaction row: %w", err)
	}

	slog.InfoContext(ctx, "Transaction exported to sheet",
		"id", tx.ID,
		"sheet", c.sheetName,
		"amount_cents", tx.Amount.Cents)
	return nil
}
