package storage

import (
	"context"
	"database/sql"
	"time"

	"gastos/internal/core"
)

// Queries wraps the raw SQL for the transactions table.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

const insertTransaction = `
INSERT INTO transactions (id, amount_cents, category, kind, description, created_at, owner_id)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := q.db.ExecContext(ctx, insertTransaction,
		tx.ID,
		tx.Amount.Cents,
		nullString(tx.Category),
		nullString(string(tx.Kind)),
		nullString(tx.Description),
		nullTime(tx.CreatedAt),
		nullString(tx.OwnerID),
	)
	return err
}

const listByOwner = `
SELECT id, amount_cents, category, kind, description, created_at, owner_id
FROM transactions
WHERE owner_id = ?
ORDER BY created_at DESC
`

func (q *Queries) ListByOwner(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

const getTransaction = `
SELECT id, amount_cents, category, kind, description, created_at, owner_id
FROM transactions
WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	return scanTransaction(row)
}

const listPendingExport = `
SELECT id, amount_cents, category, kind, description, created_at, owner_id
FROM transactions
WHERE exported_at IS NULL
ORDER BY created_at ASC
LIMIT ?
`

func (q *Queries) ListPendingExport(ctx context.Context, limit int64) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listPendingExport, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

const markExported = `
UPDATE transactions SET exported_at = ? WHERE id = ?
`

func (q *Queries) MarkExported(ctx context.Context, id string, at time.Time) error {
	_, err := q.db.ExecContext(ctx, markExported, at.UTC().Format(time.RFC3339Nano), id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx        core.Transaction
		category  sql.NullString
		kind      sql.NullString
		desc      sql.NullString
		createdAt sql.NullString
		ownerID   sql.NullString
	)
	if err := row.Scan(&tx.ID, &tx.Amount.Cents, &category, &kind, &desc, &createdAt, &ownerID); err != nil {
		return core.Transaction{}, err
	}
	tx.Category = category.String
	tx.Kind = core.Kind(kind.String)
	tx.Description = desc.String
	tx.OwnerID = ownerID.String
	if createdAt.Valid {
		// A row with an unparseable timestamp degrades to "no timestamp";
		// the aggregates exclude it from date windows, nothing fails.
		if ts, err := time.Parse(time.RFC3339Nano, createdAt.String); err == nil {
			tx.CreatedAt = ts
		}
	}
	return tx, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}
