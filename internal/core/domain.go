package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

type (
	// Kind classifies the direction of a transaction. The zero value marks
	// legacy rows with no recorded kind; those are excluded from every
	// kind-filtered aggregate.
	Kind string

	Money struct {
		Cents int64
	}

	// Transaction is one financial movement as returned by the store.
	// Optional fields use their zero value: an empty Category means
	// uncategorized, a zero CreatedAt means the row cannot be placed in
	// any date window.
	Transaction struct {
		ID          string
		Amount      Money
		Category    string
		Kind        Kind
		Description string
		CreatedAt   time.Time
		OwnerID     string
	}

	// Snapshot is a fully-materialized transaction list taken at one point
	// in time. Seq increases with every fetch so callers can discard stale
	// responses that arrive after a newer one.
	Snapshot struct {
		Seq          uint64
		TakenAt      time.Time
		Transactions []Transaction
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid kind")
	ErrEmptyCategory = errors.New("empty category")
)

// Valid reports whether k names a known transaction kind.
func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the fields a new transaction must carry before insert.
// Records already in a snapshot are never validated: the aggregates
// degrade per field instead (see aggregate.go).
func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Kind == KindExpense && strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}
