package core

import (
	"testing"
	"time"
)

func TestKindValid(t *testing.T) {
	if !KindExpense.Valid() || !KindIncome.Valid() {
		t.Fatalf("expected known kinds to be valid")
	}
	if Kind("").Valid() || Kind("gasto").Valid() {
		t.Fatalf("expected unknown kinds to be invalid")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -5}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount:      Money{Cents: 5000000},
		Category:    "Comida",
		Kind:        KindExpense,
		Description: "almuerzo",
		CreatedAt:   time.Now(),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Income needs no category.
	in := Transaction{Amount: Money{Cents: 100}, Kind: KindIncome}
	if err := in.Validate(); err != nil {
		t.Fatalf("expected income without category to pass, got %v", err)
	}

	bads := []Transaction{
		{Amount: Money{Cents: 0}, Kind: KindExpense, Category: "c"},
		{Amount: Money{Cents: 100}, Kind: Kind(""), Category: "c"},
		{Amount: Money{Cents: 100}, Kind: KindExpense, Category: "  "},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
