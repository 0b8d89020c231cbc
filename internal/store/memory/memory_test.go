package memory

import (
	"context"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func TestDefaults(t *testing.T) {
	s := New()
	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Transactions) != 0 {
		t.Fatalf("expected no transactions, got %d", len(snap.Transactions))
	}
	if snap.Budget.Cents != store.DefaultBudgetCents {
		t.Fatalf("expected default budget, got %d", snap.Budget.Cents)
	}
}

func TestSaveLoadIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()

	tx := core.Transaction{
		ID:       "a",
		Date:     core.NewDate(2025, 1, 1),
		Amount:   core.Money{Cents: 100},
		Type:     core.Expense,
		Category: "Food",
	}
	if err := s.Save(ctx, store.Snapshot{Transactions: []core.Transaction{tx}, Budget: core.Money{Cents: 42}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != "a" || snap.Budget.Cents != 42 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	// Mutating the loaded copy must not leak into the store.
	snap.Transactions[0].ID = "mutated"
	again, _ := s.Load(ctx)
	if again.Transactions[0].ID != "a" {
		t.Fatalf("store state leaked: %+v", again.Transactions[0])
	}
}
