// Package store defines the persistence port for the transaction ledger.
package store

import (
	"context"

	"fintrack/internal/core"
)

// DefaultBudgetCents is substituted when no budget has been saved yet.
const DefaultBudgetCents int64 = 5000000

// Snapshot is the full persisted state: the whole transaction list and
// the budget. Stores read and write it wholesale; there are no partial
// updates.
type Snapshot struct {
	Transactions []core.Transaction
	Budget       core.Money
}

// Store is the durable key-value boundary. Load must tolerate missing
// data by substituting the documented defaults (no transactions,
// DefaultBudgetCents).
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
