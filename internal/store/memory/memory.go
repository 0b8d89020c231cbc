// Package memory holds the ledger snapshot in process memory. It is the
// default backend for development and tests.
package memory

import (
	"context"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu   sync.Mutex
	snap store.Snapshot
}

func New() *Store {
	return &Store{
		snap: store.Snapshot{
			Transactions: []core.Transaction{},
			Budget:       core.Money{Cents: store.DefaultBudgetCents},
		},
	}
}

// Load returns a copy of the current snapshot so callers can never
// mutate shared state.
func (s *Store) Load(_ context.Context) (store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := make([]core.Transaction, len(s.snap.Transactions))
	copy(txs, s.snap.Transactions)
	return store.Snapshot{Transactions: txs, Budget: s.snap.Budget}, nil
}

// Save replaces the whole snapshot.
func (s *Store) Save(_ context.Context, snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := make([]core.Transaction, len(snap.Transactions))
	copy(txs, snap.Transactions)
	s.snap = store.Snapshot{Transactions: txs, Budget: snap.Budget}
	return nil
}
