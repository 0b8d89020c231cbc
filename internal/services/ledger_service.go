// Package services orchestrates ledger mutations across the store and
// the event stream.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

var ErrNotFound = errors.New("transaction not found")

// EventPublisher is the outbound event stream. A nil publisher disables
// eventing; mutations still succeed.
type EventPublisher interface {
	Publish(ctx context.Context, event *amqp.Event) error
}

// Draft is a transaction as submitted by the user, before an id is
// assigned.
type Draft struct {
	Date        core.Date
	Description string
	Amount      core.Money
	Type        core.TransactionType
	Category    core.Category
}

// Ledger owns all writes to the transaction store. Every mutation is a
// load-modify-save of the whole snapshot; the mutex serializes them so
// a save never clobbers a concurrent one.
type Ledger struct {
	mu     sync.Mutex
	store  store.Store
	events EventPublisher
}

func NewLedger(st store.Store, events EventPublisher) *Ledger {
	return &Ledger{store: st, events: events}
}

// Add validates the draft, assigns a fresh id, and appends the
// transaction to the ledger. The event publish is best-effort: a
// failure is logged, not returned, because the ledger save already
// succeeded.
func (l *Ledger) Add(ctx context.Context, d Draft) (core.Transaction, error) {
	tx := core.Transaction{
		ID:          uuid.NewString(),
		Date:        d.Date,
		Description: d.Description,
		Amount:      d.Amount,
		Type:        d.Type,
		Category:    d.Category,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.store.Load(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load ledger: %w", err)
	}
	snap.Transactions = append(snap.Transactions, tx)
	if err := l.store.Save(ctx, snap); err != nil {
		return core.Transaction{}, fmt.Errorf("save ledger: %w", err)
	}

	l.publish(ctx, amqp.NewCreatedEvent(tx))
	return tx, nil
}

// Delete removes exactly the transaction with the given id, leaving the
// relative order of all others unchanged.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	kept := snap.Transactions[:0:0]
	found := false
	for _, tx := range snap.Transactions {
		if tx.ID == id {
			found = true
			continue
		}
		kept = append(kept, tx)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	snap.Transactions = kept
	if err := l.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	l.publish(ctx, amqp.NewDeletedEvent(id))
	return nil
}

// SetBudget replaces the monthly spending ceiling. Zero is allowed;
// negative is not.
func (l *Ledger) SetBudget(ctx context.Context, budget core.Money) error {
	if budget.Cents < 0 {
		return core.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	snap.Budget = budget
	if err := l.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// Snapshot returns the current persisted state.
func (l *Ledger) Snapshot(ctx context.Context) (store.Snapshot, error) {
	return l.store.Load(ctx)
}

func (l *Ledger) publish(ctx context.Context, event *amqp.Event) {
	if l.events == nil {
		return
	}
	if err := l.events.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", event.Kind, "id", event.ID, "error", err)
	}
}
