// Package storage persists the ledger in SQLite. State lives in two
// named slots: "transactions" (a JSON array) and "budget" (a cent
// count). Each save replaces a slot's whole value, which keeps every
// mutation a single atomic write.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

const (
	slotTransactions = "transactions"
	slotBudget       = "budget"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads both slots, substituting the documented defaults for
// missing keys: an empty transaction list and the default budget.
func (s *SQLiteStore) Load(ctx context.Context) (store.Snapshot, error) {
	snap := store.Snapshot{
		Transactions: []core.Transaction{},
		Budget:       core.Money{Cents: store.DefaultBudgetCents},
	}

	raw, err := s.readSlot(ctx, slotTransactions)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("read transactions slot: %w", err)
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &snap.Transactions); err != nil {
			return store.Snapshot{}, fmt.Errorf("decode transactions slot: %w", err)
		}
	}

	raw, err = s.readSlot(ctx, slotBudget)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("read budget slot: %w", err)
	}
	if raw != "" {
		cents, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return store.Snapshot{}, fmt.Errorf("decode budget slot %q: %w", raw, err)
		}
		snap.Budget = core.Money{Cents: cents}
	}

	return snap, nil
}

// Save writes both slots inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap store.Snapshot) error {
	body, err := json.Marshal(snap.Transactions)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if err := writeSlot(ctx, tx, slotTransactions, string(body)); err != nil {
		return err
	}
	if err := writeSlot(ctx, tx, slotBudget, strconv.FormatInt(snap.Budget.Cents, 10)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved",
		"transactions", len(snap.Transactions),
		"budget_cents", snap.Budget.Cents)
	return nil
}

func (s *SQLiteStore) readSlot(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func writeSlot(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}
