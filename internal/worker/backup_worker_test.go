package worker

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

type fakeSheets struct {
	appended []core.Transaction
	deleted  []string
	fail     bool
}

func (f *fakeSheets) Append(ctx context.Context, tx core.Transaction) error {
	if f.fail {
		return errors.New("sheets down")
	}
	f.appended = append(f.appended, tx)
	return nil
}

func (f *fakeSheets) MarkDeleted(ctx context.Context, id string) error {
	if f.fail {
		return errors.New("sheets down")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func sample() core.Transaction {
	return core.Transaction{
		ID:          "tx-1",
		Date:        core.NewDate(2026, 8, 15),
		Description: "Groceries",
		Amount:      core.Money{Cents: 4250},
		Type:        core.Expense,
		Category:    "Food",
	}
}

func TestHandleCreatedEvent(t *testing.T) {
	sink := &fakeSheets{}
	w := NewBackupWorker(sink)

	if err := w.HandleEvent(context.Background(), amqp.NewCreatedEvent(sample())); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(sink.appended) != 1 || sink.appended[0].ID != "tx-1" {
		t.Errorf("appended = %+v, want one tx-1 row", sink.appended)
	}
}

func TestHandleDeletedEvent(t *testing.T) {
	sink := &fakeSheets{}
	w := NewBackupWorker(sink)

	if err := w.HandleEvent(context.Background(), amqp.NewDeletedEvent("tx-9")); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(sink.deleted) != 1 || sink.deleted[0] != "tx-9" {
		t.Errorf("deleted = %v, want [tx-9]", sink.deleted)
	}
}

func TestSinkFailureRequeues(t *testing.T) {
	w := NewBackupWorker(&fakeSheets{fail: true})

	if err := w.HandleEvent(context.Background(), amqp.NewCreatedEvent(sample())); err == nil {
		t.Error("expected error so the message is requeued")
	}
}

func TestMalformedEventsDropped(t *testing.T) {
	sink := &fakeSheets{}
	w := NewBackupWorker(sink)

	events := []*amqp.Event{
		{Kind: amqp.KindCreated, ID: "no-payload"},
		{Kind: "transaction.updated", ID: "tx-2"},
	}
	for _, ev := range events {
		if err := w.HandleEvent(context.Background(), ev); err != nil {
			t.Errorf("event %q: unexpected error %v", ev.Kind, err)
		}
	}
	if len(sink.appended) != 0 || len(sink.deleted) != 0 {
		t.Error("malformed events should not reach the sink")
	}
}

func TestNoSinkConfigured(t *testing.T) {
	w := NewBackupWorker(nil)

	if err := w.HandleEvent(context.Background(), amqp.NewCreatedEvent(sample())); err != nil {
		t.Errorf("expected events to be dropped without a sink, got %v", err)
	}
}
