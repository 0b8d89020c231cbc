package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/core"
)

const (
	KindCreated = "transaction.created"
	KindDeleted = "transaction.deleted"
)

// Event is the message published for every ledger mutation. Created
// events carry the full transaction so the backup worker never needs to
// read the ledger store; deleted events carry only the id.
type Event struct {
	Kind        string            `json:"kind"`
	Transaction *core.Transaction `json:"transaction,omitempty"`
	ID          string            `json:"id,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

func NewCreatedEvent(tx core.Transaction) *Event {
	return &Event{Kind: KindCreated, Transaction: &tx, ID: tx.ID, Timestamp: time.Now()}
}

func NewDeletedEvent(id string) *Event {
	return &Event{Kind: KindDeleted, ID: id, Timestamp: time.Now()}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
