package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventUpsert EventKind = "upsert"
	EventDelete EventKind = "delete"
)

// EventKind distinguishes the two transaction change events the export
// worker consumes.
type EventKind string

// TransactionEvent is a lightweight change notification. It carries
// only the transaction ID; the worker fetches the current row from the
// database, so a stale message never exports stale data.
type TransactionEvent struct {
	Kind      EventKind `json:"kind"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(kind EventKind, id int64) *TransactionEvent {
	return &TransactionEvent{
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// BudgetAlert carries a budget-status message to whatever consumes the
// alerts queue for display.
type BudgetAlert struct {
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	CategoryID int64     `json:"category_id"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Timestamp  time.Time `json:"timestamp"`
}

func (m *BudgetAlert) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetAlertFromJSON(data []byte) (*BudgetAlert, error) {
	var msg BudgetAlert
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
