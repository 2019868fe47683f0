package domain

import "time"

// TransactionRecorded is the event emitted after a ledger mutation commits
// and its record has been appended to the history.
type TransactionRecorded struct {
	TransactionID string    `json:"transaction_id"`
	Kind          string    `json:"kind"`
	Amount        string    `json:"amount"`
	From          string    `json:"from"`
	To            string    `json:"to,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher publishes ledger events to an external broker. Publishing is
// best-effort: a publish failure never rolls back the ledger operation.
type EventPublisher interface {
	Publish(topic string, event any) error
}
