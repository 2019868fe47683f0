package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind classifies a ledger log entry.
type TransactionKind string

const (
	KindDeposit  TransactionKind = "deposit"
	KindWithdraw TransactionKind = "withdraw"
	KindTransfer TransactionKind = "transfer"
)

// Valid reports whether k is one of the known kinds. Used when validating
// persisted history on load.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdraw, KindTransfer:
		return true
	}
	return false
}

// TransactionRecord is one immutable entry of the append-only ledger history.
// Amount is always positive. To is set only for transfers.
type TransactionRecord struct {
	ID        uuid.UUID
	Timestamp time.Time // wall clock, second precision
	Kind      TransactionKind
	Amount    Money
	From      string
	To        string
}

// NewTransactionRecord stamps a record with a fresh ID and the current wall
// clock truncated to seconds, matching the precision of the persisted form.
func NewTransactionRecord(kind TransactionKind, amount Money, from, to string) TransactionRecord {
	return TransactionRecord{
		ID:        uuid.New(),
		Timestamp: time.Now().Truncate(time.Second),
		Kind:      kind,
		Amount:    amount,
		From:      from,
		To:        to,
	}
}
