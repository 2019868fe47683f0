package domain

import "context"

// AccountRecord is the serialized form of an account. The balance is rendered
// as an exact decimal string, never a binary float.
type AccountRecord struct {
	Name    string
	Balance string
}

// Snapshot is the full serializable state of a ledger: accounts in insertion
// order plus the transaction history in append order.
type Snapshot struct {
	Accounts     []AccountRecord
	Transactions []TransactionRecord
}

// LedgerStore defines the persistence boundary for full ledger state.
type LedgerStore interface {
	// Save writes the complete snapshot, replacing any previous state.
	Save(ctx context.Context, snap Snapshot) error

	// Load reads the complete snapshot. found is false when the backing
	// store does not exist yet; that is not an error.
	Load(ctx context.Context) (snap Snapshot, found bool, err error)
}
