package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcosta/bankledger/internal/domain"
)

// Store implements domain.LedgerStore on top of PostgreSQL. The full ledger
// state is written as one snapshot inside a transaction: both tables are
// cleared and rewritten, preserving insertion order through a position
// column. An empty database reads as "no snapshot yet".
type Store struct {
	db *DB
}

// NewStore creates a postgres-backed ledger store and ensures the schema
// exists.
func NewStore(ctx context.Context, db *DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			position INT NOT NULL,
			name TEXT NOT NULL,
			balance TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			position INT NOT NULL,
			id UUID NOT NULL,
			ts TIMESTAMPTZ NOT NULL,
			kind TEXT NOT NULL,
			amount TEXT NOT NULL,
			from_account TEXT NOT NULL,
			to_account TEXT
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure ledger schema: %w", err)
		}
	}
	return nil
}

// Save replaces any previously stored snapshot with snap.
func (s *Store) Save(ctx context.Context, snap domain.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}

	for i, a := range snap.Accounts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (position, name, balance) VALUES ($1, $2, $3)`,
			i, a.Name, a.Balance,
		)
		if err != nil {
			return fmt.Errorf("failed to insert account %q: %w", a.Name, err)
		}
	}
	for i, t := range snap.Transactions {
		var to interface{}
		if t.Kind == domain.KindTransfer {
			to = t.To
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (position, id, ts, kind, amount, from_account, to_account)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			i, t.ID, t.Timestamp, string(t.Kind), t.Amount.String(), t.From, to,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot back in insertion order. found is false
// when the database holds no accounts and no transactions.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, bool, error) {
	var snap domain.Snapshot

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, balance FROM accounts ORDER BY position`)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rec domain.AccountRecord
		if err := rows.Scan(&rec.Name, &rec.Balance); err != nil {
			return domain.Snapshot{}, false, fmt.Errorf("failed to scan account: %w", err)
		}
		snap.Accounts = append(snap.Accounts, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, false, err
	}

	txRows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, kind, amount, from_account, to_account FROM transactions ORDER BY position`)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer txRows.Close()
	for txRows.Next() {
		var (
			id     uuid.UUID
			rec    domain.TransactionRecord
			kind   string
			amount string
			to     sql.NullString
		)
		if err := txRows.Scan(&id, &rec.Timestamp, &kind, &amount, &rec.From, &to); err != nil {
			return domain.Snapshot{}, false, fmt.Errorf("failed to scan transaction: %w", err)
		}
		rec.ID = id
		rec.Kind = domain.TransactionKind(kind)
		if !rec.Kind.Valid() {
			return domain.Snapshot{}, false, fmt.Errorf("%w: unknown transaction kind %q", domain.ErrCorruptStore, kind)
		}
		rec.Amount, err = domain.ParseMoney(amount)
		if err != nil {
			return domain.Snapshot{}, false, fmt.Errorf("%w: bad transaction amount %q", domain.ErrCorruptStore, amount)
		}
		if to.Valid {
			rec.To = to.String
		}
		snap.Transactions = append(snap.Transactions, rec)
	}
	if err := txRows.Err(); err != nil {
		return domain.Snapshot{}, false, err
	}

	if len(snap.Accounts) == 0 && len(snap.Transactions) == 0 {
		return domain.Snapshot{}, false, nil
	}
	return snap, true, nil
}

var _ domain.LedgerStore = (*Store)(nil)
