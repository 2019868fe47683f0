package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pcosta/bankledger/internal/domain"
)

// timeLayout is ISO-8601 with second precision, matching the on-disk history.
const timeLayout = "2006-01-02T15:04:05"

// Store persists the full ledger state as one human-readable JSON file.
// Writes are atomic: the snapshot goes to a temporary file first and replaces
// the previous file with a rename, so an interrupted write never corrupts
// existing state.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path. The file does not
// need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the snapshot, replacing any previous file.
func (s *Store) Save(ctx context.Context, snap domain.Snapshot) error {
	out := fileSnapshot{
		Accounts:     make([]fileAccount, 0, len(snap.Accounts)),
		Transactions: make([]fileTransaction, 0, len(snap.Transactions)),
	}
	for _, a := range snap.Accounts {
		out.Accounts = append(out.Accounts, fileAccount{Name: a.Name, Balance: a.Balance})
	}
	for _, t := range snap.Transactions {
		ft := fileTransaction{
			ID:        t.ID.String(),
			Timestamp: t.Timestamp.Format(timeLayout),
			Type:      string(t.Kind),
			Amount:    t.Amount.String(),
			From:      t.From,
		}
		if t.Kind == domain.KindTransfer {
			to := t.To
			ft.To = &to
		}
		out.Transactions = append(out.Transactions, ft)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the snapshot back. A missing file reports found=false. A file
// that cannot be decoded, or whose records are missing required fields,
// fails with ErrCorruptStore.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, bool, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, err
	}
	defer f.Close()

	var in fileSnapshot
	if err := json.NewDecoder(f).Decode(&in); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("%w: %v", domain.ErrCorruptStore, err)
	}

	snap := domain.Snapshot{
		Accounts:     make([]domain.AccountRecord, 0, len(in.Accounts)),
		Transactions: make([]domain.TransactionRecord, 0, len(in.Transactions)),
	}
	for i, a := range in.Accounts {
		if a.Name == "" || a.Balance == "" {
			return domain.Snapshot{}, false, fmt.Errorf("%w: account %d is missing name or balance", domain.ErrCorruptStore, i)
		}
		snap.Accounts = append(snap.Accounts, domain.AccountRecord{Name: a.Name, Balance: a.Balance})
	}
	for i, t := range in.Transactions {
		rec, err := decodeTransaction(t)
		if err != nil {
			return domain.Snapshot{}, false, fmt.Errorf("%w: transaction %d: %v", domain.ErrCorruptStore, i, err)
		}
		snap.Transactions = append(snap.Transactions, rec)
	}
	return snap, true, nil
}

func decodeTransaction(t fileTransaction) (domain.TransactionRecord, error) {
	kind := domain.TransactionKind(t.Type)
	if !kind.Valid() {
		return domain.TransactionRecord{}, fmt.Errorf("unknown type %q", t.Type)
	}
	if t.From == "" {
		return domain.TransactionRecord{}, errors.New("missing from account")
	}
	ts, err := time.ParseInLocation(timeLayout, t.Timestamp, time.Local)
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("bad timestamp %q", t.Timestamp)
	}
	amount, err := domain.ParseMoney(t.Amount)
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("bad amount %q", t.Amount)
	}

	// Files written before records carried IDs get a fresh one.
	id := uuid.New()
	if t.ID != "" {
		if id, err = uuid.Parse(t.ID); err != nil {
			return domain.TransactionRecord{}, fmt.Errorf("bad id %q", t.ID)
		}
	}

	rec := domain.TransactionRecord{
		ID:        id,
		Timestamp: ts,
		Kind:      kind,
		Amount:    amount,
		From:      t.From,
	}
	if t.To != nil {
		rec.To = *t.To
	}
	return rec, nil
}

var _ domain.LedgerStore = (*Store)(nil)
