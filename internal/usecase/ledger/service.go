package ledger

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/pcosta/bankledger/internal/domain"
)

// EventTopic is the topic transaction events are published on.
const EventTopic = "ledger.transactions"

// Service is the ledger aggregate. It exclusively owns every account, keyed
// by normalized name, and the append-only transaction history. One exclusive
// lock is held for the full duration of each operation, so every call is
// atomic from the caller's perspective: fully applied or fully rejected.
type Service struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	order    []string // normalized keys in insertion order
	history  []domain.TransactionRecord
	events   domain.EventPublisher
}

// NewService creates an empty ledger. events may be nil, in which case no
// transaction events are emitted.
func NewService(events domain.EventPublisher) *Service {
	return &Service{
		accounts: make(map[string]*domain.Account),
		events:   events,
	}
}

// normalizeName computes the lookup key for an account name: trimmed of
// surrounding whitespace and case-folded. "Alice" and "  alice " collide.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AddAccount inserts an account. Fails with ErrDuplicateAccount when another
// account normalizes to the same key; balances are never merged.
func (s *Service) AddAccount(account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(account)
}

func (s *Service) addLocked(account *domain.Account) error {
	key := normalizeName(account.Name())
	if _, exists := s.accounts[key]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateAccount, account.Name())
	}
	s.accounts[key] = account
	s.order = append(s.order, key)
	return nil
}

// Open is a convenience that constructs an account and adds it in one step,
// the way the interactive menu opens accounts. It returns a snapshot of the
// new account.
func (s *Service) Open(name, initialBalance string) (*domain.Account, error) {
	account, err := domain.NewAccount(name, initialBalance)
	if err != nil {
		return nil, err
	}
	if err := s.AddAccount(account); err != nil {
		return nil, err
	}
	cp := *account
	return &cp, nil
}

// GetAccount resolves an account by name, using the same normalization as
// AddAccount. It returns a copy so callers cannot mutate ledger state.
func (s *Service) GetAccount(name string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, err := s.getLocked(name)
	if err != nil {
		return nil, err
	}
	cp := *account
	return &cp, nil
}

func (s *Service) getLocked(name string) (*domain.Account, error) {
	account, ok := s.accounts[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrAccountNotFound, name)
	}
	return account, nil
}

// Deposit adds amount to the named account and appends a deposit record.
// The record is appended only after the mutation succeeds.
func (s *Service) Deposit(name, amount string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.getLocked(name)
	if err != nil {
		return err
	}
	m, err := domain.ParseMoney(amount)
	if err != nil {
		return err
	}
	if err := account.Deposit(m); err != nil {
		return err
	}
	s.logLocked(domain.KindDeposit, m, account.Name(), "")
	return nil
}

// Withdraw subtracts amount from the named account and appends a withdraw
// record once the mutation has succeeded.
func (s *Service) Withdraw(name, amount string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.getLocked(name)
	if err != nil {
		return err
	}
	m, err := domain.ParseMoney(amount)
	if err != nil {
		return err
	}
	if err := account.Withdraw(m); err != nil {
		return err
	}
	s.logLocked(domain.KindWithdraw, m, account.Name(), "")
	return nil
}

// Transfer moves amount from one account to another as a single atomic step.
// Both accounts are resolved (source first) and the amount is validated
// exactly once before either account is touched; after that, the withdrawal
// can only fail on insufficient funds, which mutates nothing, and the deposit
// of an already-validated positive amount cannot fail. Money therefore never
// leaves the source without arriving at the destination. One transfer record
// is appended on success.
func (s *Service) Transfer(fromName, toName, amount string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.getLocked(fromName)
	if err != nil {
		return err
	}
	dst, err := s.getLocked(toName)
	if err != nil {
		return err
	}

	m, err := domain.ParseMoney(amount)
	if err != nil {
		return err
	}
	if !m.IsPositive() {
		return domain.ErrNonPositiveAmount
	}

	if err := src.Withdraw(m); err != nil {
		return err
	}
	if err := dst.Deposit(m); err != nil {
		// unreachable: m was validated positive above
		return err
	}
	s.logLocked(domain.KindTransfer, m, src.Name(), dst.Name())
	return nil
}

// Accounts returns a snapshot of current membership in insertion order.
// The returned accounts are copies.
func (s *Service) Accounts() []*domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Account, 0, len(s.order))
	for _, key := range s.order {
		cp := *s.accounts[key]
		out = append(out, &cp)
	}
	return out
}

// Transactions returns the full history in append order. The slice is an
// independent copy; the underlying log is never mutated.
func (s *Service) Transactions() []domain.TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.TransactionRecord, len(s.history))
	copy(out, s.history)
	return out
}

// Snapshot exports the full ledger state in the persistence boundary's
// record form: accounts in insertion order with balances rendered as exact
// decimal strings, plus the transaction history.
func (s *Service) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.Snapshot{
		Accounts:     make([]domain.AccountRecord, 0, len(s.order)),
		Transactions: make([]domain.TransactionRecord, len(s.history)),
	}
	for _, key := range s.order {
		account := s.accounts[key]
		snap.Accounts = append(snap.Accounts, domain.AccountRecord{
			Name:    account.Name(),
			Balance: account.Balance().String(),
		})
	}
	copy(snap.Transactions, s.history)
	return snap
}

// Restore replaces the ledger state with a snapshot. Each account goes
// through the same validated construction path as AddAccount, so duplicate
// stored names surface ErrDuplicateAccount and unparsable balances surface
// ErrInvalidAmount. The transaction history is taken verbatim; historical
// records are not re-validated. On any error the ledger is left unchanged.
func (s *Service) Restore(snap domain.Snapshot) error {
	accounts := make(map[string]*domain.Account, len(snap.Accounts))
	order := make([]string, 0, len(snap.Accounts))
	for _, rec := range snap.Accounts {
		account, err := domain.NewAccount(rec.Name, rec.Balance)
		if err != nil {
			return err
		}
		key := normalizeName(account.Name())
		if _, exists := accounts[key]; exists {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateAccount, account.Name())
		}
		accounts[key] = account
		order = append(order, key)
	}

	history := make([]domain.TransactionRecord, len(snap.Transactions))
	copy(history, snap.Transactions)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
	s.order = order
	s.history = history
	return nil
}

// LoadFrom reconstructs the ledger from a store. When the store has no
// snapshot yet the ledger keeps its freshly-initialized empty state; that is
// not an error.
func (s *Service) LoadFrom(ctx context.Context, store domain.LedgerStore) error {
	snap, found, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	return s.Restore(snap)
}

// SaveTo persists the full current state to a store.
func (s *Service) SaveTo(ctx context.Context, store domain.LedgerStore) error {
	return store.Save(ctx, s.Snapshot())
}

// logLocked appends a record and publishes the matching event. Publishing is
// best-effort: a broker failure is logged, never propagated.
func (s *Service) logLocked(kind domain.TransactionKind, amount domain.Money, from, to string) {
	rec := domain.NewTransactionRecord(kind, amount, from, to)
	s.history = append(s.history, rec)

	if s.events == nil {
		return
	}
	evt := domain.TransactionRecorded{
		TransactionID: rec.ID.String(),
		Kind:          string(rec.Kind),
		Amount:        rec.Amount.String(),
		From:          rec.From,
		To:            rec.To,
		OccurredAt:    rec.Timestamp,
	}
	if err := s.events.Publish(EventTopic, evt); err != nil {
		log.Printf("ledger: publish transaction event: %v", err)
	}
}
