package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pcosta/bankledger/internal/domain"
)

// MockLedgerStore is a mock implementation of domain.LedgerStore for testing
type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) Save(ctx context.Context, snap domain.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockLedgerStore) Load(ctx context.Context) (domain.Snapshot, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Snapshot), args.Bool(1), args.Error(2)
}

// capturingPublisher records every published event
type capturingPublisher struct {
	topics []string
	events []domain.TransactionRecorded
}

func (p *capturingPublisher) Publish(topic string, event any) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event.(domain.TransactionRecorded))
	return nil
}

func open(t *testing.T, s *Service, name, initial string) {
	t.Helper()
	_, err := s.Open(name, initial)
	require.NoError(t, err)
}

func balance(t *testing.T, s *Service, name string) string {
	t.Helper()
	account, err := s.GetAccount(name)
	require.NoError(t, err)
	return account.Balance().String()
}

func TestService_OpenAndGet(t *testing.T) {
	s := NewService(nil)
	open(t, s, "Alice", "100")

	// lookup normalizes the same way add does
	account, err := s.GetAccount("  ALICE ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", account.Name())
	assert.Equal(t, "100.00", account.Balance().String())

	_, err = s.GetAccount("bob")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestService_DuplicateNormalizedNames(t *testing.T) {
	s := NewService(nil)
	open(t, s, "Alice", "10")

	_, err := s.Open("  alice ", "20")
	assert.ErrorIs(t, err, domain.ErrDuplicateAccount)

	// the original account and its balance are untouched
	assert.Equal(t, "10.00", balance(t, s, "Alice"))
	assert.Len(t, s.Accounts(), 1)
}

func TestService_Deposit(t *testing.T) {
	s := NewService(nil)
	open(t, s, "Bob", "100")

	require.NoError(t, s.Deposit("bob", "50,50"))
	assert.Equal(t, "150.50", balance(t, s, "Bob"))

	records := s.Transactions()
	require.Len(t, records, 1)
	assert.Equal(t, domain.KindDeposit, records[0].Kind)
	assert.Equal(t, "50.50", records[0].Amount.String())
	assert.Equal(t, "Bob", records[0].From) // stored name, not the lookup form
	assert.Empty(t, records[0].To)
	assert.False(t, records[0].Timestamp.IsZero())
}

func TestService_DepositFailuresLogNothing(t *testing.T) {
	s := NewService(nil)
	open(t, s, "Bob", "100")

	assert.ErrorIs(t, s.Deposit("Bob", "abc"), domain.ErrInvalidAmount)
	assert.ErrorIs(t, s.Deposit("Bob", "0"), domain.ErrNonPositiveAmount)
	assert.ErrorIs(t, s.Deposit("Bob", "-5"), domain.ErrNonPositiveAmount)
	assert.ErrorIs(t, s.Deposit("Nobody", "5"), domain.ErrAccountNotFound)

	assert.Equal(t, "100.00", balance(t, s, "Bob"))
	assert.Empty(t, s.Transactions())
}

func TestService_Withdraw(t *testing.T) {
	s := NewService(nil)
	open(t, s, "Bob", "100")

	require.NoError(t, s.Withdraw("Bob", "30"))
	assert.Equal(t, "70.00", balance(t, s, "Bob"))

	assert.ErrorIs(t, s.Withdraw("Bob", "70.01"), domain.ErrInsufficientFunds)
	assert.Equal(t, "70.00", balance(t, s, "Bob"))

	records := s.Transactions()
	require.Len(t, records, 1)
	assert.Equal(t, domain.KindWithdraw, records[0].Kind)
}

func TestService_Transfer(t *testing.T) {
	s := NewService(nil)
	open(t, s, "Bob", "50")
	open(t, s, "Ann", "0")

	require.NoError(t, s.Transfer("bob", "ann", "30"))

	assert.Equal(t, "20.00", balance(t, s, "Bob"))
	assert.Equal(t, "30.00", balance(t, s, "Ann"))

	records := s.Transactions()
	require.Len(t, records, 1)
	assert.Equal(t, domain.KindTransfer, records[0].Kind)
	assert.Equal(t, "30.00", records[0].Amount.String())
	assert.Equal(t, "Bob", records[0].From)
	assert.Equal(t, "Ann", records[0].To)
}

func TestService_TransferAtomicity(t *testing.T) {
	tests := []struct {
		name    string
		to      string
		amount  string
		wantErr error
	}{
		{name: "missing destination", to: "Nobody", amount: "30", wantErr: domain.ErrAccountNotFound},
		{name: "invalid amount", to: "Ann", amount: "abc", wantErr: domain.ErrInvalidAmount},
		{name: "zero amount", to: "Ann", amount: "0", wantErr: domain.ErrNonPositiveAmount},
		{name: "negative amount", to: "Ann", amount: "-10", wantErr: domain.ErrNonPositiveAmount},
		{name: "insufficient funds", to: "Ann", amount: "50.01", wantErr: domain.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(nil)
			open(t, s, "Bob", "50")
			open(t, s, "Ann", "0")

			err := s.Transfer("Bob", tt.to, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)

			// neither leg applied, nothing logged
			assert.Equal(t, "50.00", balance(t, s, "Bob"))
			assert.Equal(t, "0.00", balance(t, s, "Ann"))
			assert.Empty(t, s.Transactions())
		})
	}
}

func TestService_AccountsSnapshot(t *testing.T) {
	s := NewService(nil)
	open(t, s, "Bob", "1")
	open(t, s, "Ann", "2")
	open(t, s, "Cid", "3")

	accounts := s.Accounts()
	require.Len(t, accounts, 3)

	// insertion order is preserved
	names := []string{accounts[0].Name(), accounts[1].Name(), accounts[2].Name()}
	assert.Equal(t, []string{"Bob", "Ann", "Cid"}, names)

	// returned accounts are copies: mutating one must not touch the ledger
	require.NoError(t, accounts[0].Deposit(mustMoney(t, "100")))
	assert.Equal(t, "1.00", balance(t, s, "Bob"))
}

func TestService_EndToEndScenario(t *testing.T) {
	s := NewService(nil)
	open(t, s, "Bob", "100.00")

	require.NoError(t, s.Deposit("Bob", "50"))
	require.NoError(t, s.Withdraw("Bob", "30"))
	open(t, s, "Ann", "0.00")
	require.NoError(t, s.Transfer("Bob", "Ann", "20"))

	assert.Equal(t, "100.00", balance(t, s, "Bob"))
	assert.Equal(t, "20.00", balance(t, s, "Ann"))

	records := s.Transactions()
	require.Len(t, records, 3)
	assert.Equal(t, domain.KindDeposit, records[0].Kind)
	assert.Equal(t, domain.KindWithdraw, records[1].Kind)
	assert.Equal(t, domain.KindTransfer, records[2].Kind)
}

func TestService_SnapshotRestoreRoundTrip(t *testing.T) {
	s := NewService(nil)
	open(t, s, "Bob", "100")
	open(t, s, "Ann", "0")
	require.NoError(t, s.Deposit("Bob", "50"))
	require.NoError(t, s.Transfer("Bob", "Ann", "25"))

	restored := NewService(nil)
	require.NoError(t, restored.Restore(s.Snapshot()))

	want := s.Accounts()
	got := restored.Accounts()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name(), got[i].Name())
		assert.Equal(t, want[i].Balance().String(), got[i].Balance().String())
	}
	assert.Equal(t, s.Transactions(), restored.Transactions())
}

func TestService_RestoreRejectsBadSnapshots(t *testing.T) {
	s := NewService(nil)
	open(t, s, "Keep", "1")

	dup := domain.Snapshot{Accounts: []domain.AccountRecord{
		{Name: "Alice", Balance: "10.00"},
		{Name: " alice", Balance: "20.00"},
	}}
	assert.ErrorIs(t, s.Restore(dup), domain.ErrDuplicateAccount)

	bad := domain.Snapshot{Accounts: []domain.AccountRecord{
		{Name: "Alice", Balance: "not money"},
	}}
	assert.ErrorIs(t, s.Restore(bad), domain.ErrInvalidAmount)

	// a failed restore leaves the previous state in place
	assert.Equal(t, "1.00", balance(t, s, "Keep"))
}

func TestService_LoadFrom(t *testing.T) {
	ctx := context.Background()

	t.Run("missing store leaves ledger empty", func(t *testing.T) {
		store := new(MockLedgerStore)
		store.On("Load", ctx).Return(domain.Snapshot{}, false, nil)

		s := NewService(nil)
		require.NoError(t, s.LoadFrom(ctx, store))
		assert.Empty(t, s.Accounts())
		store.AssertExpectations(t)
	})

	t.Run("snapshot is restored", func(t *testing.T) {
		snap := domain.Snapshot{Accounts: []domain.AccountRecord{{Name: "Bob", Balance: "42.00"}}}
		store := new(MockLedgerStore)
		store.On("Load", ctx).Return(snap, true, nil)

		s := NewService(nil)
		require.NoError(t, s.LoadFrom(ctx, store))
		assert.Equal(t, "42.00", balance(t, s, "Bob"))
		store.AssertExpectations(t)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		storeErr := errors.New("disk on fire")
		store := new(MockLedgerStore)
		store.On("Load", ctx).Return(domain.Snapshot{}, false, storeErr)

		s := NewService(nil)
		assert.ErrorIs(t, s.LoadFrom(ctx, store), storeErr)
	})
}

func TestService_SaveTo(t *testing.T) {
	ctx := context.Background()
	s := NewService(nil)
	open(t, s, "Bob", "10")

	store := new(MockLedgerStore)
	store.On("Save", ctx, mock.MatchedBy(func(snap domain.Snapshot) bool {
		return len(snap.Accounts) == 1 &&
			snap.Accounts[0].Name == "Bob" &&
			snap.Accounts[0].Balance == "10.00"
	})).Return(nil)

	require.NoError(t, s.SaveTo(ctx, store))
	store.AssertExpectations(t)
}

func TestService_PublishesTransactionEvents(t *testing.T) {
	pub := &capturingPublisher{}
	s := NewService(pub)
	open(t, s, "Bob", "100")
	open(t, s, "Ann", "0")

	require.NoError(t, s.Deposit("Bob", "5"))
	require.NoError(t, s.Transfer("Bob", "Ann", "2"))

	require.Len(t, pub.events, 2)
	assert.Equal(t, []string{EventTopic, EventTopic}, pub.topics)

	assert.Equal(t, "deposit", pub.events[0].Kind)
	assert.Equal(t, "5.00", pub.events[0].Amount)
	assert.Equal(t, "Bob", pub.events[0].From)
	assert.Empty(t, pub.events[0].To)

	assert.Equal(t, "transfer", pub.events[1].Kind)
	assert.Equal(t, "Ann", pub.events[1].To)
	assert.NotEmpty(t, pub.events[1].TransactionID)
}

func mustMoney(t *testing.T, s string) domain.Money {
	t.Helper()
	m, err := domain.ParseMoney(s)
	require.NoError(t, err)
	return m
}
