package domain

import "fmt"

// Account is a named account with a non-negative Money balance.
// The balance changes only through Deposit and Withdraw, and both leave it
// untouched on failure, so an invalid state is never observable.
type Account struct {
	name    string
	balance Money
}

// NewAccount creates an account. The display name is stored as given (lookup
// normalization is the ledger's concern). The initial balance goes through
// ParseMoney, so it must parse and round like any other amount; a negative
// initial balance is rejected with ErrNegativeBalance.
func NewAccount(name, initialBalance string) (*Account, error) {
	balance, err := ParseMoney(initialBalance)
	if err != nil {
		return nil, err
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: %s", ErrNegativeBalance, balance)
	}
	return &Account{name: name, balance: balance}, nil
}

// Name returns the display name the account was created with.
func (a *Account) Name() string {
	return a.name
}

// Balance returns the current balance.
func (a *Account) Balance() Money {
	return a.balance
}

// Deposit adds a strictly positive amount to the balance.
func (a *Account) Deposit(amount Money) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	a.balance = a.balance.Add(amount)
	return nil
}

// Withdraw subtracts a strictly positive amount that does not exceed the
// current balance. The check and the mutation form one step: nothing changes
// unless both validations pass.
func (a *Account) Withdraw(amount Money) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if amount.Cmp(a.balance) > 0 {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	return nil
}
