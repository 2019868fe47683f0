package domain

import "errors"

// Domain errors. Every failure in the core is one of these sentinels, matched
// with errors.Is; callers at the edge (the CLI menu) turn them into messages.
var (
	// ErrInvalidAmount means the input could not be interpreted as a money value.
	ErrInvalidAmount = errors.New("invalid money amount")

	// ErrNonPositiveAmount means an operation amount parsed but is <= 0.
	ErrNonPositiveAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds means a withdrawal would drive the balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound means a lookup by name matched no account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateAccount means an added name normalizes to an existing key.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrNegativeBalance means an account was opened with a negative balance.
	ErrNegativeBalance = errors.New("initial balance cannot be negative")

	// ErrCorruptStore means persisted state is missing required fields or
	// carries values that fail validation on load.
	ErrCorruptStore = errors.New("corrupt ledger store")
)
