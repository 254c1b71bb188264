package ledger

import (
	"errors"
	"fmt"
)

// Every expected failure of a ledger operation maps to one of these sentinel
// errors; callers match them with errors.Is. Anything else coming out of an
// operation is a repository failure wrapping the underlying cause.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrNotFound           = errors.New("account not found")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or secret")
	ErrInsufficientFunds  = errors.New("insufficient funds")

	// ErrSameAccount wraps ErrInvalidInput: a self-transfer is a malformed
	// request, and errors.Is matches it under either sentinel.
	ErrSameAccount = fmt.Errorf("%w: sender and receiver must be different accounts", ErrInvalidInput)
)
