package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountCreated is emitted after a new account has been committed.
type AccountCreated struct {
	AccountID  string    `json:"account_id"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TransactionCompleted is emitted after a balance mutation has been committed.
// FromAccount is empty for deposits, ToAccount is empty for withdrawals.
type TransactionCompleted struct {
	Kind        string          `json:"kind"` // "deposit", "withdrawal" or "transfer"
	FromAccount string          `json:"from_account,omitempty"`
	ToAccount   string          `json:"to_account,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
