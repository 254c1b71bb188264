package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the persisted record for a single named account.
// CredentialHash holds a bcrypt hash, never the plaintext secret.
type Account struct {
	ID             uuid.UUID
	Username       string
	CredentialHash string
	Balance        decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clone returns a copy so callers cannot reach shared state through the pointer.
func (a *Account) Clone() *Account {
	cp := *a
	return &cp
}
