package interfaces

import (
	"context"

	"github.com/mhdfaisal7/account-ledger-system/internal/models"
)

// AccountRepository is the narrow persistence contract the ledger depends on.
// Get returns (nil, nil) when no account with that username exists; a non-nil
// error always means the storage backend itself failed. PutAll commits every
// record or none, so a transfer never leaves one side updated.
type AccountRepository interface {
	Get(ctx context.Context, username string) (*models.Account, error)
	Put(ctx context.Context, account *models.Account) error
	PutAll(ctx context.Context, accounts ...*models.Account) error
	Exists(ctx context.Context, username string) (bool, error)
}
