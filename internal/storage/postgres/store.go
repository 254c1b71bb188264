package postgres

import (
	"context"
	"database/sql"

	"github.com/mhdfaisal7/account-ledger-system/internal/interfaces"
	"github.com/mhdfaisal7/account-ledger-system/internal/models"
)

// Store is a Postgres-backed AccountRepository. The caller owns the *sql.DB
// (and registers the driver, e.g. lib/pq).
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the accounts table if it does not exist yet.
func (p *Store) Migrate(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		credential_hash TEXT NOT NULL,
		balance NUMERIC(20,4) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`

	_, err := p.db.ExecContext(ctx, query)
	return err
}

const upsertQuery = `INSERT INTO accounts (id, username, credential_hash, balance, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (username) DO UPDATE
	SET credential_hash = EXCLUDED.credential_hash,
	    balance = EXCLUDED.balance,
	    updated_at = EXCLUDED.updated_at`

func (p *Store) Get(ctx context.Context, username string) (*models.Account, error) {
	const query = `SELECT id, username, credential_hash, balance, created_at, updated_at
	FROM accounts WHERE username = $1`

	var acct models.Account
	err := p.db.QueryRowContext(ctx, query, username).Scan(
		&acct.ID,
		&acct.Username,
		&acct.CredentialHash,
		&acct.Balance,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (p *Store) Put(ctx context.Context, account *models.Account) error {
	_, err := p.db.ExecContext(ctx, upsertQuery,
		account.ID, account.Username, account.CredentialHash,
		account.Balance, account.CreatedAt, account.UpdatedAt)
	return err
}

// PutAll writes every record inside a single database transaction.
func (p *Store) PutAll(ctx context.Context, accounts ...*models.Account) error {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	for _, acct := range accounts {
		_, err = dbTx.ExecContext(ctx, upsertQuery,
			acct.ID, acct.Username, acct.CredentialHash,
			acct.Balance, acct.CreatedAt, acct.UpdatedAt)
		if err != nil {
			return err
		}
	}
	err = dbTx.Commit()
	return err
}

func (p *Store) Exists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT 1 FROM accounts WHERE username = $1 LIMIT 1`

	var exists int
	err := p.db.QueryRowContext(ctx, query, username).Scan(&exists)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var _ interfaces.AccountRepository = (*Store)(nil)
