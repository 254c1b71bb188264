package memory

import (
	"context"
	"sync"

	"github.com/mhdfaisal7/account-ledger-system/internal/interfaces"
	"github.com/mhdfaisal7/account-ledger-system/internal/models"
)

// Store is an in-memory AccountRepository keyed by username. A single mutex
// covers every access, so PutAll is atomic with respect to readers: nobody
// observes a debited sender without the credited receiver.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
}

// NewStore returns an empty in-memory repository.
func NewStore() *Store {
	return &Store{accounts: make(map[string]*models.Account)}
}

// Get returns a copy of the stored record, or (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, username string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[username]
	if !ok {
		return nil, nil
	}
	return acct.Clone(), nil
}

// Put upserts a single record. The stored value is a copy, so later caller
// mutations do not leak into the store.
func (s *Store) Put(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[account.Username] = account.Clone()
	return nil
}

// PutAll upserts every record under one lock hold.
func (s *Store) PutAll(ctx context.Context, accounts ...*models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range accounts {
		s.accounts[acct.Username] = acct.Clone()
	}
	return nil
}

// Exists reports whether a record with that username is stored.
func (s *Store) Exists(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.accounts[username]
	return ok, nil
}

var _ interfaces.AccountRepository = (*Store)(nil)
