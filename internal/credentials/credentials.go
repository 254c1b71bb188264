// Package credentials hashes and verifies account secrets.
package credentials

import "golang.org/x/crypto/bcrypt"

// Store produces and checks bcrypt hashes of account secrets. Each hash
// carries its own random salt, so equal secrets still yield distinct hashes.
type Store struct {
	cost      int
	dummyHash string
}

// NewStore returns a Store with the default bcrypt cost.
func NewStore() *Store {
	return newStore(bcrypt.DefaultCost)
}

// NewStoreWithCost returns a Store with an explicit bcrypt cost. Costs
// outside the supported range fall back to the default. Tests use MinCost
// to keep hashing cheap.
func NewStoreWithCost(cost int) *Store {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return newStore(cost)
}

func newStore(cost int) *Store {
	// GenerateFromPassword cannot fail for an in-range cost.
	b, _ := bcrypt.GenerateFromPassword([]byte("throwaway-credential"), cost)
	return &Store{cost: cost, dummyHash: string(b)}
}

// Hash derives a one-way hash of the secret.
func (s *Store) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether secret matches hash. The comparison inside bcrypt
// is constant time, so it does not leak how close a guess was.
func (s *Store) Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// VerifyDummy runs a verification against a throwaway hash of the same cost.
// Callers use it on their account-not-found path so that path takes as long
// as a failed Verify and cannot be told apart by timing.
func (s *Store) VerifyDummy(secret string) {
	_ = bcrypt.CompareHashAndPassword([]byte(s.dummyHash), []byte(secret))
}
