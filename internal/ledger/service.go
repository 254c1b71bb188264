// Package ledger owns every balance mutation and the authentication check.
package ledger

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mhdfaisal7/account-ledger-system/internal/credentials"
	"github.com/mhdfaisal7/account-ledger-system/internal/interfaces"
	"github.com/mhdfaisal7/account-ledger-system/internal/models"
	"github.com/mhdfaisal7/account-ledger-system/internal/models/events"
)

// Topics used when an EventPublisher is configured.
const (
	TopicAccounts     = "account_created"
	TopicTransactions = "transaction_completed"
)

// AccountHandle identifies an authenticated account without exposing the
// stored record.
type AccountHandle struct {
	ID       uuid.UUID
	Username string
}

// Service implements the account ledger on top of an AccountRepository.
// Mutations are serialized per account: each username owns a mutex, and a
// transfer takes both mutexes in username order so two opposing transfers
// cannot deadlock. Locks are held only across the check+mutate critical
// section; credential hashing and event publishing happen outside, so lock
// hold time is bounded by repository I/O alone.
type Service struct {
	repo  interfaces.AccountRepository
	creds *credentials.Store
	pub   interfaces.EventPublisher // optional, nil disables publishing
	log   *logrus.Logger

	muMap map[string]*sync.Mutex // one lock per username
	mapMu sync.Mutex             // protects muMap itself
}

// NewService wires the ledger to its collaborators. pub and log may be nil.
func NewService(repo interfaces.AccountRepository, creds *credentials.Store, pub interfaces.EventPublisher, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Service{
		repo:  repo,
		creds: creds,
		pub:   pub,
		log:   log,
		muMap: make(map[string]*sync.Mutex),
	}
}

func (s *Service) accountLock(username string) *sync.Mutex {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	if _, exists := s.muMap[username]; !exists {
		s.muMap[username] = &sync.Mutex{}
	}
	return s.muMap[username]
}

// publish sends an event if a publisher is configured. A broker failure is
// logged, never propagated: the mutation has already committed. Callers must
// not hold any account lock here; a slow broker must not stall mutations.
func (s *Service) publish(topic string, event any) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(topic, event); err != nil {
		s.log.WithError(err).WithField("topic", topic).Warn("event publish failed")
	}
}

// CreateAccount registers a new account with a zero balance.
func (s *Service) CreateAccount(ctx context.Context, username, secret string) error {
	if username == "" || secret == "" {
		return ErrInvalidInput
	}

	// bcrypt is deliberately slow, so hash before taking the lock.
	hash, err := s.creds.Hash(secret)
	if err != nil {
		return fmt.Errorf("hashing secret: %w", err)
	}

	acct, err := s.createLocked(ctx, username, hash)
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"username": username, "account_id": acct.ID}).Info("account created")
	s.publish(TopicAccounts, events.AccountCreated{
		AccountID:  acct.ID.String(),
		Username:   username,
		OccurredAt: acct.CreatedAt,
	})
	return nil
}

func (s *Service) createLocked(ctx context.Context, username, hash string) (*models.Account, error) {
	mu := s.accountLock(username)
	mu.Lock()
	defer mu.Unlock()

	exists, err := s.repo.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if exists {
		return nil, ErrDuplicateUsername
	}

	now := time.Now().UTC()
	acct := &models.Account{
		ID:             uuid.New(),
		Username:       username,
		CredentialHash: hash,
		Balance:        decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, acct); err != nil {
		return nil, fmt.Errorf("storing account: %w", err)
	}
	return acct, nil
}

// Authenticate checks a username/secret pair and returns an opaque handle on
// success. Unknown usernames and wrong secrets fail the same way, so callers
// cannot probe which usernames exist.
func (s *Service) Authenticate(ctx context.Context, username, secret string) (*AccountHandle, error) {
	if username == "" || secret == "" {
		return nil, ErrInvalidCredentials
	}

	acct, err := s.repo.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}
	if acct == nil {
		// Burn an equivalent verification so a missing username costs the
		// same time as a wrong secret.
		s.creds.VerifyDummy(secret)
		return nil, ErrInvalidCredentials
	}
	if !s.creds.Verify(secret, acct.CredentialHash) {
		return nil, ErrInvalidCredentials
	}
	return &AccountHandle{ID: acct.ID, Username: acct.Username}, nil
}

// GetBalance returns the current balance. Pure read, no side effect.
func (s *Service) GetBalance(ctx context.Context, username string) (decimal.Decimal, error) {
	acct, err := s.repo.Get(ctx, username)
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading account: %w", err)
	}
	if acct == nil {
		return decimal.Zero, ErrNotFound
	}
	return acct.Balance, nil
}

// Deposit credits amount to the account and returns the new balance.
func (s *Service) Deposit(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}

	acct, err := s.depositLocked(ctx, username, amount)
	if err != nil {
		return decimal.Zero, err
	}

	s.log.WithFields(logrus.Fields{"username": username, "amount": amount, "balance": acct.Balance}).Debug("deposit committed")
	s.publish(TopicTransactions, events.TransactionCompleted{
		Kind:       "deposit",
		ToAccount:  username,
		Amount:     amount,
		OccurredAt: acct.UpdatedAt,
	})
	return acct.Balance, nil
}

func (s *Service) depositLocked(ctx context.Context, username string, amount decimal.Decimal) (*models.Account, error) {
	mu := s.accountLock(username)
	mu.Lock()
	defer mu.Unlock()

	acct, err := s.repo.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}
	if acct == nil {
		return nil, ErrNotFound
	}

	acct.Balance = acct.Balance.Add(amount)
	acct.UpdatedAt = time.Now().UTC()
	if err := s.repo.Put(ctx, acct); err != nil {
		return nil, fmt.Errorf("storing balance: %w", err)
	}
	return acct, nil
}

// Withdraw debits amount from the account and returns the new balance. The
// balance check runs against the record read under the account lock, so two
// concurrent withdrawals cannot both pass it on a stale value.
func (s *Service) Withdraw(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}

	acct, err := s.withdrawLocked(ctx, username, amount)
	if err != nil {
		return decimal.Zero, err
	}

	s.log.WithFields(logrus.Fields{"username": username, "amount": amount, "balance": acct.Balance}).Debug("withdrawal committed")
	s.publish(TopicTransactions, events.TransactionCompleted{
		Kind:        "withdrawal",
		FromAccount: username,
		Amount:      amount,
		OccurredAt:  acct.UpdatedAt,
	})
	return acct.Balance, nil
}

func (s *Service) withdrawLocked(ctx context.Context, username string, amount decimal.Decimal) (*models.Account, error) {
	mu := s.accountLock(username)
	mu.Lock()
	defer mu.Unlock()

	acct, err := s.repo.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}
	if acct == nil {
		return nil, ErrNotFound
	}
	if acct.Balance.Cmp(amount) < 0 {
		return nil, ErrInsufficientFunds
	}

	acct.Balance = acct.Balance.Sub(amount)
	acct.UpdatedAt = time.Now().UTC()
	if err := s.repo.Put(ctx, acct); err != nil {
		return nil, fmt.Errorf("storing balance: %w", err)
	}
	return acct, nil
}

// Transfer moves amount from one account to another as a single atomic unit
// and returns both new balances. Self-transfers are rejected.
func (s *Service) Transfer(ctx context.Context, fromUsername, toUsername string, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return decimal.Zero, decimal.Zero, ErrInvalidAmount
	}
	if fromUsername == toUsername {
		return decimal.Zero, decimal.Zero, ErrSameAccount
	}

	sender, receiver, err := s.transferLocked(ctx, fromUsername, toUsername, amount)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	s.log.WithFields(logrus.Fields{
		"from":   fromUsername,
		"to":     toUsername,
		"amount": amount,
	}).Info("transfer committed")
	s.publish(TopicTransactions, events.TransactionCompleted{
		Kind:        "transfer",
		FromAccount: fromUsername,
		ToAccount:   toUsername,
		Amount:      amount,
		OccurredAt:  sender.UpdatedAt,
	})
	return sender.Balance, receiver.Balance, nil
}

func (s *Service) transferLocked(ctx context.Context, fromUsername, toUsername string, amount decimal.Decimal) (*models.Account, *models.Account, error) {
	debitMu := s.accountLock(fromUsername)
	creditMu := s.accountLock(toUsername)

	// Lock in username order to avoid deadlock with a reverse transfer.
	if fromUsername < toUsername {
		debitMu.Lock()
		creditMu.Lock()
	} else {
		creditMu.Lock()
		debitMu.Lock()
	}
	defer debitMu.Unlock()
	defer creditMu.Unlock()

	sender, err := s.repo.Get(ctx, fromUsername)
	if err != nil {
		return nil, nil, fmt.Errorf("loading sender: %w", err)
	}
	receiver, err := s.repo.Get(ctx, toUsername)
	if err != nil {
		return nil, nil, fmt.Errorf("loading receiver: %w", err)
	}
	if sender == nil || receiver == nil {
		return nil, nil, ErrNotFound
	}
	if sender.Balance.Cmp(amount) < 0 {
		return nil, nil, ErrInsufficientFunds
	}

	now := time.Now().UTC()
	sender.Balance = sender.Balance.Sub(amount)
	receiver.Balance = receiver.Balance.Add(amount)
	sender.UpdatedAt = now
	receiver.UpdatedAt = now

	// Both records commit together or not at all.
	if err := s.repo.PutAll(ctx, sender, receiver); err != nil {
		return nil, nil, fmt.Errorf("committing transfer: %w", err)
	}
	return sender, receiver, nil
}
