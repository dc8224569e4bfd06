package account

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/blogsmith/pkg/plans"
)

type memoryStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*Account
}

// NewMemoryStore returns an in-memory Store for tests and local development.
// It implements the same conditional-increment semantics as the mongo store.
func NewMemoryStore() Store {
	return &memoryStore{accounts: make(map[uuid.UUID]*Account)}
}

func (s *memoryStore) Get(_ context.Context, id uuid.UUID) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (s *memoryStore) GetBySubscription(_ context.Context, subscriptionID string) (*Account, error) {
	if subscriptionID == "" {
		return nil, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *Account
	for _, acc := range s.accounts {
		if acc.SubscriptionID != subscriptionID {
			continue
		}
		if found != nil {
			return nil, ErrAmbiguousSubscription
		}
		found = acc
	}
	if found == nil {
		return nil, ErrNotFound
	}
	cp := *found
	return &cp, nil
}

func (s *memoryStore) Create(_ context.Context, acc *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[acc.ID]; exists {
		return ErrAlreadyExists
	}
	cp := *acc
	s.accounts[acc.ID] = &cp
	return nil
}

func (s *memoryStore) Update(_ context.Context, id uuid.UUID, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	if patch.PlanKey != nil {
		acc.PlanKey = *patch.PlanKey
	}
	if patch.CustomerID != nil {
		acc.CustomerID = *patch.CustomerID
	}
	if patch.SubscriptionID != nil {
		acc.SubscriptionID = *patch.SubscriptionID
	}
	if patch.Status != nil {
		acc.Status = *patch.Status
	}
	if patch.PaymentFailed != nil {
		acc.PaymentFailed = *patch.PaymentFailed
	}
	if patch.TeamMembers != nil {
		acc.TeamMembers = *patch.TeamMembers
	}
	acc.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memoryStore) IncrementUsage(_ context.Context, id uuid.UUID, blogs, words int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	acc.BlogsUsed += blogs
	acc.WordsUsed += words
	acc.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memoryStore) IncrementUsageWithin(_ context.Context, id uuid.UUID, words, blogLimit, wordLimit int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	if blogLimit != plans.Unlimited && acc.BlogsUsed >= blogLimit {
		return ErrUsageLimitReached
	}
	if wordLimit != plans.Unlimited && acc.WordsUsed+words > wordLimit {
		return ErrUsageLimitReached
	}
	acc.BlogsUsed++
	acc.WordsUsed += words
	acc.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memoryStore) ResetUsage(_ context.Context, id uuid.UUID, cycleEnd time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	acc.BlogsUsed = 0
	acc.WordsUsed = 0
	acc.BillingCycleEnd = cycleEnd.UTC()
	acc.PaymentFailed = false
	acc.UpdatedAt = time.Now().UTC()
	return nil
}
