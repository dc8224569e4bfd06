package affiliate

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu          sync.RWMutex
	affiliates  map[uuid.UUID]*Affiliate
	codes       map[string]uuid.UUID
	conversions map[string]*Conversion
}

// NewMemoryStore returns an in-memory Store for tests and local development.
func NewMemoryStore() Store {
	return &memoryStore{
		affiliates:  make(map[uuid.UUID]*Affiliate),
		codes:       make(map[string]uuid.UUID),
		conversions: make(map[string]*Conversion),
	}
}

func (s *memoryStore) Get(_ context.Context, id uuid.UUID) (*Affiliate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	aff, ok := s.affiliates[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *aff
	return &cp, nil
}

func (s *memoryStore) ByReferralCode(_ context.Context, code string) (*Affiliate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.codes[code]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.affiliates[id]
	return &cp, nil
}

func (s *memoryStore) Create(_ context.Context, aff *Affiliate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.codes[aff.ReferralCode]; taken {
		return ErrCodeTaken
	}
	cp := *aff
	s.affiliates[aff.ID] = &cp
	s.codes[aff.ReferralCode] = aff.ID
	return nil
}

func (s *memoryStore) RecordClick(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.codes[code]; ok {
		s.affiliates[id].TotalClicks++
	}
	return nil
}

func (s *memoryStore) CreateConversion(_ context.Context, conv *Conversion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.conversions[conv.EventID]; exists {
		return ErrDuplicateConversion
	}
	aff, ok := s.affiliates[conv.AffiliateID]
	if !ok {
		return ErrNotFound
	}
	cp := *conv
	s.conversions[conv.EventID] = &cp
	aff.TotalConversions++
	aff.TotalEarnings += conv.Commission
	return nil
}

func (s *memoryStore) Conversions(_ context.Context, affiliateID uuid.UUID) ([]Conversion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Conversion
	for _, conv := range s.conversions {
		if conv.AffiliateID == affiliateID {
			out = append(out, *conv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
