package blog

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu    sync.RWMutex
	blogs map[uuid.UUID]*Blog
}

// NewMemoryStore returns an in-memory Store for tests and local development.
func NewMemoryStore() Store {
	return &memoryStore{blogs: make(map[uuid.UUID]*Blog)}
}

func (s *memoryStore) Create(_ context.Context, b *Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *b
	s.blogs[b.ID] = &cp
	return nil
}

func (s *memoryStore) Get(_ context.Context, id uuid.UUID) (*Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blogs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memoryStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Blog
	for _, b := range s.blogs {
		if b.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
