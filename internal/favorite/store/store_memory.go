package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"rishta/internal/favorite/models"
	"rishta/pkg/platform/sentinel"
)

type ownerTarget struct {
	owner  string
	target int64
}

// InMemory keeps favorites with an (owner, target) uniqueness index.
type InMemory struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*models.Entry
	index   map[ownerTarget]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		entries: make(map[uuid.UUID]*models.Entry),
		index:   make(map[ownerTarget]uuid.UUID),
	}
}

func (s *InMemory) Create(_ context.Context, e *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ownerTarget{owner: e.OwnerIdentity, target: e.TargetProfileID}
	if _, ok := s.index[key]; ok {
		return sentinel.ErrAlreadyUsed
	}
	cp := *e
	s.entries[e.ID] = &cp
	s.index[key] = e.ID
	return nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	delete(s.index, ownerTarget{owner: e.OwnerIdentity, target: e.TargetProfileID})
	delete(s.entries, id)
	return e, nil
}

func (s *InMemory) ListByOwner(_ context.Context, owner string) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Entry, 0)
	for _, e := range s.entries {
		if e.OwnerIdentity == owner {
			cp := *e
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *models.Entry) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}
