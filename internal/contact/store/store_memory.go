package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"rishta/internal/contact/models"
	"rishta/pkg/platform/sentinel"
)

type pairKey struct {
	target    int64
	requester string
}

// InMemory keeps contact requests with a (target, requester) uniqueness index.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*models.ContactRequest
	byPair map[pairKey]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[uuid.UUID]*models.ContactRequest),
		byPair: make(map[pairKey]uuid.UUID),
	}
}

func keyOf(c *models.ContactRequest) pairKey {
	return pairKey{target: c.TargetProfileID, requester: c.RequesterIdentity}
}

func (s *InMemory) Create(_ context.Context, c *models.ContactRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byPair[keyOf(c)]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.byID[c.ID] = c.Clone()
	s.byPair[keyOf(c)] = c.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.ContactRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *InMemory) FindByPair(_ context.Context, targetProfileID int64, requester string) (*models.ContactRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPair[pairKey{target: targetProfileID, requester: requester}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.byID[id].Clone(), nil
}

func (s *InMemory) ListByTarget(_ context.Context, targetProfileID int64) ([]*models.ContactRequest, error) {
	return s.collect(func(c *models.ContactRequest) bool { return c.TargetProfileID == targetProfileID }), nil
}

func (s *InMemory) ListByRequester(_ context.Context, requester string) ([]*models.ContactRequest, error) {
	return s.collect(func(c *models.ContactRequest) bool { return c.RequesterIdentity == requester }), nil
}

func (s *InMemory) ListAll(_ context.Context) ([]*models.ContactRequest, error) {
	return s.collect(func(*models.ContactRequest) bool { return true }), nil
}

// collect returns matches ordered by RequestedAt.
func (s *InMemory) collect(keep func(*models.ContactRequest) bool) []*models.ContactRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ContactRequest, 0)
	for _, c := range s.byID {
		if keep(c) {
			out = append(out, c.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *models.ContactRequest) int {
		return a.RequestedAt.Compare(b.RequestedAt)
	})
	return out
}

func (s *InMemory) Execute(_ context.Context, id uuid.UUID, validate func(*models.ContactRequest) error, mutate func(*models.ContactRequest)) (*models.ContactRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := current.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	working.Version++
	s.byID[id] = working
	return working.Clone(), nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byPair, keyOf(c))
	delete(s.byID, id)
	return nil
}

// UpdateRequesterName rewrites the snapshot name on every request made by
// requester and returns how many requests changed.
func (s *InMemory) UpdateRequesterName(_ context.Context, requester, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var modified int64
	for id, c := range s.byID {
		if c.RequesterIdentity != requester || c.Requester.Name == name {
			continue
		}
		updated := c.Clone()
		updated.Requester.Name = name
		updated.Version++
		s.byID[id] = updated
		modified++
	}
	return modified, nil
}
