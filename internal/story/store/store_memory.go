package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"rishta/internal/story/models"
	"rishta/pkg/platform/sentinel"
)

type InMemory struct {
	mu      sync.RWMutex
	stories map[uuid.UUID]models.Story
}

func NewInMemory() *InMemory {
	return &InMemory{stories: make(map[uuid.UUID]models.Story)}
}

func (s *InMemory) Create(_ context.Context, st *models.Story) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stories[st.ID] = *st
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stories[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &st, nil
}

// ListNewestFirst returns every story ordered by CreatedAt descending.
func (s *InMemory) ListNewestFirst(_ context.Context) ([]*models.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Story, 0, len(s.stories))
	for _, st := range s.stories {
		out = append(out, &st)
	}
	slices.SortFunc(out, func(a, b *models.Story) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}
