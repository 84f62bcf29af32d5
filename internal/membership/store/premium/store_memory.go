package premium

import (
	"context"
	"slices"
	"sync"

	"rishta/internal/membership/models"
	"rishta/pkg/platform/sentinel"
)

// InMemory holds the premium showcase roster.
type InMemory struct {
	mu      sync.RWMutex
	members []*models.PremiumMember
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Create(_ context.Context, m *models.PremiumMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.ContainsFunc(s.members, func(existing *models.PremiumMember) bool {
		return existing.Identity == m.Identity
	}) {
		return sentinel.ErrAlreadyUsed
	}
	c := *m
	s.members = append(s.members, &c)
	return nil
}

// ListAll returns the roster in insertion order.
func (s *InMemory) ListAll(_ context.Context) ([]*models.PremiumMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.PremiumMember, 0, len(s.members))
	for _, m := range s.members {
		c := *m
		out = append(out, &c)
	}
	return out, nil
}
