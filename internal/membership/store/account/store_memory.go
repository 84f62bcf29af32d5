package account

import (
	"context"
	"slices"
	"strings"
	"sync"

	"rishta/internal/membership/models"
	"rishta/pkg/platform/sentinel"
)

// InMemory stores accounts keyed by identity.
type InMemory struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
}

func NewInMemory() *InMemory {
	return &InMemory{accounts: make(map[string]*models.Account)}
}

func (s *InMemory) Create(_ context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.Identity]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.accounts[a.Identity] = a.Clone()
	return nil
}

func (s *InMemory) FindByIdentity(_ context.Context, identity string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[identity]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return a.Clone(), nil
}

// List returns matching accounts ordered by creation time. A non-positive
// limit returns everything after offset.
func (s *InMemory) List(_ context.Context, filter models.Filter, offset, limit int) ([]*models.Account, error) {
	matched := s.matching(filter)
	if offset >= len(matched) {
		return []*models.Account{}, nil
	}
	end := len(matched)
	if limit > 0 {
		end = min(offset+limit, end)
	}
	return matched[offset:end], nil
}

func (s *InMemory) Count(_ context.Context, filter models.Filter) (int64, error) {
	return int64(len(s.matching(filter))), nil
}

func (s *InMemory) matching(f models.Filter) []*models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(f.NameContains)
	out := make([]*models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if needle != "" && !strings.Contains(strings.ToLower(a.DisplayName), needle) {
			continue
		}
		if f.Role != "" && a.Role != f.Role {
			continue
		}
		if f.PremiumRequested && !a.PremiumRequested {
			continue
		}
		out = append(out, a.Clone())
	}
	slices.SortFunc(out, func(a, b *models.Account) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Identity, b.Identity)
	})
	return out
}

// Execute runs validate and mutate under the write lock.
func (s *InMemory) Execute(_ context.Context, identity string, validate func(*models.Account) error, mutate func(*models.Account)) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.accounts[identity]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := current.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	working.Version++
	s.accounts[identity] = working
	return working.Clone(), nil
}
