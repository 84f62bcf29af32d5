package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"rishta/internal/profile/models"
	"rishta/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded profile store for tests and the memory driver.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[int64]*models.Profile
	byOwner map[string]int64
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[int64]*models.Profile),
		byOwner: make(map[string]int64),
	}
}

func (s *InMemory) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byOwner[p.OwnerIdentity]; ok {
		return ErrOwnerTaken
	}
	if _, ok := s.byID[p.ProfileID]; ok {
		return ErrProfileIDTaken
	}
	s.byID[p.ProfileID] = p.Clone()
	s.byOwner[p.OwnerIdentity] = p.ProfileID
	return nil
}

func (s *InMemory) FindByProfileID(_ context.Context, profileID int64) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[profileID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *InMemory) FindByOwner(_ context.Context, owner string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byOwner[owner]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.byID[id].Clone(), nil
}

func (s *InMemory) MaxProfileID(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var maxID int64
	for id := range s.byID {
		maxID = max(maxID, id)
	}
	return maxID, nil
}

// List returns matching profiles ordered by profile id.
func (s *InMemory) List(_ context.Context, filter models.Filter, offset, limit int) ([]*models.Profile, error) {
	matched := s.matching(filter)
	if offset >= len(matched) {
		return []*models.Profile{}, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], nil
}

func (s *InMemory) Count(_ context.Context, filter models.Filter) (int64, error) {
	return int64(len(s.matching(filter))), nil
}

func (s *InMemory) matching(filter models.Filter) []*models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Profile, 0, len(s.byID))
	for _, p := range s.byID {
		if matches(p, filter) {
			out = append(out, p.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *models.Profile) int {
		return cmp.Compare(a.ProfileID, b.ProfileID)
	})
	return out
}

func matches(p *models.Profile, f models.Filter) bool {
	if f.BiodataType != "" && p.Attributes.BiodataType != f.BiodataType {
		return false
	}
	if f.PresentDivision != "" && p.Attributes.PresentDivision != f.PresentDivision {
		return false
	}
	if f.PremiumOnly && !p.PremiumApproved {
		return false
	}
	return true
}

// Execute runs validate and mutate under the write lock. Nothing is stored
// when validate fails.
func (s *InMemory) Execute(_ context.Context, profileID int64, validate func(*models.Profile) error, mutate func(*models.Profile)) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[profileID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := current.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	working.Version++
	s.byID[profileID] = working
	return working.Clone(), nil
}
