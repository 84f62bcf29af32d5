package adapters

import (
	"context"

	"rishta/internal/favorite/models"
	"rishta/internal/favorite/ports"
	profileService "rishta/internal/profile/service"
)

// ProfileAdapter implements ports.ProfilePort by calling the profile service
// in process.
type ProfileAdapter struct {
	profiles *profileService.Service
}

func NewProfileAdapter(profiles *profileService.Service) ports.ProfilePort {
	return &ProfileAdapter{profiles: profiles}
}

func (a *ProfileAdapter) Summary(ctx context.Context, profileID int64) (models.Summary, error) {
	p, err := a.profiles.GetByID(ctx, profileID)
	if err != nil {
		return models.Summary{}, err
	}
	s := p.Summary()
	return models.Summary{
		Name:            s.Name,
		PresentDivision: s.PresentDivision,
		Occupation:      s.Occupation,
	}, nil
}
