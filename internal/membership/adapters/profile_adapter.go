package adapters

import (
	"context"

	"rishta/internal/membership/ports"
	profileService "rishta/internal/profile/service"
)

// ProfileAdapter implements ports.ProfileOwnerPort over the in-process
// profile service.
type ProfileAdapter struct {
	profiles *profileService.Service
}

func NewProfileAdapter(profiles *profileService.Service) ports.ProfileOwnerPort {
	return &ProfileAdapter{profiles: profiles}
}

func (a *ProfileAdapter) OwnerOf(ctx context.Context, profileID int64) (string, error) {
	p, err := a.profiles.GetByID(ctx, profileID)
	if err != nil {
		return "", err
	}
	return p.OwnerIdentity, nil
}
