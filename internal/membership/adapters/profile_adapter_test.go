package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	profileModels "rishta/internal/profile/models"
	profileService "rishta/internal/profile/service"
	profileStore "rishta/internal/profile/store"
	"rishta/internal/sequence"
	dErrors "rishta/pkg/domain-errors"
)

func TestProfileAdapterOwnerOf(t *testing.T) {
	ctx := context.Background()
	profiles := profileService.New(profileStore.NewInMemory(), sequence.NewMemory())
	p, err := profiles.Register(ctx, &profileModels.RegisterRequest{
		Email: "Alice@Example.com",
		Attributes: profileModels.Attributes{
			BiodataType:     profileModels.BiodataFemale,
			Name:            "Alice",
			PresentDivision: "Dhaka",
			MobileNumber:    "+8801711111111",
		},
	})
	require.NoError(t, err)

	adapter := NewProfileAdapter(profiles)
	owner, err := adapter.OwnerOf(ctx, p.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", owner)

	_, err = adapter.OwnerOf(ctx, 42)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
