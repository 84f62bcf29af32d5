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

func TestProfileAdapterSummary(t *testing.T) {
	ctx := context.Background()
	profiles := profileService.New(profileStore.NewInMemory(), sequence.NewMemory())
	p, err := profiles.Register(ctx, &profileModels.RegisterRequest{
		Email: "alice@example.com",
		Attributes: profileModels.Attributes{
			BiodataType:     profileModels.BiodataFemale,
			Name:            "Alice",
			PresentDivision: "Dhaka",
			Occupation:      "Engineer",
			MobileNumber:    "+8801711111111",
		},
	})
	require.NoError(t, err)

	adapter := NewProfileAdapter(profiles)
	summary, err := adapter.Summary(ctx, p.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", summary.Name)
	assert.Equal(t, "Dhaka", summary.PresentDivision)
	assert.Equal(t, "Engineer", summary.Occupation)

	_, err = adapter.Summary(ctx, 42)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
