//go:generate mockgen -source=profile.go -destination=mocks/ports-mocks.go -package=mocks ProfilePort

package ports

import (
	"context"

	"rishta/internal/favorite/models"
)

// ProfilePort resolves the display summary of a profile. Implementations
// return a NotFound domain error when the profile does not exist.
type ProfilePort interface {
	Summary(ctx context.Context, profileID int64) (models.Summary, error)
}
