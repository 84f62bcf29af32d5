//go:generate mockgen -source=profile.go -destination=mocks/ports-mocks.go -package=mocks ProfileOwnerPort

package ports

import "context"

// ProfileOwnerPort reports which identity registered a profile.
// Implementations return a NotFound domain error for unknown ids.
type ProfileOwnerPort interface {
	OwnerOf(ctx context.Context, profileID int64) (string, error)
}
