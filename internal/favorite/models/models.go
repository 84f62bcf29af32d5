package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/email"
)

// Summary is the display snapshot stored with a favorite.
type Summary struct {
	Name            string `json:"name"`
	PresentDivision string `json:"present_division"`
	Occupation      string `json:"occupation"`
}

func (s Summary) IsZero() bool {
	return s == Summary{}
}

// Entry bookmarks a profile for an identity. (OwnerIdentity, TargetProfileID)
// is unique; entries are never updated.
type Entry struct {
	ID              uuid.UUID `json:"id"`
	OwnerIdentity   string    `json:"owner_email"`
	TargetProfileID int64     `json:"target_profile_id"`
	Summary
	CreatedAt time.Time `json:"created_at"`
}

// AddRequest is the body of POST /addfevorites.
type AddRequest struct {
	OwnerIdentity   string `json:"owner_email"`
	TargetProfileID int64  `json:"target_profile_id"`
	Summary
}

func (r *AddRequest) Normalize() {
	r.OwnerIdentity = email.Normalize(r.OwnerIdentity)
	r.Name = strings.TrimSpace(r.Name)
	r.PresentDivision = strings.TrimSpace(r.PresentDivision)
	r.Occupation = strings.TrimSpace(r.Occupation)
}

func (r *AddRequest) Validate() error {
	if r.OwnerIdentity == "" {
		return dErrors.New(dErrors.CodeBadRequest, "owner_email is required")
	}
	if r.TargetProfileID <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "target_profile_id must be a positive integer")
	}
	return nil
}
