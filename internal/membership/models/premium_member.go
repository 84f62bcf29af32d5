package models

import (
	"time"

	"github.com/google/uuid"
)

// PremiumMember is an entry in the public premium showcase.
type PremiumMember struct {
	ID           uuid.UUID `json:"id"`
	Identity     string    `json:"email"`
	Name         string    `json:"name"`
	ProfileID    int64     `json:"profile_id,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	AddedAt      time.Time `json:"added_at"`
}
