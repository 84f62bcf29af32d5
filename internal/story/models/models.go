package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "rishta/pkg/domain-errors"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Story is a published marriage testimonial. Stories are immutable.
type Story struct {
	ID               uuid.UUID `json:"id"`
	SelfProfileID    int64     `json:"self_profile_id"`
	PartnerProfileID int64     `json:"partner_profile_id"`
	Title            string    `json:"title"`
	CoupleImage      string    `json:"couple_image"`
	Story            string    `json:"story"`
	Rating           int       `json:"rating"`
	MarriageDate     string    `json:"marriage_date"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateRequest is the body of POST /success-story. Every field is required.
type CreateRequest struct {
	SelfProfileID    int64  `json:"self_profile_id"`
	PartnerProfileID int64  `json:"partner_profile_id"`
	Title            string `json:"title"`
	CoupleImage      string `json:"couple_image"`
	Story            string `json:"story"`
	Rating           int    `json:"rating"`
	MarriageDate     string `json:"marriage_date"`
}

func (r *CreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.CoupleImage = strings.TrimSpace(r.CoupleImage)
	r.Story = strings.TrimSpace(r.Story)
	r.MarriageDate = strings.TrimSpace(r.MarriageDate)
}

func (r *CreateRequest) Validate() error {
	if r.SelfProfileID <= 0 || r.PartnerProfileID <= 0 ||
		r.Title == "" || r.CoupleImage == "" || r.Story == "" || r.MarriageDate == "" {
		return dErrors.New(dErrors.CodeBadRequest, "All fields are required.")
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return dErrors.New(dErrors.CodeBadRequest, "rating must be between 1 and 5")
	}
	if r.SelfProfileID == r.PartnerProfileID {
		return dErrors.New(dErrors.CodeBadRequest, "partner biodata must differ from own biodata")
	}
	return nil
}

type CreateResponse struct {
	Success    bool      `json:"success"`
	InsertedID uuid.UUID `json:"insertedId"`
}
