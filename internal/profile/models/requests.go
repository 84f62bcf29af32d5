package models

import (
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/email"
)

// RegisterRequest is the body of POST /add-biodata.
type RegisterRequest struct {
	Email string `json:"email"`
	Attributes
}

func (r *RegisterRequest) Normalize() {
	r.Email = email.Normalize(r.Email)
}

func (r *RegisterRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if !email.IsValid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	return r.Attributes.Validate()
}

// RegisterResponse echoes the assigned profile id.
type RegisterResponse struct {
	Success bool     `json:"success"`
	Profile *Profile `json:"profile"`
}

// ProfileResponse wraps a single full profile.
type ProfileResponse struct {
	Success bool     `json:"success"`
	Data    *Profile `json:"data"`
}
