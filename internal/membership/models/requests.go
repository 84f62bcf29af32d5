package models

import (
	"strings"

	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/email"
)

// CreateAccountRequest is the body of POST /users.
type CreateAccountRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
}

func (r *CreateAccountRequest) Normalize() {
	r.Email = email.Normalize(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.PhotoURL = strings.TrimSpace(r.PhotoURL)
	if r.Name == "" && r.Email != "" {
		r.Name = email.DisplayName(r.Email)
	}
}

func (r *CreateAccountRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if !email.IsValid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	if len(r.Name) > 128 {
		return dErrors.New(dErrors.CodeValidation, "name must be 128 characters or less")
	}
	return nil
}

// RenameRequest is the body of PATCH /update-user-name/{email}.
type RenameRequest struct {
	Name string `json:"name"`
}

// RequestPremiumRequest is the body of PATCH /biodata/request-premium/{email}.
type RequestPremiumRequest struct {
	ProfileID int64 `json:"profile_id"`
}

// AddPremiumMemberRequest is the body of POST /all-premium-members.
type AddPremiumMemberRequest struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	ProfileID    int64  `json:"profile_id"`
	ProfileImage string `json:"profile_image"`
}

func (r *AddPremiumMemberRequest) Normalize() {
	r.Email = email.Normalize(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

func (r *AddPremiumMemberRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	if r.ProfileID < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "profile_id must not be negative")
	}
	return nil
}

// AccountResponse wraps a single account.
type AccountResponse struct {
	Success bool     `json:"success"`
	Account *Account `json:"user"`
}
