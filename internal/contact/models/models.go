package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/email"
)

// Status of a contact request. The only transition is pending -> approved.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

// RequesterSnapshot is the requester's contact details as submitted. It is a
// copy; later account edits reach it only through RenameRequester.
type RequesterSnapshot struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile,omitempty"`
}

// ContactRequest asks to see a profile's private contact details.
//
// Invariants:
//   - at most one request per (TargetProfileID, RequesterIdentity)
//   - PaymentReference is recorded as given; payment is captured beforehand
//   - Status only moves pending -> approved
type ContactRequest struct {
	ID                uuid.UUID         `json:"id"`
	TargetProfileID   int64             `json:"target_profile_id"`
	RequesterIdentity string            `json:"requester_email"`
	Requester         RequesterSnapshot `json:"requester"`
	PaymentReference  string            `json:"transaction_id"`
	Status            Status            `json:"status"`
	RequestedAt       time.Time         `json:"requested_at"`
	ApprovedAt        *time.Time        `json:"approved_at,omitempty"`
	Version           int64             `json:"-"`
}

func (c *ContactRequest) IsApproved() bool {
	return c.Status == StatusApproved
}

// ApplyApproval moves a pending request to approved; approved requests are
// left as they are.
func (c *ContactRequest) ApplyApproval(now time.Time) {
	if c.IsApproved() {
		return
	}
	c.Status = StatusApproved
	c.ApprovedAt = &now
}

func (c *ContactRequest) Clone() *ContactRequest {
	if c == nil {
		return nil
	}
	out := *c
	if c.ApprovedAt != nil {
		t := *c.ApprovedAt
		out.ApprovedAt = &t
	}
	return &out
}

// SubmitRequest is the body of POST /contact-requests.
type SubmitRequest struct {
	TargetProfileID   int64  `json:"target_profile_id"`
	RequesterIdentity string `json:"requester_email"`
	RequesterName     string `json:"requester_name"`
	RequesterMobile   string `json:"requester_mobile"`
	PaymentReference  string `json:"transaction_id"`
}

func (r *SubmitRequest) Normalize() {
	r.RequesterIdentity = email.Normalize(r.RequesterIdentity)
	r.RequesterName = strings.TrimSpace(r.RequesterName)
	r.RequesterMobile = strings.TrimSpace(r.RequesterMobile)
	r.PaymentReference = strings.TrimSpace(r.PaymentReference)
}

func (r *SubmitRequest) Validate() error {
	switch {
	case r.TargetProfileID <= 0:
		return dErrors.New(dErrors.CodeBadRequest, "target_profile_id is required")
	case r.RequesterIdentity == "":
		return dErrors.New(dErrors.CodeBadRequest, "requester_email is required")
	case r.RequesterName == "":
		return dErrors.New(dErrors.CodeBadRequest, "requester_name is required")
	case r.PaymentReference == "":
		return dErrors.New(dErrors.CodeBadRequest, "transaction_id is required")
	}
	return nil
}

// RenameRequest is the body of PATCH /update-contact-request-name/{email}.
type RenameRequest struct {
	Name string `json:"name"`
}
