package models

import (
	"time"

	dErrors "rishta/pkg/domain-errors"
)

// BiodataType is the registrant's gender as listed on the biodata.
type BiodataType string

const (
	BiodataMale   BiodataType = "Male"
	BiodataFemale BiodataType = "Female"
)

func (t BiodataType) IsValid() bool {
	return t == BiodataMale || t == BiodataFemale
}

// Profile is a registrant's biodata.
//
// Invariants:
//   - exactly one Profile per OwnerIdentity
//   - ProfileID is assigned once at registration and never reused
//   - PremiumApproved implies !PremiumRequested
type Profile struct {
	ProfileID        int64      `json:"profile_id"`
	OwnerIdentity    string     `json:"owner_identity"`
	PremiumRequested bool       `json:"premium_requested"`
	PremiumApproved  bool       `json:"premium_approved"`
	Attributes       Attributes `json:"attributes"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	// Version backs optimistic concurrency in stores without row locks.
	Version int64 `json:"-"`
}

// NewProfile builds a freshly registered profile.
func NewProfile(profileID int64, owner string, attrs Attributes, now time.Time) (*Profile, error) {
	if profileID < 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "profile id must be positive")
	}
	if owner == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner identity is required")
	}
	return &Profile{
		ProfileID:     profileID,
		OwnerIdentity: owner,
		Attributes:    attrs,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// CanRequestPremium reports whether a premium request may be recorded.
func (p *Profile) CanRequestPremium() error {
	if p.PremiumApproved {
		return dErrors.New(dErrors.CodeInvariantViolation, "profile is already premium")
	}
	return nil
}

// ApplyPremiumRequest marks the profile as awaiting approval.
func (p *Profile) ApplyPremiumRequest(now time.Time) {
	p.PremiumRequested = true
	p.UpdatedAt = now
}

// ApplyPremiumApproval sets the premium flag and clears the request in the
// same mutation. Approving an already premium profile leaves it unchanged.
func (p *Profile) ApplyPremiumApproval(now time.Time) {
	if p.PremiumApproved && !p.PremiumRequested {
		return
	}
	p.PremiumApproved = true
	p.PremiumRequested = false
	p.UpdatedAt = now
}

// ApplyPatch merges patch into the attributes and reports whether anything changed.
func (p *Profile) ApplyPatch(patch AttributesPatch, now time.Time) bool {
	if !patch.Changes(p.Attributes) {
		return false
	}
	patch.MergeInto(&p.Attributes)
	p.UpdatedAt = now
	return true
}

// Clone returns a deep copy so stores never hand out shared pointers.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// PublicView is the profile as shown to other users: contact details are
// withheld until a contact request is approved.
type PublicView struct {
	ProfileID       int64            `json:"profile_id"`
	PremiumApproved bool             `json:"premium_approved"`
	Attributes      PublicAttributes `json:"attributes"`
	CreatedAt       time.Time        `json:"created_at"`
}

func (p *Profile) Public() PublicView {
	return PublicView{
		ProfileID:       p.ProfileID,
		PremiumApproved: p.PremiumApproved,
		Attributes:      p.Attributes.Public(),
		CreatedAt:       p.CreatedAt,
	}
}

// Summary is the denormalized snapshot copied into favorites.
type Summary struct {
	Name            string `json:"name"`
	PresentDivision string `json:"present_division"`
	Occupation      string `json:"occupation"`
}

func (p *Profile) Summary() Summary {
	return Summary{
		Name:            p.Attributes.Name,
		PresentDivision: p.Attributes.PresentDivision,
		Occupation:      p.Attributes.Occupation,
	}
}

// Filter narrows profile listings. Empty fields match everything.
type Filter struct {
	BiodataType     BiodataType
	PresentDivision string
	PremiumOnly     bool
}
