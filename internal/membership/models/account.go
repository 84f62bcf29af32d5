package models

import (
	"time"

	dErrors "rishta/pkg/domain-errors"
)

// Role is the account's authorization tag.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleMember || r == RoleAdmin
}

// State is the membership state derived from role and premium flags.
type State string

const (
	StateMember           State = "member"
	StatePremiumRequested State = "premium-requested"
	StatePremium          State = "premium"
	StateAdmin            State = "admin"
)

// Account is the sign-in record for an identity.
//
// Invariants:
//   - Identity is unique and normalized (lowercase email)
//   - IsPremium implies !PremiumRequested; both flags change in one mutation
//   - Role only moves member -> admin
type Account struct {
	Identity         string    `json:"email"`
	DisplayName      string    `json:"name"`
	PhotoURL         string    `json:"photo_url,omitempty"`
	Role             Role      `json:"role"`
	IsPremium        bool      `json:"is_premium"`
	PremiumRequested bool      `json:"premium_requested"`
	LinkedProfileID  int64     `json:"linked_profile_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Version          int64     `json:"-"`
}

func NewAccount(identity, name, photoURL string, now time.Time) (*Account, error) {
	if identity == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "account identity is required")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "account name is required")
	}
	return &Account{
		Identity:    identity,
		DisplayName: name,
		PhotoURL:    photoURL,
		Role:        RoleMember,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// State reports the account's position in the membership state machine.
// Admin dominates the premium flags.
func (a *Account) State() State {
	switch {
	case a.IsAdmin():
		return StateAdmin
	case a.IsPremium:
		return StatePremium
	case a.PremiumRequested:
		return StatePremiumRequested
	default:
		return StateMember
	}
}

// CanRequestPremium checks the member -> premium-requested transition.
func (a *Account) CanRequestPremium() error {
	if a.IsPremium {
		return dErrors.New(dErrors.CodeInvariantViolation, "account is already premium")
	}
	return nil
}

// ApplyPremiumRequest records the request and the profile it concerns.
func (a *Account) ApplyPremiumRequest(profileID int64, now time.Time) {
	a.PremiumRequested = true
	a.LinkedProfileID = profileID
	a.UpdatedAt = now
}

// CanApprovePremium checks the premium-requested -> premium transition.
// An account that is already premium passes so approval stays idempotent.
func (a *Account) CanApprovePremium() error {
	if a.IsPremium {
		return nil
	}
	if !a.PremiumRequested {
		return dErrors.New(dErrors.CodeInvariantViolation, "account has no pending premium request")
	}
	return nil
}

// ApplyPremiumApproval sets the premium flag and clears the request together.
func (a *Account) ApplyPremiumApproval(now time.Time) {
	if a.IsPremium && !a.PremiumRequested {
		return
	}
	a.IsPremium = true
	a.PremiumRequested = false
	a.UpdatedAt = now
}

// ApplyAdminGrant elevates the account. Granting twice is harmless.
func (a *Account) ApplyAdminGrant(now time.Time) {
	if a.IsAdmin() {
		return
	}
	a.Role = RoleAdmin
	a.UpdatedAt = now
}

// CanRename rejects renames that change nothing.
func (a *Account) CanRename(name string) error {
	if a.DisplayName == name {
		return dErrors.New(dErrors.CodeInvariantViolation, "name is unchanged")
	}
	return nil
}

func (a *Account) ApplyRename(name string, now time.Time) {
	a.DisplayName = name
	a.UpdatedAt = now
}

func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Filter narrows account listings. NameContains matches case-insensitively.
type Filter struct {
	NameContains     string
	Role             Role
	PremiumRequested bool
}
