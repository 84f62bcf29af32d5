package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose so sinks
// can apply different retention.
type EventCategory string

const (
	// CategoryCompliance covers changes to personal data and membership state.
	CategoryCompliance EventCategory = "compliance"
	// CategorySecurity covers privilege changes and abuse signals.
	CategorySecurity EventCategory = "security"
	// CategoryOperations covers routine activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	// Subject is the identity (email) the action concerns.
	Subject string `json:"subject"`
	Action  string `json:"action"`
	// ResourceID names the affected record (profile id, request id, ...).
	ResourceID string `json:"resource_id,omitempty"`
	// ActorID is set when someone other than Subject performed the action,
	// e.g. an administrator approving a request.
	ActorID   string `json:"actor_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

type AuditEvent string

const (
	// Membership events
	EventAccountCreated   AuditEvent = "account_created"
	EventAccountRenamed   AuditEvent = "account_renamed"
	EventAdminGranted     AuditEvent = "admin_granted"
	EventPremiumRequested AuditEvent = "premium_requested"
	EventPremiumApproved  AuditEvent = "premium_approved"

	// Profile events
	EventProfileRegistered      AuditEvent = "profile_registered"
	EventProfileUpdated         AuditEvent = "profile_updated"
	EventProfilePremiumApproved AuditEvent = "profile_premium_approved"

	// Contact events
	EventContactRequested AuditEvent = "contact_requested"
	EventContactApproved  AuditEvent = "contact_approved"
	EventContactDeleted   AuditEvent = "contact_deleted"

	// Favorite events
	EventFavoriteAdded   AuditEvent = "favorite_added"
	EventFavoriteRemoved AuditEvent = "favorite_removed"

	// Story and payment events
	EventStoryPublished       AuditEvent = "story_published"
	EventPaymentIntentCreated AuditEvent = "payment_intent_created"

	// Abuse events
	EventRateLimitExceeded AuditEvent = "rate_limit_exceeded"
	EventAccessDenied      AuditEvent = "access_denied"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventAccountCreated:         CategoryCompliance,
	EventAccountRenamed:         CategoryCompliance,
	EventProfileRegistered:      CategoryCompliance,
	EventProfileUpdated:         CategoryCompliance,
	EventContactRequested:       CategoryCompliance,
	EventContactApproved:        CategoryCompliance,
	EventContactDeleted:         CategoryCompliance,
	EventPremiumApproved:        CategoryCompliance,
	EventProfilePremiumApproved: CategoryCompliance,

	EventAdminGranted:      CategorySecurity,
	EventRateLimitExceeded: CategorySecurity,
	EventAccessDenied:      CategorySecurity,

	EventPremiumRequested:     CategoryOperations,
	EventFavoriteAdded:        CategoryOperations,
	EventFavoriteRemoved:      CategoryOperations,
	EventStoryPublished:       CategoryOperations,
	EventPaymentIntentCreated: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
