package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"rishta/internal/profile/metrics"
	"rishta/internal/profile/models"
	"rishta/internal/profile/store"
	"rishta/internal/sequence"
	"rishta/pkg/attrs"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/email"
	"rishta/pkg/pagination"
	"rishta/pkg/platform/audit"
	"rishta/pkg/platform/sentinel"
	"rishta/pkg/requestcontext"
)

// defaultIDAttempts bounds how often registration draws a fresh profile id
// after colliding with an already stored one.
const defaultIDAttempts = 5

type Store interface {
	Create(ctx context.Context, p *models.Profile) error
	FindByProfileID(ctx context.Context, profileID int64) (*models.Profile, error)
	FindByOwner(ctx context.Context, owner string) (*models.Profile, error)
	MaxProfileID(ctx context.Context) (int64, error)
	List(ctx context.Context, filter models.Filter, offset, limit int) ([]*models.Profile, error)
	Count(ctx context.Context, filter models.Filter) (int64, error)
	Execute(ctx context.Context, profileID int64, validate func(*models.Profile) error, mutate func(*models.Profile)) (*models.Profile, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the profile registry: it allocates profile ids and owns the
// biodata lifecycle.
type Service struct {
	profiles       Store
	ids            sequence.Allocator
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	idAttempts     int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithIDAttempts overrides how many profile ids registration may draw.
func WithIDAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.idAttempts = n
		}
	}
}

func New(profiles Store, ids sequence.Allocator, opts ...Option) *Service {
	s := &Service{profiles: profiles, ids: ids, idAttempts: defaultIDAttempts}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncSequence raises the id counter to the highest stored profile id so
// profiles written before the counter existed are never collided with.
func (s *Service) SyncSequence(ctx context.Context) error {
	maxID, err := s.profiles.MaxProfileID(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read highest profile id")
	}
	if err := s.ids.Floor(ctx, sequence.ProfileIDs, maxID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to floor profile id sequence")
	}
	return nil
}

// Register creates the caller's biodata and assigns the next profile id.
// The unique index on owner is the authority on duplicates; the lookup
// beforehand only avoids burning an id on an obvious repeat.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.Profile, error) {
	start := time.Now()
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.profiles.FindByOwner(ctx, req.Email); err == nil {
		return nil, dErrors.New(dErrors.CodeAlreadyExists, "biodata already exists for this email")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing biodata")
	}

	now := requestcontext.Now(ctx)
	for attempt := 1; attempt <= s.idAttempts; attempt++ {
		profileID, err := s.ids.Next(ctx, sequence.ProfileIDs)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate profile id")
		}

		p, err := models.NewProfile(profileID, req.Email, req.Attributes, now)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build profile")
		}

		err = s.profiles.Create(ctx, p)
		switch {
		case err == nil:
			s.logAudit(ctx, string(audit.EventProfileRegistered),
				"identity", p.OwnerIdentity,
				"profile_id", p.ProfileID,
			)
			if s.metrics != nil {
				s.metrics.IncrementRegistered()
				s.metrics.ObserveRegister(start)
			}
			return p, nil
		case errors.Is(err, store.ErrOwnerTaken):
			return nil, dErrors.New(dErrors.CodeAlreadyExists, "biodata already exists for this email")
		case errors.Is(err, store.ErrProfileIDTaken):
			if s.logger != nil {
				s.logger.WarnContext(ctx, "profile id already taken, drawing another",
					"profile_id", profileID,
					"attempt", attempt,
				)
			}
			if s.metrics != nil {
				s.metrics.IncrementIDRetry()
			}
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store biodata")
		}
	}
	return nil, dErrors.New(dErrors.CodeInternal, "failed to allocate a free profile id")
}

// UpdateAttributes merges patch into the owner's biodata. A patch that
// changes nothing fails with NoChange.
func (s *Service) UpdateAttributes(ctx context.Context, owner string, patch models.AttributesPatch) (*models.Profile, error) {
	owner = email.Normalize(owner)
	if owner == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	current, err := s.profiles.FindByOwner(ctx, owner)
	if err != nil {
		return nil, wrapProfileErr(err, "failed to load biodata")
	}

	now := requestcontext.Now(ctx)
	updated, err := s.profiles.Execute(ctx, current.ProfileID,
		func(p *models.Profile) error {
			if !patch.Changes(p.Attributes) {
				return dErrors.New(dErrors.CodeNoChange, "no changes detected")
			}
			return nil
		},
		func(p *models.Profile) {
			p.ApplyPatch(patch, now)
		},
	)
	if err != nil {
		return nil, wrapProfileErr(err, "failed to update biodata")
	}

	s.logAudit(ctx, string(audit.EventProfileUpdated),
		"identity", owner,
		"profile_id", updated.ProfileID,
	)
	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, profileID int64) (*models.Profile, error) {
	if profileID <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "profile id must be a positive integer")
	}
	p, err := s.profiles.FindByProfileID(ctx, profileID)
	if err != nil {
		return nil, wrapProfileErr(err, "failed to load biodata")
	}
	return p, nil
}

func (s *Service) GetByOwner(ctx context.Context, owner string) (*models.Profile, error) {
	owner = email.Normalize(owner)
	if owner == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	p, err := s.profiles.FindByOwner(ctx, owner)
	if err != nil {
		return nil, wrapProfileErr(err, "failed to load biodata")
	}
	return p, nil
}

// GetPublic returns the profile without private contact details.
func (s *Service) GetPublic(ctx context.Context, profileID int64) (*models.PublicView, error) {
	p, err := s.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	view := p.Public()
	return &view, nil
}

// RequestPremium records the owner's request to have profileID featured.
func (s *Service) RequestPremium(ctx context.Context, owner string, profileID int64) (*models.Profile, error) {
	owner = email.Normalize(owner)
	if profileID <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "profile id is required")
	}

	now := requestcontext.Now(ctx)
	p, err := s.profiles.Execute(ctx, profileID,
		func(p *models.Profile) error {
			if p.OwnerIdentity != owner {
				return dErrors.New(dErrors.CodeForbidden, "biodata belongs to another account")
			}
			if err := p.CanRequestPremium(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "biodata is already premium")
			}
			return nil
		},
		func(p *models.Profile) {
			p.ApplyPremiumRequest(now)
		},
	)
	if err != nil {
		return nil, wrapProfileErr(err, "failed to request premium")
	}

	s.logAudit(ctx, string(audit.EventPremiumRequested),
		"identity", owner,
		"profile_id", p.ProfileID,
	)
	if s.metrics != nil {
		s.metrics.IncrementPremiumRequested()
	}
	return p, nil
}

// ApprovePremium marks the profile premium and clears any pending request.
// Approving an already premium profile succeeds without changes.
func (s *Service) ApprovePremium(ctx context.Context, profileID int64) (*models.Profile, error) {
	if profileID <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "profile id is required")
	}

	now := requestcontext.Now(ctx)
	p, err := s.profiles.Execute(ctx, profileID,
		func(*models.Profile) error { return nil },
		func(p *models.Profile) {
			p.ApplyPremiumApproval(now)
		},
	)
	if err != nil {
		return nil, wrapProfileErr(err, "failed to approve premium")
	}

	s.logAudit(ctx, string(audit.EventProfilePremiumApproved),
		"identity", p.OwnerIdentity,
		"profile_id", p.ProfileID,
		"actor", requestcontext.Identity(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementPremiumApproved()
	}
	return p, nil
}

// List returns one page of public profiles; the page and the total are read
// concurrently.
func (s *Service) List(ctx context.Context, filter models.Filter, params pagination.Params) (*pagination.Page[models.PublicView], error) {
	start := time.Now()
	if filter.BiodataType != "" && !filter.BiodataType.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "biodataType must be Male or Female")
	}

	var (
		profiles []*models.Profile
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profiles, err = s.profiles.List(gctx, filter, params.Offset(), params.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.profiles.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list biodatas")
	}

	views := make([]models.PublicView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, p.Public())
	}
	if s.metrics != nil {
		s.metrics.ObserveList(start)
	}
	page := pagination.NewPage(views, total, params)
	return &page, nil
}

func wrapProfileErr(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "biodata not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "biodata was modified concurrently, retry")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Subject:    attrs.ExtractString(attributes, "identity"),
		Action:     event,
		ResourceID: attrs.ExtractValue(attributes, "profile_id"),
		ActorID:    attrs.ExtractString(attributes, "actor"),
		RequestID:  attrs.ExtractString(attributes, "request_id"),
	})
}

// ParseProfileID parses a path segment into a profile id.
func ParseProfileID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "profile id must be a positive integer")
	}
	return id, nil
}
