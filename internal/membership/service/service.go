package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rishta/internal/membership/metrics"
	"rishta/internal/membership/models"
	"rishta/internal/membership/ports"
	"rishta/pkg/attrs"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/email"
	"rishta/pkg/pagination"
	"rishta/pkg/platform/audit"
	"rishta/pkg/platform/sentinel"
	"rishta/pkg/requestcontext"
)

type AccountStore interface {
	Create(ctx context.Context, a *models.Account) error
	FindByIdentity(ctx context.Context, identity string) (*models.Account, error)
	List(ctx context.Context, filter models.Filter, offset, limit int) ([]*models.Account, error)
	Count(ctx context.Context, filter models.Filter) (int64, error)
	Execute(ctx context.Context, identity string, validate func(*models.Account) error, mutate func(*models.Account)) (*models.Account, error)
}

type PremiumRosterStore interface {
	Create(ctx context.Context, m *models.PremiumMember) error
	ListAll(ctx context.Context) ([]*models.PremiumMember, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the membership state machine:
// member -> premium-requested -> premium, and member|premium -> admin.
type Service struct {
	accounts       AccountStore
	roster         PremiumRosterStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	profiles       ports.ProfileOwnerPort
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

// WithProfileOwners makes RequestPremium check that the linked profile
// exists and belongs to the requester.
func WithProfileOwners(p ports.ProfileOwnerPort) Option {
	return func(s *Service) {
		s.profiles = p
	}
}

func New(accounts AccountStore, roster PremiumRosterStore, opts ...Option) *Service {
	s := &Service{accounts: accounts, roster: roster}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAccount records the first sign-in of an identity as a member.
func (s *Service) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := models.NewAccount(req.Email, req.Name, req.PhotoURL, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.accounts.Create(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "user already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.logAudit(ctx, string(audit.EventAccountCreated), "identity", a.Identity)
	if s.metrics != nil {
		s.metrics.IncrementAccountsCreated()
	}
	return a, nil
}

func (s *Service) GetByIdentity(ctx context.Context, identity string) (*models.Account, error) {
	identity = email.Normalize(identity)
	if identity == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	a, err := s.accounts.FindByIdentity(ctx, identity)
	if err != nil {
		return nil, wrapAccountErr(err, "failed to load user")
	}
	return a, nil
}

// IsAdmin reports whether identity holds the admin role. Unknown identities
// are not admins.
func (s *Service) IsAdmin(ctx context.Context, identity string) (bool, error) {
	a, err := s.accounts.FindByIdentity(ctx, email.Normalize(identity))
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve user role")
	}
	return a.IsAdmin(), nil
}

// ListByFilter returns one page of accounts; the page and the total are
// read concurrently.
func (s *Service) ListByFilter(ctx context.Context, filter models.Filter, params pagination.Params) (*pagination.Page[*models.Account], error) {
	filter.NameContains = strings.TrimSpace(filter.NameContains)
	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "role must be member or admin")
	}

	var (
		accounts []*models.Account
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accounts.List(gctx, filter, params.Offset(), params.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.accounts.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}

	page := pagination.NewPage(accounts, total, params)
	return &page, nil
}

// ListPremiumRequests returns every account awaiting premium approval.
func (s *Service) ListPremiumRequests(ctx context.Context) ([]*models.Account, error) {
	accounts, err := s.accounts.List(ctx, models.Filter{PremiumRequested: true}, 0, 0)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list premium requests")
	}
	return accounts, nil
}

// RequestPremium moves a member to premium-requested, linking profileID.
func (s *Service) RequestPremium(ctx context.Context, identity string, profileID int64) (*models.Account, error) {
	identity = email.Normalize(identity)
	if profileID <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "profile_id is required")
	}
	if err := s.checkProfileOwner(ctx, identity, profileID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	a, err := s.accounts.Execute(ctx, identity,
		func(a *models.Account) error {
			if err := a.CanRequestPremium(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "user is already premium")
			}
			return nil
		},
		func(a *models.Account) {
			a.ApplyPremiumRequest(profileID, now)
		},
	)
	if err != nil {
		return nil, wrapAccountErr(err, "failed to request premium")
	}

	s.logAudit(ctx, string(audit.EventPremiumRequested),
		"identity", identity,
		"profile_id", profileID,
	)
	if s.metrics != nil {
		s.metrics.IncrementPremiumRequested()
	}
	return a, nil
}

func (s *Service) checkProfileOwner(ctx context.Context, identity string, profileID int64) error {
	if s.profiles == nil {
		return nil
	}
	owner, err := s.profiles.OwnerOf(ctx, profileID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return dErrors.New(dErrors.CodeBadRequest, "profile_id does not reference a biodata")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve biodata owner")
	}
	if email.Normalize(owner) != identity {
		return dErrors.New(dErrors.CodeForbidden, "biodata belongs to another member")
	}
	return nil
}

// ApprovePremium moves premium-requested to premium. Both flags change in a
// single store write. An already premium account is returned unchanged.
func (s *Service) ApprovePremium(ctx context.Context, identity string) (*models.Account, error) {
	identity = email.Normalize(identity)
	if identity == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}

	now := requestcontext.Now(ctx)
	a, err := s.accounts.Execute(ctx, identity,
		func(a *models.Account) error {
			if err := a.CanApprovePremium(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "user has no pending premium request")
			}
			return nil
		},
		func(a *models.Account) {
			a.ApplyPremiumApproval(now)
		},
	)
	if err != nil {
		return nil, wrapAccountErr(err, "failed to approve premium")
	}

	s.logAudit(ctx, string(audit.EventPremiumApproved),
		"identity", identity,
		"profile_id", a.LinkedProfileID,
		"actor", requestcontext.Identity(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementPremiumApproved()
	}
	return a, nil
}

// GrantAdminRole elevates identity to admin. There is no demotion.
func (s *Service) GrantAdminRole(ctx context.Context, identity string) (*models.Account, error) {
	identity = email.Normalize(identity)
	if identity == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}

	now := requestcontext.Now(ctx)
	a, err := s.accounts.Execute(ctx, identity,
		func(*models.Account) error { return nil },
		func(a *models.Account) {
			a.ApplyAdminGrant(now)
		},
	)
	if err != nil {
		return nil, wrapAccountErr(err, "failed to grant admin role")
	}

	s.logAudit(ctx, string(audit.EventAdminGranted),
		"identity", identity,
		"actor", requestcontext.Identity(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementAdminGranted()
	}
	return a, nil
}

// Rename changes the display name; an identical name fails with NoChange.
func (s *Service) Rename(ctx context.Context, identity, name string) (*models.Account, error) {
	identity = email.Normalize(identity)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name is required")
	}

	now := requestcontext.Now(ctx)
	a, err := s.accounts.Execute(ctx, identity,
		func(a *models.Account) error {
			if err := a.CanRename(name); err != nil {
				return dErrors.New(dErrors.CodeNoChange, "no change detected")
			}
			return nil
		},
		func(a *models.Account) {
			a.ApplyRename(name, now)
		},
	)
	if err != nil {
		return nil, wrapAccountErr(err, "failed to update user name")
	}

	s.logAudit(ctx, string(audit.EventAccountRenamed), "identity", identity)
	return a, nil
}

// AddPremiumMember puts an identity on the public premium showcase.
func (s *Service) AddPremiumMember(ctx context.Context, req *models.AddPremiumMemberRequest) (*models.PremiumMember, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m := &models.PremiumMember{
		ID:           uuid.New(),
		Identity:     req.Email,
		Name:         req.Name,
		ProfileID:    req.ProfileID,
		ProfileImage: req.ProfileImage,
		AddedAt:      requestcontext.Now(ctx),
	}
	if err := s.roster.Create(ctx, m); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "already a premium member")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add premium member")
	}
	return m, nil
}

func (s *Service) ListPremiumMembers(ctx context.Context) ([]*models.PremiumMember, error) {
	members, err := s.roster.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list premium members")
	}
	return members, nil
}

func wrapAccountErr(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "user was modified concurrently, retry")
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
