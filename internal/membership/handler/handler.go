package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"rishta/internal/membership/models"
	"rishta/internal/transport/http/shared"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/pagination"
	"rishta/pkg/platform/httputil"
	"rishta/pkg/platform/middleware/admin"
	"rishta/pkg/requestcontext"
)

// Service defines the membership operations used over HTTP.
type Service interface {
	CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error)
	GetByIdentity(ctx context.Context, identity string) (*models.Account, error)
	ListByFilter(ctx context.Context, filter models.Filter, params pagination.Params) (*pagination.Page[*models.Account], error)
	ListPremiumRequests(ctx context.Context) ([]*models.Account, error)
	RequestPremium(ctx context.Context, identity string, profileID int64) (*models.Account, error)
	ApprovePremium(ctx context.Context, identity string) (*models.Account, error)
	GrantAdminRole(ctx context.Context, identity string) (*models.Account, error)
	Rename(ctx context.Context, identity, name string) (*models.Account, error)
	AddPremiumMember(ctx context.Context, req *models.AddPremiumMemberRequest) (*models.PremiumMember, error)
	ListPremiumMembers(ctx context.Context) ([]*models.PremiumMember, error)
}

// Handler serves user and membership endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
	guards  shared.Guards
}

func New(svc Service, logger *slog.Logger, guards shared.Guards) *Handler {
	return &Handler{service: svc, logger: logger, guards: guards}
}

// Register mounts the membership routes on r.
func (h *Handler) Register(r chi.Router) {
	r.With(h.guards.Writes()).Post("/users", h.handleCreateAccount)
	r.Get("/users", h.handleListUsers)
	r.Get("/authusers", h.handleGetUser)
	r.Get("/all-premium-members", h.handleListPremiumMembers)

	r.Group(func(r chi.Router) {
		r.Use(h.guards.Auth())

		r.With(admin.RequireSelf("email", h.logger)).Patch("/biodata/request-premium/{email}", h.handleRequestPremium)
		r.With(admin.RequireSelf("email", h.logger)).Patch("/update-user-name/{email}", h.handleRename)

		r.Group(func(r chi.Router) {
			r.Use(h.guards.Admin())
			r.Get("/requestedpremiumuser", h.handleListPremiumRequests)
			r.Patch("/make-premium/{email}", h.handleApprovePremium)
			r.Patch("/make-admin/{email}", h.handleGrantAdmin)
			r.Post("/all-premium-members", h.handleAddPremiumMember)
		})
	})
}

func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateAccountRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "invalid create user request", err)
		return
	}
	a, err := h.service.CreateAccount(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, "failed to create user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.AccountResponse{Success: true, Account: a})
}

// listUsersResponse mirrors the pager shape clients already consume.
type listUsersResponse struct {
	Users      []*models.Account `json:"users"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := pagination.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	q := r.URL.Query()
	filter := models.Filter{
		NameContains: q.Get("name"),
		Role:         models.Role(strings.TrimSpace(q.Get("role"))),
	}
	page, err := h.service.ListByFilter(ctx, filter, params)
	if err != nil {
		h.writeError(ctx, w, "failed to list users", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listUsersResponse{
		Users:      page.Items,
		Total:      page.Total,
		Page:       page.CurrentPage,
		TotalPages: page.TotalPages,
	})
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := r.URL.Query().Get("email")
	if strings.TrimSpace(identity) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "email required"))
		return
	}
	a, err := h.service.GetByIdentity(ctx, identity)
	if err != nil {
		h.writeError(ctx, w, "failed to load user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleListPremiumRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accounts, err := h.service.ListPremiumRequests(ctx)
	if err != nil {
		h.writeError(ctx, w, "failed to list premium requests", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, accounts)
}

func (h *Handler) handleRequestPremium(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.RequestPremiumRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "invalid premium request", err)
		return
	}
	a, err := h.service.RequestPremium(ctx, chi.URLParam(r, "email"), req.ProfileID)
	if err != nil {
		h.writeError(ctx, w, "failed to request premium", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.AccountResponse{Success: true, Account: a})
}

func (h *Handler) handleApprovePremium(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	a, err := h.service.ApprovePremium(ctx, chi.URLParam(r, "email"))
	if err != nil {
		h.writeError(ctx, w, "failed to approve premium", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.AccountResponse{Success: true, Account: a})
}

func (h *Handler) handleGrantAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	a, err := h.service.GrantAdminRole(ctx, chi.URLParam(r, "email"))
	if err != nil {
		h.writeError(ctx, w, "failed to grant admin role", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.AccountResponse{Success: true, Account: a})
}

func (h *Handler) handleRename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.RenameRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "invalid rename request", err)
		return
	}
	a, err := h.service.Rename(ctx, chi.URLParam(r, "email"), req.Name)
	if err != nil {
		h.writeError(ctx, w, "failed to update user name", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.AccountResponse{Success: true, Account: a})
}

func (h *Handler) handleAddPremiumMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.AddPremiumMemberRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "invalid premium member request", err)
		return
	}
	m, err := h.service.AddPremiumMember(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, "failed to add premium member", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) handleListPremiumMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	members, err := h.service.ListPremiumMembers(ctx)
	if err != nil {
		h.writeError(ctx, w, "failed to list premium members", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, members)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}
