package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"rishta/internal/profile/models"
	"rishta/internal/profile/service"
	"rishta/internal/transport/http/shared"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/email"
	"rishta/pkg/pagination"
	"rishta/pkg/platform/httputil"
	"rishta/pkg/platform/middleware/admin"
	"rishta/pkg/requestcontext"
)

// Service defines the profile registry operations used over HTTP.
type Service interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Profile, error)
	UpdateAttributes(ctx context.Context, owner string, patch models.AttributesPatch) (*models.Profile, error)
	GetByOwner(ctx context.Context, owner string) (*models.Profile, error)
	GetPublic(ctx context.Context, profileID int64) (*models.PublicView, error)
	RequestPremium(ctx context.Context, owner string, profileID int64) (*models.Profile, error)
	ApprovePremium(ctx context.Context, profileID int64) (*models.Profile, error)
	List(ctx context.Context, filter models.Filter, params pagination.Params) (*pagination.Page[models.PublicView], error)
}

// Handler serves biodata endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
	guards  shared.Guards
}

func New(svc Service, logger *slog.Logger, guards shared.Guards) *Handler {
	return &Handler{service: svc, logger: logger, guards: guards}
}

// Register mounts the biodata routes on r.
func (h *Handler) Register(r chi.Router) {
	r.With(h.guards.Writes()).Post("/add-biodata", h.handleRegister)
	r.Get("/biodatas", h.handleList)
	r.Get("/biodatabyid/{id}", h.handleGetPublic)

	r.Group(func(r chi.Router) {
		r.Use(h.guards.Auth())
		r.Get("/biodata", h.handleGetOwn)
		r.With(admin.RequireSelf("email", h.logger)).Patch("/update-biodata/{email}", h.handleUpdate)
		r.Patch("/biodatas/{id}/request-premium", h.handleRequestPremium)
		r.With(h.guards.Admin()).Patch("/biodatas/{id}/approve-premium", h.handleApprovePremium)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "invalid register biodata request", err)
		return
	}

	p, err := h.service.Register(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, "failed to register biodata", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.RegisterResponse{Success: true, Profile: p})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := pagination.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	q := r.URL.Query()
	filter := models.Filter{
		BiodataType:     models.BiodataType(strings.TrimSpace(q.Get("biodataType"))),
		PresentDivision: strings.TrimSpace(q.Get("presentDivision")),
		PremiumOnly:     q.Get("premium") == "true",
	}

	page, err := h.service.List(ctx, filter, params)
	if err != nil {
		h.writeError(ctx, w, "failed to list biodatas", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleGetPublic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID, err := service.ParseProfileID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.service.GetPublic(ctx, profileID)
	if err != nil {
		h.writeError(ctx, w, "failed to load biodata", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// handleGetOwn returns the caller's full biodata, including contact details.
func (h *Handler) handleGetOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested := email.Normalize(r.URL.Query().Get("email"))
	if requested == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "email query parameter is required"))
		return
	}
	if requested != requestcontext.Identity(ctx) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "forbidden access"))
		return
	}

	p, err := h.service.GetByOwner(ctx, requested)
	if err != nil {
		h.writeError(ctx, w, "failed to load own biodata", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ProfileResponse{Success: true, Data: p})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var patch models.AttributesPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		h.writeError(ctx, w, "invalid update biodata request", err)
		return
	}

	p, err := h.service.UpdateAttributes(ctx, chi.URLParam(r, "email"), patch)
	if err != nil {
		h.writeError(ctx, w, "failed to update biodata", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ProfileResponse{Success: true, Data: p})
}

func (h *Handler) handleRequestPremium(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID, err := service.ParseProfileID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.RequestPremium(ctx, requestcontext.Identity(ctx), profileID)
	if err != nil {
		h.writeError(ctx, w, "failed to request premium biodata", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ProfileResponse{Success: true, Data: p})
}

func (h *Handler) handleApprovePremium(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID, err := service.ParseProfileID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.ApprovePremium(ctx, profileID)
	if err != nil {
		h.writeError(ctx, w, "failed to approve premium biodata", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ProfileResponse{Success: true, Data: p})
}

// writeError logs server faults at error level and client faults at warn.
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
