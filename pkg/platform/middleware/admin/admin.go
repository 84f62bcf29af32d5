// Package admin guards routes by role and by resource ownership.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/platform/audit"
	"rishta/pkg/platform/httputil"
	"rishta/pkg/requestcontext"
)

// RoleChecker reports whether an identity holds the administrator role.
type RoleChecker interface {
	IsAdmin(ctx context.Context, identity string) (bool, error)
}

// RequireAdmin lets a request through only when the authenticated caller is
// an administrator. Must run after auth.RequireAuth.
func RequireAdmin(checker RoleChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identity := requestcontext.Identity(ctx)
			if identity == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
				return
			}

			ok, err := checker.IsAdmin(ctx, identity)
			if err != nil {
				logger.ErrorContext(ctx, "failed to resolve caller role",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, err)
				return
			}
			if !ok {
				logger.WarnContext(ctx, string(audit.EventAccessDenied),
					"reason", "not_admin",
					"identity", identity,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "administrator role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelf lets a request through only when the URL parameter param equals
// the authenticated identity (case-insensitive). Must run after auth.RequireAuth.
func RequireSelf(param string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identity := requestcontext.Identity(ctx)
			if identity == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !strings.EqualFold(strings.TrimSpace(chi.URLParam(r, param)), identity) {
				logger.WarnContext(ctx, string(audit.EventAccessDenied),
					"reason", "not_owner",
					"identity", identity,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "forbidden access"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
