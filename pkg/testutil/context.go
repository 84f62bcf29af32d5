package testutil

import (
	"context"
	"net/http"
	"slices"
	"time"

	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/email"
	"rishta/pkg/platform/httputil"
	"rishta/pkg/requestcontext"
)

// HeaderIdentity is read by FakeAuth in place of a bearer token.
const HeaderIdentity = "X-Test-Identity"

// WithIdentity adds a verified identity to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithIdentity(req *http.Request, identity string) *http.Request {
	return req.WithContext(requestcontext.WithIdentity(req.Context(), email.Normalize(identity)))
}

// WithTime pins the request clock.
func WithTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}

// AsUser sets the header FakeAuth trusts.
func AsUser(req *http.Request, identity string) *http.Request {
	req.Header.Set(HeaderIdentity, identity)
	return req
}

// FakeAuth authenticates requests from the X-Test-Identity header and
// answers 401 when it is absent.
func FakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := email.Normalize(r.Header.Get(HeaderIdentity))
		if identity == "" {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing authorization header"))
			return
		}
		next.ServeHTTP(w, WithIdentity(r, identity))
	})
}

// FakeAdmin admits only the listed identities.
func FakeAdmin(admins ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(admins, requestcontext.Identity(r.Context())) {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "administrator role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
