// Package shared holds the route guards handed to every domain handler so
// that handlers declare which routes need them without building them.
package shared

import "net/http"

// Middleware is the chi middleware signature.
type Middleware = func(http.Handler) http.Handler

// Guards bundles the middlewares domain handlers attach per route. Nil
// guards pass requests through, which keeps handler tests small.
type Guards struct {
	// RequireAuth exchanges the bearer token for an identity (401 otherwise).
	RequireAuth Middleware
	// RequireAdmin rejects callers without the admin role (403). Runs after RequireAuth.
	RequireAdmin Middleware
	// LimitWrites rate limits anonymous write endpoints.
	LimitWrites Middleware
	// LimitPayments rate limits payment endpoints.
	LimitPayments Middleware
}

func (g Guards) Auth() Middleware {
	return orPassthrough(g.RequireAuth)
}

func (g Guards) Admin() Middleware {
	return orPassthrough(g.RequireAdmin)
}

func (g Guards) Writes() Middleware {
	return orPassthrough(g.LimitWrites)
}

func (g Guards) Payments() Middleware {
	return orPassthrough(g.LimitPayments)
}

func orPassthrough(m Middleware) Middleware {
	if m == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return m
}
