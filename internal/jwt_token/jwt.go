// Package jwttoken verifies Firebase ID tokens and maps them to the caller
// identity used throughout the API (the token's email claim).
package jwttoken

import (
	"context"
	"crypto/rsa"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "rishta/pkg/domain-errors"
)

const firebaseIssuerPrefix = "https://securetoken.google.com/"

// Claims represents the Firebase ID token claims we rely on.
type Claims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// KeySource resolves the RSA key that signed a token.
type KeySource interface {
	PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// FirebaseVerifier validates RS256 ID tokens issued for one Firebase project.
type FirebaseVerifier struct {
	projectID string
	keys      KeySource
	leeway    time.Duration
	now       func() time.Time
}

type VerifierOption func(*FirebaseVerifier)

// WithLeeway tolerates clock skew on exp/iat/nbf.
func WithLeeway(d time.Duration) VerifierOption {
	return func(v *FirebaseVerifier) {
		v.leeway = d
	}
}

// WithClock overrides the verification time (tests).
func WithClock(now func() time.Time) VerifierOption {
	return func(v *FirebaseVerifier) {
		v.now = now
	}
}

func NewFirebaseVerifier(projectID string, keys KeySource, opts ...VerifierOption) *FirebaseVerifier {
	v := &FirebaseVerifier{
		projectID: projectID,
		keys:      keys,
		leeway:    30 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateToken verifies signature, issuer, audience and lifetime, and
// requires a subject and a verified email claim.
func (v *FirebaseVerifier) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			kid, _ := token.Header["kid"].(string)
			if kid == "" {
				return nil, jwt.ErrTokenUnverifiable
			}
			return v.keys.PublicKey(ctx, kid)
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(firebaseIssuerPrefix+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Subject == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no subject")
	}
	claims.Email = strings.TrimSpace(claims.Email)
	if claims.Email == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no email")
	}
	if !claims.EmailVerified {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "email is not verified")
	}
	return claims, nil
}
