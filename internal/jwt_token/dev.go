package jwttoken

import (
	"context"
	"net/mail"
	"strings"

	dErrors "rishta/pkg/domain-errors"
)

// DevVerifier treats the bearer token itself as the caller's email address.
// Only for local development and tests; configuration refuses it in production.
type DevVerifier struct{}

func NewDevVerifier() *DevVerifier {
	return &DevVerifier{}
}

func (DevVerifier) ValidateToken(_ context.Context, tokenString string) (*Claims, error) {
	email := strings.TrimSpace(tokenString)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims := &Claims{Email: email, EmailVerified: true}
	claims.Subject = email
	return claims, nil
}
