package jwttoken

import (
	"context"

	authmw "rishta/pkg/platform/middleware/auth"
)

// TokenValidator is satisfied by FirebaseVerifier and DevVerifier.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

func ToMiddlewareClaims(claims *Claims) *authmw.JWTClaims {
	return &authmw.JWTClaims{
		Identity: claims.Email,
		Subject:  claims.Subject,
	}
}

// JWTServiceAdapter exposes a TokenValidator to the auth middleware.
type JWTServiceAdapter struct {
	validator TokenValidator
}

func NewJWTServiceAdapter(validator TokenValidator) *JWTServiceAdapter {
	return &JWTServiceAdapter{validator: validator}
}

func (a *JWTServiceAdapter) ValidateToken(ctx context.Context, tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.validator.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
