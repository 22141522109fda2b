package auth

import (
	"context"

	"handwash-backend/pkg/common"
	"handwash-backend/pkg/errors"
)

// Claims are the validated identity claims for the caller. Sub is the
// stable subject identifier asserted by the authentication collaborator.
type Claims struct {
	Sub   string
	Email string
}

// WithClaims stores the caller's claims on the request context
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = common.WithUserSub(ctx, claims.Sub)
	ctx = common.WithUserEmail(ctx, claims.Email)
	return ctx
}

// GetClaimsFromContext extracts the caller's claims from the context
func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	sub, ok := common.GetUserSub(ctx)
	if !ok {
		return nil, errors.NewUnauthorizedError("missing subject claim")
	}
	email, _ := common.GetUserEmail(ctx)
	return &Claims{Sub: sub, Email: email}, nil
}
