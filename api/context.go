package api

import (
	"context"

	"github.com/daffadev/pamer-backend/auth"
)

type keyType string

const claimsKey keyType = "claims"

// ctxWithClaims adds the verified token claims to the context
func ctxWithClaims(ctx context.Context, claims *auth.SupabaseClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ctxGetUserID returns the signed-in user's ID, or "" outside the dashboard routes.
func ctxGetUserID(ctx context.Context) string {
	claims, ok := ctx.Value(claimsKey).(*auth.SupabaseClaims)
	if !ok || claims == nil {
		return ""
	}
	return claims.GetUserID()
}
