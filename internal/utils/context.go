package utils

import (
	"context"
)

type contextKey string

const ContextClaimsKey contextKey = "claims"

// SessionClaims is the verified identity placed on the request context by
// the auth middleware. Collaborator modules consume only this.
type SessionClaims struct {
	AccountID string
	Username  string
	Role      string
}

func GetClaimsFromContext(ctx context.Context) (SessionClaims, bool) {
	claims, ok := ctx.Value(ContextClaimsKey).(SessionClaims)
	return claims, ok
}

func WithClaims(ctx context.Context, claims SessionClaims) context.Context {
	return context.WithValue(ctx, ContextClaimsKey, claims)
}
