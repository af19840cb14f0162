package shared

import (
	"context"

	"github.com/google/uuid"
)

// Identity describes the authenticated account acting on a request.
// Row-level visibility of every table is scoped by Identity.UserID.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type contextKey string

const identityKey contextKey = "identity"

// ContextWithIdentity stores the identity in the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the identity, reporting whether one is present.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
