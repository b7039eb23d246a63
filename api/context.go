package api

import (
	"context"
)

// Identity is the authenticated caller: user id plus the admin flag.
type Identity struct {
	UserID uint
	Admin  bool
}

type keyType string

const identityKey keyType = "identity"

// ctxWithIdentity adds the caller identity to the context
func ctxWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// identityFromCtx retrieves the caller identity from the context
func identityFromCtx(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
