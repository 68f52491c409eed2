package httpx

import "context"

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// Identity is the authenticated caller attached to the request context after
// the authentication middleware has run. Permissions reflect the caller's
// role as stored right now, not as it was when the token was minted.
type Identity struct {
	UserID      string
	Email       string
	RoleID      string
	RoleName    string
	Permissions map[string]struct{}
}

// HasPermission reports whether the identity holds the permission code.
func (id Identity) HasPermission(code string) bool {
	_, ok := id.Permissions[code]
	return ok
}

// ContextWithIdentity attaches an identity to the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext returns the identity set by the authentication
// middleware, or ok=false when the request was not authenticated.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return id, ok
}
