package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/lumenlms/backoffice/pkg/jwtx"
	"github.com/lumenlms/backoffice/pkg/slogx"
)

// IdentityResolver loads the caller's current identity (user, role and
// permission set) from the backing store. It must exclude deleted users:
// a valid signature on a token whose subject no longer exists is still a
// rejected request.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (Identity, error)
}

// AuthnMiddleware verifies the bearer access token and resolves the caller's
// identity on every request. Nothing is cached between requests; a role or
// permission edit is visible on the very next call.
func AuthnMiddleware(v jwtx.Verifier, resolver IdentityResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeUnauthorized(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("access token verification failed", "err", err)
				writeUnauthorized(w, "token verification failed")
				return
			}

			identity, err := resolver.ResolveIdentity(ctx, claims.Subject)
			if err != nil {
				// Unknown and soft-deleted subjects are indistinguishable
				// from a bad token on purpose.
				log.Warn("identity resolution failed", "sub", claims.Subject, "err", err)
				writeUnauthorized(w, "token verification failed")
				return
			}

			ctx = ContextWithIdentity(ctx, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-style bearer error plus the service's stable JSON envelope.
func writeUnauthorized(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
}
