package httpx

import "net/http"

// RequirePermission gates a handler behind a single permission code.
func RequirePermission(code string) Middleware {
	return RequireAnyPermission(code)
}

// RequireAnyPermission passes when the caller holds at least one of the
// listed permission codes.
func RequireAnyPermission(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, "missing bearer token")
				return
			}
			for _, code := range required {
				if identity.HasPermission(code) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeForbidden(w)
		})
	}
}

// RequireAllPermissions passes only when the caller holds every listed
// permission code.
func RequireAllPermissions(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, "missing bearer token")
				return
			}
			for _, code := range required {
				if !identity.HasPermission(code) {
					writeForbidden(w)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeForbidden(w http.ResponseWriter) {
	WriteError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
}
