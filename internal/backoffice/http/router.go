package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/service"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/httpx"
	"github.com/lumenlms/backoffice/pkg/jwtx"
	"github.com/lumenlms/backoffice/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	SessionService     *service.SessionService
	OAuthService       *service.OAuthService
	UsersService       *service.UsersService
	RolesService       *service.RolesService
	PermissionsService *service.PermissionsService
	SettingsService    *service.SettingsService
	AuditService       *service.AuditService

	// ClientCallbackURL and ClientLoginURL are the front-end routes the
	// Google callback redirects to.
	ClientCallbackURL string
	ClientLoginURL    string
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMe()
	r.registerUsers()
	r.registerRoles()
	r.registerPermissions()
	r.registerSettings()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn verifies the bearer token and resolves the caller's identity fresh
// for every request.
func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(r.verifier, r.UsersService)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Sessions: r.SessionService}

	// POST /login - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /refresh - moderate rate limit; a refresh carries a token, not
	// credentials, so brute force is less of a concern than at login
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Provider routes only exist when Google is configured
	if r.OAuthService == nil {
		return
	}
	google := &GoogleHandler{
		OAuth:       r.OAuthService,
		CallbackURL: r.ClientCallbackURL,
		LoginURL:    r.ClientLoginURL,
	}
	r.Mux.Handle("GET /v1/auth/google",
		httpx.Chain(http.HandlerFunc(google.HandleRedirect),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/google/callback",
		httpx.Chain(http.HandlerFunc(google.HandleCallback),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMe() {
	h := &MeHandler{Users: r.UsersService}

	// Authenticated but not permission-gated; everyone may read themselves
	r.Mux.Handle("GET /v1/me",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.authn(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// Password change carries a credential, so it gets the moderate budget
	r.Mux.Handle("PUT /v1/me/password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
			r.authn(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Users: r.UsersService}

	r.Mux.Handle("PUT /v1/users/{id}/role",
		httpx.Chain(http.HandlerFunc(h.HandleAssignRole),
			r.authn(),
			httpx.RequirePermission(domain.PermUsersEdit),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerRoles() {
	h := &RolesHandler{Roles: r.RolesService}

	view := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			r.authn(),
			httpx.RequirePermission(domain.PermRolesView),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}
	edit := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			r.authn(),
			httpx.RequirePermission(domain.PermRolesEdit),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/roles", view(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /v1/roles/{id}", view(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("POST /v1/roles", edit(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("PATCH /v1/roles/{id}", edit(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/roles/{id}", edit(http.HandlerFunc(h.HandleDelete)))
	r.Mux.Handle("PUT /v1/roles/{id}/permissions", edit(http.HandlerFunc(h.HandleReplacePermissions)))
}

func (r *Router) registerPermissions() {
	h := &PermissionsHandler{Permissions: r.PermissionsService}

	view := httpx.Chain(http.HandlerFunc(h.HandleList),
		r.authn(),
		httpx.RequirePermission(domain.PermPermissionsView),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	r.Mux.Handle("GET /v1/permissions", view)

	edit := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			r.authn(),
			httpx.RequirePermission(domain.PermPermissionsEdit),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}
	r.Mux.Handle("POST /v1/permissions", edit(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("PATCH /v1/permissions/{id}", edit(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/permissions/{id}", edit(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerSettings() {
	h := &SettingsHandler{Settings: r.SettingsService, Audit: r.AuditService}

	r.Mux.Handle("GET /v1/settings/security",
		httpx.Chain(http.HandlerFunc(h.HandleGetSecurity),
			r.authn(),
			httpx.RequirePermission(domain.PermSettingsView),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /v1/settings/security",
		httpx.Chain(http.HandlerFunc(h.HandlePutSecurity),
			r.authn(),
			httpx.RequirePermission(domain.PermSettingsEdit),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health checks - lenient limits, monitoring systems poll these
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
