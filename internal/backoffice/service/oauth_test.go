package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/pkg/idx"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeProvider stands in for Google: a token endpoint plus a userinfo
// endpoint serving a fixed identity.
func fakeProvider(t *testing.T, userinfo string, userinfoStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"upstream-access","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(userinfoStatus)
		_, _ = w.Write([]byte(userinfo))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newOAuthService(svc *testServices, provider *httptest.Server) *OAuthService {
	return &OAuthService{
		Config: &oauth2.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "http://localhost/callback",
			Endpoint: oauth2.Endpoint{
				AuthURL:  provider.URL + "/auth",
				TokenURL: provider.URL + "/token",
			},
		},
		Store:       svc.store,
		Sessions:    svc.sessions,
		Audit:       svc.audit,
		UserinfoURL: provider.URL + "/userinfo",
	}
}

func TestOAuthLoginCreatesUserJustInTime(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	member := domain.Role{ID: idx.New().String(), Name: domain.RoleMember, IsSystem: true}
	require.NoError(t, svc.store.Roles().CreateRole(ctx, member))

	provider := fakeProvider(t,
		`{"email":"new@example.com","email_verified":true,"name":"New User","picture":"https://img.example/p.png"}`,
		http.StatusOK)
	oauth := newOAuthService(svc, provider)

	session, err := oauth.Login(ctx, "auth-code", "192.0.2.1")
	require.NoError(t, err)
	require.NotEmpty(t, session.Tokens.AccessToken)
	require.Equal(t, "new@example.com", session.User.Email)
	require.NotNil(t, session.User.EmailVerifiedAt)
	require.NotNil(t, session.Role)
	require.Equal(t, domain.RoleMember, session.Role.Name)

	// The created account has a real (unusable but valid) password hash
	user, err := svc.store.Users().GetUserByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, user.PasswordHash)

	// Its refresh token behaves like any password session's
	_, err = svc.sessions.Refresh(ctx, session.Tokens.RefreshToken)
	require.NoError(t, err)
}

func TestOAuthLoginMatchesExistingUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	existing := seedUser(t, svc.store, "alice@example.com", "local-password", nil)

	provider := fakeProvider(t,
		`{"email":"alice@example.com","email_verified":true,"name":"Alice"}`,
		http.StatusOK)
	oauth := newOAuthService(svc, provider)

	session, err := oauth.Login(ctx, "auth-code", "192.0.2.1")
	require.NoError(t, err)
	require.Equal(t, existing.ID, session.User.ID)
}

func TestOAuthLoginRejectsUnverifiedEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	provider := fakeProvider(t,
		`{"email":"shady@example.com","email_verified":false}`,
		http.StatusOK)
	oauth := newOAuthService(svc, provider)

	_, err := oauth.Login(ctx, "auth-code", "192.0.2.1")
	require.ErrorIs(t, err, ErrUpstreamProvider)

	// No account was created
	_, err = svc.store.Users().GetUserByEmail(ctx, "shady@example.com")
	require.Error(t, err)
}

func TestOAuthLoginSurfacesUpstreamFailure(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	provider := fakeProvider(t, `{"error":"boom"}`, http.StatusInternalServerError)
	oauth := newOAuthService(svc, provider)

	_, err := oauth.Login(ctx, "auth-code", "192.0.2.1")
	require.ErrorIs(t, err, ErrUpstreamProvider)
}
