package service

import (
	"context"
	"testing"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/internal/backoffice/store/drivers/sqlite"
	"github.com/lumenlms/backoffice/pkg/cryptox"
	"github.com/lumenlms/backoffice/pkg/idx"
	"github.com/lumenlms/backoffice/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// testServices bundles the wired service graph backed by one test store.
type testServices struct {
	store    store.Store
	settings *SettingsService
	audit    *AuditService
	lockout  *LockoutPolicy
	tokens   *TokenService
	sessions *SessionService
	cascade  *CascadeService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	st := newTestStore(t)

	access, err := jwtx.NewCodec([]byte("test-access-secret"), "test-issuer", jwtx.UseAccess)
	require.NoError(t, err)
	refresh, err := jwtx.NewCodec([]byte("test-refresh-secret"), "test-issuer", jwtx.UseRefresh)
	require.NoError(t, err)

	settings := &SettingsService{Store: st}
	audit := &AuditService{Store: st}
	lockout := &LockoutPolicy{Store: st, Settings: settings}
	tokens := &TokenService{
		AccessCodec:  access,
		RefreshCodec: refresh,
		Store:        st,
		Settings:     settings,
	}
	sessions := &SessionService{
		Store:   st,
		Lockout: lockout,
		Tokens:  tokens,
		Audit:   audit,
	}

	return &testServices{
		store:    st,
		settings: settings,
		audit:    audit,
		lockout:  lockout,
		tokens:   tokens,
		sessions: sessions,
		cascade:  &CascadeService{Store: st},
	}
}

// seedRole creates a role with the given permission codes, creating the
// permissions as needed.
func seedRole(t *testing.T, st store.Store, name string, codes ...string) domain.Role {
	t.Helper()
	ctx := context.Background()

	role := domain.Role{
		ID:   idx.New().String(),
		Name: name,
	}
	require.NoError(t, st.Roles().CreateRole(ctx, role))

	var permIDs []string
	for _, code := range codes {
		perm, err := st.Permissions().GetPermissionByCode(ctx, code)
		if err != nil {
			perm = domain.Permission{ID: idx.New().String(), Code: code}
			require.NoError(t, st.Permissions().CreatePermission(ctx, perm))
		}
		permIDs = append(permIDs, perm.ID)
	}
	if len(permIDs) > 0 {
		require.NoError(t, st.WithTx(ctx, func(tx store.Tx) error {
			return tx.Roles().ReplaceRolePermissions(ctx, role.ID, permIDs)
		}))
	}
	return role
}

func seedUser(t *testing.T, st store.Store, email, password string, roleID *string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  "Test User",
		RoleID:       roleID,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

// fixedClock pins the lockout policy's clock and returns a function to move
// it forward.
func fixedClock(p *LockoutPolicy, start time.Time) func(d time.Duration) {
	current := start
	p.now = func() time.Time { return current }
	return func(d time.Duration) { current = current.Add(d) }
}
