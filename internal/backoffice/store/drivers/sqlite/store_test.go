package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/idx"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestUsersSoftDelete(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	user := domain.User{
		ID:           idx.New().String(),
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, st.Users().CreateUser(ctx, user))

	got, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	require.NoError(t, st.Users().SoftDeleteUser(ctx, user.ID))

	// Every lookup now misses; the deleted user is gone as far as callers
	// can tell
	_, err = st.Users().GetUserByID(ctx, user.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Users().GetUserByEmail(ctx, "alice@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	// Mutations against the deleted row also miss
	require.ErrorIs(t, st.Users().SoftDeleteUser(ctx, user.ID), store.ErrNotFound)
}

func TestUsersUniqueEmail(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	user := domain.User{ID: idx.New().String(), Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, st.Users().CreateUser(ctx, user))

	dup := domain.User{ID: idx.New().String(), Email: "alice@example.com", PasswordHash: "hash"}
	require.ErrorIs(t, st.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
}

func TestRefreshTokenRevocationByRole(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	role := domain.Role{ID: idx.New().String(), Name: "Editor"}
	require.NoError(t, st.Roles().CreateRole(ctx, role))
	other := domain.Role{ID: idx.New().String(), Name: "Viewer"}
	require.NoError(t, st.Roles().CreateRole(ctx, other))

	member := domain.User{ID: idx.New().String(), Email: "a@example.com", PasswordHash: "h", RoleID: &role.ID}
	require.NoError(t, st.Users().CreateUser(ctx, member))
	outsider := domain.User{ID: idx.New().String(), Email: "b@example.com", PasswordHash: "h", RoleID: &other.ID}
	require.NoError(t, st.Users().CreateUser(ctx, outsider))

	mkToken := func(userID, hash string) domain.RefreshToken {
		tok := domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    userID,
			TokenHash: hash,
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		}
		require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, tok))
		return tok
	}
	memberTok := mkToken(member.ID, "hash-member")
	outsiderTok := mkToken(outsider.ID, "hash-outsider")

	require.NoError(t, st.RefreshTokens().RevokeRefreshTokensByRole(ctx, role.ID))

	got, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, memberTok.TokenHash)
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)
	require.False(t, got.Live(time.Now().UTC()))

	got, err = st.RefreshTokens().GetRefreshTokenByHash(ctx, outsiderTok.TokenHash)
	require.NoError(t, err)
	require.Nil(t, got.RevokedAt)
}

func TestDeleteExpiredRefreshTokens(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	user := domain.User{ID: idx.New().String(), Email: "a@example.com", PasswordHash: "h"}
	require.NoError(t, st.Users().CreateUser(ctx, user))

	expired := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: "expired",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, expired))
	live := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: "live",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, live))

	require.NoError(t, st.RefreshTokens().DeleteExpiredRefreshTokens(ctx))

	_, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, "expired")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.RefreshTokens().GetRefreshTokenByHash(ctx, "live")
	require.NoError(t, err)
}

func TestRoleDeleteConflictsWhileReferenced(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	role := domain.Role{ID: idx.New().String(), Name: "Editor"}
	require.NoError(t, st.Roles().CreateRole(ctx, role))

	user := domain.User{ID: idx.New().String(), Email: "a@example.com", PasswordHash: "h", RoleID: &role.ID}
	require.NoError(t, st.Users().CreateUser(ctx, user))

	require.ErrorIs(t, st.Roles().DeleteRole(ctx, role.ID), store.ErrConflict)

	require.NoError(t, st.Users().SoftDeleteUser(ctx, user.ID))
	require.NoError(t, st.Roles().DeleteRole(ctx, role.ID))
}

func TestReplaceRolePermissionsIsWholesale(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	role := domain.Role{ID: idx.New().String(), Name: "Editor"}
	require.NoError(t, st.Roles().CreateRole(ctx, role))

	var ids []string
	for _, code := range []string{"a.view", "b.view", "c.view"} {
		p := domain.Permission{ID: idx.New().String(), Code: code}
		require.NoError(t, st.Permissions().CreatePermission(ctx, p))
		ids = append(ids, p.ID)
	}

	require.NoError(t, st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Roles().ReplaceRolePermissions(ctx, role.ID, ids[:2])
	}))
	codes, err := st.Permissions().ListPermissionCodesForRole(ctx, role.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a.view", "b.view"}, codes)

	require.NoError(t, st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Roles().ReplaceRolePermissions(ctx, role.ID, ids[2:])
	}))
	codes, err = st.Permissions().ListPermissionCodesForRole(ctx, role.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"c.view"}, codes)

	require.NoError(t, st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Roles().ReplaceRolePermissions(ctx, role.ID, nil)
	}))
	codes, err = st.Permissions().ListPermissionCodesForRole(ctx, role.ID)
	require.NoError(t, err)
	require.Empty(t, codes)
}

func TestLoginAttemptQueries(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	add := func(email string, at time.Time, success bool) {
		require.NoError(t, st.LoginAttempts().CreateLoginAttempt(ctx, domain.LoginAttempt{
			ID:        idx.New().String(),
			Email:     email,
			IP:        "192.0.2.1",
			Success:   success,
			CreatedAt: at,
		}))
	}

	add("a@example.com", now.Add(-20*time.Minute), false)
	add("a@example.com", now.Add(-10*time.Minute), false)
	add("a@example.com", now.Add(-5*time.Minute), false)
	add("a@example.com", now.Add(-1*time.Minute), true)
	add("b@example.com", now.Add(-2*time.Minute), false)

	count, err := st.LoginAttempts().CountFailedSince(ctx, "a@example.com", now.Add(-15*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 2, count)

	latest, err := st.LoginAttempts().LatestFailedAt(ctx, "a@example.com")
	require.NoError(t, err)
	require.WithinDuration(t, now.Add(-5*time.Minute), latest, time.Second)

	require.NoError(t, st.LoginAttempts().DeleteLoginAttemptsBefore(ctx, now.Add(-15*time.Minute)))
	count, err = st.LoginAttempts().CountFailedSince(ctx, "a@example.com", now.Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, 2, count)

	_, err = st.LoginAttempts().LatestFailedAt(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSettingsUpsert(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	_, err := st.Settings().GetSetting(ctx, "security")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.Settings().PutSetting(ctx, "security", []byte(`{"a":1}`)))
	raw, err := st.Settings().GetSetting(ctx, "security")
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(raw))

	require.NoError(t, st.Settings().PutSetting(ctx, "security", []byte(`{"a":2}`)))
	raw, err = st.Settings().GetSetting(ctx, "security")
	require.NoError(t, err)
	require.JSONEq(t, `{"a":2}`, string(raw))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	sentinel := domain.Role{ID: idx.New().String(), Name: "Editor"}
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Roles().CreateRole(ctx, sentinel); err != nil {
			return err
		}
		return store.ErrConflict
	})
	require.ErrorIs(t, err, store.ErrConflict)

	_, err = st.Roles().GetRoleByID(ctx, sentinel.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
