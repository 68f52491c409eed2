package service

import (
	"context"
	"testing"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestCascadeByRoleRevokesOnlyThatRole(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	editors := seedRole(t, svc.store, "Editor", "courses.edit")
	viewers := seedRole(t, svc.store, "Viewer", "courses.view")

	seedUser(t, svc.store, "editor@example.com", "password-one", &editors.ID)
	seedUser(t, svc.store, "viewer@example.com", "password-two", &viewers.ID)

	editorSession, err := svc.sessions.Login(ctx, "editor@example.com", "password-one", "192.0.2.1")
	require.NoError(t, err)
	viewerSession, err := svc.sessions.Login(ctx, "viewer@example.com", "password-two", "192.0.2.1")
	require.NoError(t, err)

	require.NoError(t, svc.cascade.InvalidateRefreshTokensByRole(ctx, editors.ID))

	// The editor can no longer refresh into the stale grant
	_, err = svc.sessions.Refresh(ctx, editorSession.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	// The viewer's session is untouched
	_, err = svc.sessions.Refresh(ctx, viewerSession.Tokens.RefreshToken)
	require.NoError(t, err)
}

func TestCascadeByPermissionFansOutAcrossRoles(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	// Two roles share courses.edit; a third does not reference it
	editors := seedRole(t, svc.store, "Editor", "courses.edit")
	managers := seedRole(t, svc.store, "Manager", "courses.edit", "users.view")
	viewers := seedRole(t, svc.store, "Viewer", "courses.view")

	seedUser(t, svc.store, "editor@example.com", "password-one", &editors.ID)
	seedUser(t, svc.store, "manager@example.com", "password-two", &managers.ID)
	seedUser(t, svc.store, "viewer@example.com", "password-three", &viewers.ID)

	editorSession, err := svc.sessions.Login(ctx, "editor@example.com", "password-one", "192.0.2.1")
	require.NoError(t, err)
	managerSession, err := svc.sessions.Login(ctx, "manager@example.com", "password-two", "192.0.2.1")
	require.NoError(t, err)
	viewerSession, err := svc.sessions.Login(ctx, "viewer@example.com", "password-three", "192.0.2.1")
	require.NoError(t, err)

	perm, err := svc.store.Permissions().GetPermissionByCode(ctx, "courses.edit")
	require.NoError(t, err)

	svc.cascade.InvalidateRefreshTokensByPermission(ctx, perm.ID)

	_, err = svc.sessions.Refresh(ctx, editorSession.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.sessions.Refresh(ctx, managerSession.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.sessions.Refresh(ctx, viewerSession.Tokens.RefreshToken)
	require.NoError(t, err)
}

func TestFreshLoginSeesReplacedPermissions(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	roles := &RolesService{Store: svc.store, Cascade: svc.cascade, Audit: svc.audit}

	role := seedRole(t, svc.store, "Editor", "courses.view")
	user := seedUser(t, svc.store, "editor@example.com", "password-one", &role.ID)

	before, err := svc.sessions.Login(ctx, "editor@example.com", "password-one", "192.0.2.1")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"courses.view"}, before.Permissions)

	coursesView, err := svc.store.Permissions().GetPermissionByCode(ctx, "courses.view")
	require.NoError(t, err)
	mediaEdit := domain.Permission{ID: idx.New().String(), Code: "media.edit"}
	require.NoError(t, svc.store.Permissions().CreatePermission(ctx, mediaEdit))

	require.NoError(t, roles.ReplacePermissions(ctx, role.ID, []string{coursesView.ID, mediaEdit.ID}, user.ID))

	// The old session's refresh token died with the replacement
	_, err = svc.sessions.Refresh(ctx, before.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	// A fresh login resolves the new set
	after, err := svc.sessions.Login(ctx, "editor@example.com", "password-one", "192.0.2.1")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"courses.view", "media.edit"}, after.Permissions)
}
