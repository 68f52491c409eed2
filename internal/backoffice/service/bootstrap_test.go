package service

import (
	"context"
	"testing"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/stretchr/testify/require"
)

func TestBootstrapSeedsCatalogAndRoles(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	boot := &BootstrapService{Store: st}
	require.NoError(t, boot.Run(ctx))

	perms, err := st.Permissions().ListPermissions(ctx)
	require.NoError(t, err)
	require.Len(t, perms, len(domain.BuiltinPermissions))

	admin, err := st.Roles().GetRoleByName(ctx, domain.RoleAdministrator)
	require.NoError(t, err)
	require.True(t, admin.IsSystem)

	codes, err := st.Permissions().ListPermissionCodesForRole(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, codes, len(domain.BuiltinPermissions))

	member, err := st.Roles().GetRoleByName(ctx, domain.RoleMember)
	require.NoError(t, err)
	require.True(t, member.IsSystem)

	// Idempotent on re-run
	require.NoError(t, boot.Run(ctx))
	perms, err = st.Permissions().ListPermissions(ctx)
	require.NoError(t, err)
	require.Len(t, perms, len(domain.BuiltinPermissions))
}

func TestBootstrapSeedsAdminOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	boot := &BootstrapService{
		Store:         st,
		AdminEmail:    "root@example.com",
		AdminPassword: "initial-password",
	}
	require.NoError(t, boot.Run(ctx))

	admin, err := st.Users().GetUserByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, admin.RoleID)

	role, err := st.Roles().GetRoleByID(ctx, *admin.RoleID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdministrator, role.Name)

	// Second run with different credentials changes nothing; the table is
	// no longer empty
	boot.AdminEmail = "other@example.com"
	require.NoError(t, boot.Run(ctx))
	_, err = st.Users().GetUserByEmail(ctx, "other@example.com")
	require.Error(t, err)
}
