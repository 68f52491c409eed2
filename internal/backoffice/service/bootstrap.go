package service

import (
	"context"
	"errors"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/cryptox"
	"github.com/lumenlms/backoffice/pkg/idx"
	"github.com/lumenlms/backoffice/pkg/slogx"
)

// BootstrapService seeds the data a fresh installation needs before anyone
// can log in: the built-in permission catalog, the Administrator and Member
// roles, and optionally a first administrator account. Seeding is
// idempotent; existing rows are left alone.
type BootstrapService struct {
	Store store.Store

	// AdminEmail/AdminPassword, when both set, create the initial
	// administrator if no users exist yet.
	AdminEmail    string
	AdminPassword string
}

// Run performs all seeding steps. Safe to call on every startup.
func (s *BootstrapService) Run(ctx context.Context) error {
	if err := s.seedPermissions(ctx); err != nil {
		return err
	}
	adminRoleID, err := s.seedRoles(ctx)
	if err != nil {
		return err
	}
	return s.seedAdminUser(ctx, adminRoleID)
}

func (s *BootstrapService) seedPermissions(ctx context.Context) error {
	for code, description := range domain.BuiltinPermissions {
		_, err := s.Store.Permissions().GetPermissionByCode(ctx, code)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		err = s.Store.Permissions().CreatePermission(ctx, domain.Permission{
			ID:          idx.New().String(),
			Code:        code,
			Description: description,
		})
		if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return err
		}
	}
	return nil
}

// seedRoles ensures Administrator (system role, every builtin permission)
// and Member (system role, no permissions) exist, returning the
// Administrator role id.
func (s *BootstrapService) seedRoles(ctx context.Context) (string, error) {
	admin, err := s.ensureRole(ctx, domain.RoleAdministrator, "Full access to the back office")
	if err != nil {
		return "", err
	}

	if _, err := s.ensureRole(ctx, domain.RoleMember, "Default role for provider-created accounts"); err != nil {
		return "", err
	}

	perms, err := s.Store.Permissions().ListPermissions(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Roles().ReplaceRolePermissions(ctx, admin.ID, ids)
	})
	if err != nil {
		return "", err
	}
	return admin.ID, nil
}

func (s *BootstrapService) ensureRole(ctx context.Context, name, description string) (domain.Role, error) {
	role, err := s.Store.Roles().GetRoleByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Role{}, err
	}

	role = domain.Role{
		ID:          idx.New().String(),
		Name:        name,
		Description: description,
		IsSystem:    true,
	}
	if err := s.Store.Roles().CreateRole(ctx, role); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return s.Store.Roles().GetRoleByName(ctx, name)
		}
		return domain.Role{}, err
	}
	return role, nil
}

// seedAdminUser creates the first administrator when the user table is
// empty and credentials were configured. A populated table means the
// installation is past bootstrap and the configured credentials are
// ignored.
func (s *BootstrapService) seedAdminUser(ctx context.Context, adminRoleID string) error {
	if s.AdminEmail == "" || s.AdminPassword == "" {
		return nil
	}

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	hash, err := cryptox.HashPassword(s.AdminPassword)
	if err != nil {
		return err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        s.AdminEmail,
		PasswordHash: hash,
		DisplayName:  "Administrator",
		RoleID:       &adminRoleID,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("seeded initial administrator", "email", s.AdminEmail)
	return nil
}
