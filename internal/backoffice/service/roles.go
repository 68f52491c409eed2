package service

import (
	"context"
	"errors"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/idx"
	"github.com/lumenlms/backoffice/pkg/slogx"
)

// RolesService manages roles and their permission assignments. Mutating a
// role's permission set triggers the session revocation cascade for that
// role so nobody refreshes into a stale grant.
type RolesService struct {
	Store   store.Store
	Cascade *CascadeService
	Audit   *AuditService
}

func (s *RolesService) List(ctx context.Context) ([]domain.Role, error) {
	return s.Store.Roles().ListRoles(ctx)
}

func (s *RolesService) Get(ctx context.Context, id string) (domain.Role, error) {
	return s.Store.Roles().GetRoleByID(ctx, id)
}

// Permissions returns the full permission rows granted to a role.
func (s *RolesService) Permissions(ctx context.Context, roleID string) ([]domain.Permission, error) {
	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		return nil, err
	}
	return s.Store.Permissions().ListPermissionsForRole(ctx, roleID)
}

func (s *RolesService) Create(ctx context.Context, name, description string, actorID string) (domain.Role, error) {
	role := domain.Role{
		ID:          idx.New().String(),
		Name:        name,
		Description: description,
	}
	if err := s.Store.Roles().CreateRole(ctx, role); err != nil {
		return domain.Role{}, err
	}

	s.Audit.Record(ctx, domain.AuditLog{
		UserID:     &actorID,
		Action:     "roles.create",
		Resource:   "role",
		ResourceID: role.ID,
		Status:     domain.AuditStatusSuccess,
	})
	return role, nil
}

// Update renames a role or changes its description. System roles reject
// edits.
func (s *RolesService) Update(ctx context.Context, roleID, name, description string, actorID string) (domain.Role, error) {
	role, err := s.Store.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		return domain.Role{}, err
	}
	if role.IsSystem {
		return domain.Role{}, ErrSystemRole
	}

	if err := s.Store.Roles().UpdateRole(ctx, roleID, name, description); err != nil {
		return domain.Role{}, err
	}

	s.Audit.Record(ctx, domain.AuditLog{
		UserID:     &actorID,
		Action:     "roles.update",
		Resource:   "role",
		ResourceID: roleID,
		Status:     domain.AuditStatusSuccess,
	})
	return s.Store.Roles().GetRoleByID(ctx, roleID)
}

// Delete removes a non-system role with no remaining members. Referenced
// roles fail with ErrRoleInUse.
func (s *RolesService) Delete(ctx context.Context, roleID string, actorID string) error {
	role, err := s.Store.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return ErrSystemRole
	}

	count, err := s.Store.Users().CountByRole(ctx, roleID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRoleInUse
	}

	// The store check backstops the count against a concurrent assignment
	if err := s.Store.Roles().DeleteRole(ctx, roleID); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrRoleInUse
		}
		return err
	}

	s.Audit.Record(ctx, domain.AuditLog{
		UserID:     &actorID,
		Action:     "roles.delete",
		Resource:   "role",
		ResourceID: roleID,
		Status:     domain.AuditStatusSuccess,
	})
	return nil
}

// ReplacePermissions swaps a role's permission set wholesale, then
// invalidates the role's outstanding refresh tokens. The swap runs inside a
// transaction; the cascade runs after commit so a rollback never revokes
// sessions for a change that did not land.
func (s *RolesService) ReplacePermissions(ctx context.Context, roleID string, permissionIDs []string, actorID string) error {
	role, err := s.Store.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return ErrSystemRole
	}

	for _, pid := range permissionIDs {
		if _, err := s.Store.Permissions().GetPermissionByID(ctx, pid); err != nil {
			return err
		}
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Roles().ReplaceRolePermissions(ctx, roleID, permissionIDs)
	})
	if err != nil {
		return err
	}

	// The swap already landed; a failing cleanup step must not turn it
	// into a client-visible error
	if err := s.Cascade.InvalidateRefreshTokensByRole(ctx, roleID); err != nil {
		slogx.FromContext(ctx).Error("cascade: failed to invalidate refresh tokens for role",
			"role_id", roleID, "err", err)
	}

	s.Audit.Record(ctx, domain.AuditLog{
		UserID:     &actorID,
		Action:     "roles.permissions.replace",
		Resource:   "role",
		ResourceID: roleID,
		Status:     domain.AuditStatusSuccess,
	})
	return nil
}
