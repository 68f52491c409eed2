package service

import (
	"context"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/idx"
)

// PermissionsService manages the permission catalog. Editing or deleting a
// permission changes the effective grants of every role referencing it, so
// both mutations fan the revocation cascade out across those roles.
type PermissionsService struct {
	Store   store.Store
	Cascade *CascadeService
	Audit   *AuditService
}

func (s *PermissionsService) List(ctx context.Context) ([]domain.Permission, error) {
	return s.Store.Permissions().ListPermissions(ctx)
}

func (s *PermissionsService) Get(ctx context.Context, id string) (domain.Permission, error) {
	return s.Store.Permissions().GetPermissionByID(ctx, id)
}

func (s *PermissionsService) Create(ctx context.Context, code, description string, actorID string) (domain.Permission, error) {
	perm := domain.Permission{
		ID:          idx.New().String(),
		Code:        code,
		Description: description,
	}
	if err := s.Store.Permissions().CreatePermission(ctx, perm); err != nil {
		return domain.Permission{}, err
	}

	s.Audit.Record(ctx, domain.AuditLog{
		UserID:     &actorID,
		Action:     "permissions.create",
		Resource:   "permission",
		ResourceID: perm.ID,
		Status:     domain.AuditStatusSuccess,
	})
	return perm, nil
}

// Update edits a permission's code or description, then invalidates the
// refresh tokens of every role granting it. Renaming a code is effectively a
// grant change for those roles.
func (s *PermissionsService) Update(ctx context.Context, id, code, description string, actorID string) (domain.Permission, error) {
	if _, err := s.Store.Permissions().GetPermissionByID(ctx, id); err != nil {
		return domain.Permission{}, err
	}

	if err := s.Store.Permissions().UpdatePermission(ctx, id, code, description); err != nil {
		return domain.Permission{}, err
	}

	s.Cascade.InvalidateRefreshTokensByPermission(ctx, id)

	s.Audit.Record(ctx, domain.AuditLog{
		UserID:     &actorID,
		Action:     "permissions.update",
		Resource:   "permission",
		ResourceID: id,
		Status:     domain.AuditStatusSuccess,
	})
	return s.Store.Permissions().GetPermissionByID(ctx, id)
}

// Delete removes a permission from the catalog. The cascade must resolve the
// affected roles before the row (and its joins) disappear, so it runs first.
func (s *PermissionsService) Delete(ctx context.Context, id string, actorID string) error {
	if _, err := s.Store.Permissions().GetPermissionByID(ctx, id); err != nil {
		return err
	}

	s.Cascade.InvalidateRefreshTokensByPermission(ctx, id)

	if err := s.Store.Permissions().DeletePermission(ctx, id); err != nil {
		return err
	}

	s.Audit.Record(ctx, domain.AuditLog{
		UserID:     &actorID,
		Action:     "permissions.delete",
		Resource:   "permission",
		ResourceID: id,
		Status:     domain.AuditStatusSuccess,
	})
	return nil
}
