package service

import (
	"context"
	"sync"

	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/slogx"
)

// CascadeService invalidates outstanding refresh tokens when a role's
// effective permission set changes. Users keep their live access tokens
// until those expire on their own; what the cascade removes is the ability
// to refresh into a stale permission set indefinitely.
type CascadeService struct {
	Store store.Store
}

// InvalidateRefreshTokensByRole revokes every live refresh token belonging
// to users holding the role.
func (s *CascadeService) InvalidateRefreshTokensByRole(ctx context.Context, roleID string) error {
	return s.Store.RefreshTokens().RevokeRefreshTokensByRole(ctx, roleID)
}

// InvalidateRefreshTokensByUser revokes every live refresh token of one
// user. Password changes and role reassignment both funnel through here.
func (s *CascadeService) InvalidateRefreshTokensByUser(ctx context.Context, userID string) error {
	return s.Store.RefreshTokens().RevokeRefreshTokensByUser(ctx, userID)
}

// InvalidateRefreshTokensByPermission resolves the distinct roles
// referencing the permission and invalidates each one independently. A
// failure on one role is logged and skipped; the permission mutation that
// triggered the cascade must not roll back because session cleanup
// partially failed. All per-role calls complete before this returns.
func (s *CascadeService) InvalidateRefreshTokensByPermission(ctx context.Context, permissionID string) {
	log := slogx.FromContext(ctx)

	roleIDs, err := s.Store.Roles().ListRoleIDsWithPermission(ctx, permissionID)
	if err != nil {
		log.Error("cascade: failed to resolve roles for permission",
			"permission_id", permissionID, "err", err)
		return
	}
	if len(roleIDs) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, roleID := range roleIDs {
		wg.Add(1)
		go func(roleID string) {
			defer wg.Done()
			if err := s.InvalidateRefreshTokensByRole(ctx, roleID); err != nil {
				log.Error("cascade: failed to invalidate refresh tokens for role",
					"role_id", roleID, "permission_id", permissionID, "err", err)
			}
		}(roleID)
	}
	wg.Wait()
}
