package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/cryptox"
	"github.com/lumenlms/backoffice/pkg/httpx"
	"github.com/lumenlms/backoffice/pkg/slogx"
)

// Profile is the authenticated caller's own view of their account: user
// record plus the resolved role and permission snapshot.
type Profile struct {
	User        domain.User
	Role        *domain.Role
	Permissions []string
}

// UsersService reads user records and resolves request identities. It
// implements httpx.IdentityResolver; the per-request resolution is what
// makes role and permission edits bite on the very next call.
type UsersService struct {
	Store    store.Store
	Settings *SettingsService
	Audit    *AuditService
	Cascade  *CascadeService
}

// Profile loads the caller's own record with role and permissions attached.
func (s *UsersService) Profile(ctx context.Context, userID string) (Profile, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{User: user}
	if user.RoleID != nil {
		role, err := s.Store.Roles().GetRoleByID(ctx, *user.RoleID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return Profile{}, err
		}
		if err == nil {
			profile.Role = &role
			codes, err := s.Store.Permissions().ListPermissionCodesForRole(ctx, role.ID)
			if err != nil {
				return Profile{}, err
			}
			profile.Permissions = codes
		}
	}
	return profile, nil
}

// ResolveIdentity loads the current identity for a verified token subject.
// Soft-deleted users come back as ErrNotFound from the store, so a deleted
// account fails authentication even while its access token is still
// cryptographically valid.
func (s *UsersService) ResolveIdentity(ctx context.Context, userID string) (httpx.Identity, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return httpx.Identity{}, err
	}

	identity := httpx.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		Permissions: map[string]struct{}{},
	}
	if user.RoleID == nil {
		return identity, nil
	}

	role, err := s.Store.Roles().GetRoleByID(ctx, *user.RoleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return identity, nil
		}
		return httpx.Identity{}, err
	}
	identity.RoleID = role.ID
	identity.RoleName = role.Name

	codes, err := s.Store.Permissions().ListPermissionCodesForRole(ctx, role.ID)
	if err != nil {
		return httpx.Identity{}, err
	}
	for _, code := range codes {
		identity.Permissions[code] = struct{}{}
	}
	return identity, nil
}

// ChangePassword verifies the caller's current password, checks the new one
// against the security policy and swaps the hash. Every live refresh token
// of the user is revoked so a stolen session dies with the old credential.
func (s *UsersService) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(current, user.PasswordHash); err != nil {
		s.Audit.Record(ctx, domain.AuditLog{
			UserID:     &user.ID,
			Action:     "users.password.change",
			Resource:   "user",
			ResourceID: user.ID,
			Status:     domain.AuditStatusError,
			ErrorMsg:   "current password mismatch",
		})
		return ErrInvalidCredentials
	}

	policy, err := s.Settings.Security(ctx)
	if err != nil {
		return err
	}
	if err := policy.CheckPassword(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err)
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	if err := s.Cascade.InvalidateRefreshTokensByUser(ctx, userID); err != nil {
		slogx.FromContext(ctx).Error("cascade: failed to invalidate refresh tokens for user",
			"user_id", userID, "err", err)
	}

	s.Audit.Record(ctx, domain.AuditLog{
		UserID:     &user.ID,
		Action:     "users.password.change",
		Resource:   "user",
		ResourceID: user.ID,
		Status:     domain.AuditStatusSuccess,
	})
	return nil
}

// AssignRole moves a user onto a different role, or clears it when roleID
// is nil. The user's refresh tokens are revoked so the old grant set cannot
// outlive the current access token through refreshes.
func (s *UsersService) AssignRole(ctx context.Context, userID string, roleID *string, actorID string) error {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return err
	}
	if roleID != nil {
		if _, err := s.Store.Roles().GetRoleByID(ctx, *roleID); err != nil {
			return err
		}
	}

	if err := s.Store.Users().UpdateUserRole(ctx, userID, roleID); err != nil {
		return err
	}

	if err := s.Cascade.InvalidateRefreshTokensByUser(ctx, userID); err != nil {
		slogx.FromContext(ctx).Error("cascade: failed to invalidate refresh tokens for user",
			"user_id", userID, "err", err)
	}

	s.Audit.Record(ctx, domain.AuditLog{
		UserID:     &actorID,
		Action:     "users.role.assign",
		Resource:   "user",
		ResourceID: userID,
		Status:     domain.AuditStatusSuccess,
	})
	return nil
}
