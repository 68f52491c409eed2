package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/cryptox"
	"github.com/lumenlms/backoffice/pkg/slogx"
)

// Session is what a successful authentication returns: tokens plus the
// profile with the role and permission snapshot resolved at issue time.
type Session struct {
	Tokens      domain.TokenPair
	User        domain.User
	Role        *domain.Role
	Permissions []string
}

// SessionService is the login state machine. Password logins and provider
// logins both terminate in IssueSessionFor, so lockout bookkeeping and the
// revocation cascade never special-case the credential source.
type SessionService struct {
	Store   store.Store
	Lockout *LockoutPolicy
	Tokens  *TokenService
	Audit   *AuditService
}

// Login authenticates an email/password pair from the given source IP.
//
// Order matters: the lockout gate runs before any credential work so a
// locked account leaks nothing about whether the password would have been
// correct. Unknown email and wrong password take the same rejection path;
// only the audit trail records which it was.
func (s *SessionService) Login(ctx context.Context, email, password, ip string) (Session, error) {
	lock, err := s.Lockout.IsLocked(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if lock.Locked {
		s.Audit.Record(ctx, domain.AuditLog{
			Action:   "auth.login",
			Resource: "session",
			Status:   domain.AuditStatusError,
			ErrorMsg: fmt.Sprintf("account locked, %d minutes remaining", lock.RemainingMinutes),
			IP:       ip,
		})
		return Session{}, &AccountLockedError{RemainingMinutes: lock.RemainingMinutes}
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, s.rejectCredentials(ctx, email, ip, "unknown email")
		}
		return Session{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return Session{}, s.rejectCredentials(ctx, email, ip, "invalid password")
	}

	if err := s.Lockout.RecordAttempt(ctx, email, ip, true); err != nil {
		slogx.FromContext(ctx).Warn("failed to record successful login attempt", "err", err)
	}

	session, err := s.IssueSessionFor(ctx, user)
	if err != nil {
		return Session{}, err
	}

	s.Audit.Record(ctx, domain.AuditLog{
		UserID:   &user.ID,
		Action:   "auth.login",
		Resource: "session",
		Status:   domain.AuditStatusSuccess,
		IP:       ip,
	})
	return session, nil
}

// rejectCredentials records the failed attempt and audit entry, then
// returns the undifferentiated credentials error. reason feeds only the
// audit trail, never the client.
func (s *SessionService) rejectCredentials(ctx context.Context, email, ip, reason string) error {
	if err := s.Lockout.RecordAttempt(ctx, email, ip, false); err != nil {
		slogx.FromContext(ctx).Warn("failed to record login attempt", "err", err)
	}
	s.Audit.Record(ctx, domain.AuditLog{
		Action:   "auth.login",
		Resource: "session",
		Status:   domain.AuditStatusError,
		ErrorMsg: reason,
		IP:       ip,
	})
	return ErrInvalidCredentials
}

// IssueSessionFor is the shared terminal step: mint the pair, persist the
// refresh record and resolve the role snapshot for the response body.
func (s *SessionService) IssueSessionFor(ctx context.Context, user domain.User) (Session, error) {
	pair, err := s.Tokens.IssuePair(ctx, user)
	if err != nil {
		return Session{}, err
	}

	session := Session{Tokens: pair, User: user}
	if user.RoleID != nil {
		role, err := s.Store.Roles().GetRoleByID(ctx, *user.RoleID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return Session{}, err
		}
		if err == nil {
			session.Role = &role
			codes, err := s.Store.Permissions().ListPermissionCodesForRole(ctx, role.ID)
			if err != nil {
				return Session{}, err
			}
			session.Permissions = codes
		}
	}
	return session, nil
}

// Refresh rotates a refresh token: the old record is revoked and a fresh
// pair is issued against the user's current role. A token revoked by the
// cascade fails here, forcing a real re-login.
func (s *SessionService) Refresh(ctx context.Context, raw string) (Session, error) {
	record, err := s.Tokens.VerifyRefresh(ctx, raw)
	if err != nil {
		return Session{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidToken
		}
		return Session{}, err
	}

	if err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, record.ID); err != nil {
		return Session{}, err
	}
	return s.IssueSessionFor(ctx, user)
}

// Logout revokes the presented refresh token. Already-revoked and unknown
// tokens succeed; logout is idempotent.
func (s *SessionService) Logout(ctx context.Context, raw string) error {
	return s.Tokens.RevokeRefresh(ctx, raw)
}
