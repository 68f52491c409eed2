package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases must stay indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrInvalidToken covers expired, forged and revoked tokens alike.
	ErrInvalidToken = errors.New("invalid_token")

	// ErrSystemRole rejects edits and deletes of platform-seeded roles.
	ErrSystemRole = errors.New("system_role_immutable")

	// ErrRoleInUse rejects deleting a role that users still hold.
	ErrRoleInUse = errors.New("role_in_use")

	// ErrUpstreamProvider wraps OAuth exchange and userinfo failures.
	ErrUpstreamProvider = errors.New("upstream_provider_error")

	// ErrWeakPassword rejects a new password that fails the security
	// policy. The wrapped detail names the first unmet requirement.
	ErrWeakPassword = errors.New("weak_password")
)

// AccountLockedError is returned while the brute-force lockout window is
// active. RemainingMinutes is always >= 1.
type AccountLockedError struct {
	RemainingMinutes int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %d minutes", e.RemainingMinutes)
}
