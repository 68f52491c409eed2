// Package backofficesdk holds the wire types for the back office HTTP API
// and a small Go client for them. The server handlers and the client share
// these structs so the two cannot drift.
package backofficesdk

import "time"

// LoginRequest is the password login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token being rotated.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest carries the refresh token being revoked.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// SessionResponse is returned by login, the OAuth callback exchange and
// refresh. ExpiresIn is the access token lifetime in seconds.
type SessionResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresIn    int64     `json:"expiresIn"`
	User         UserInfo  `json:"user"`
	Role         *RoleInfo `json:"role,omitempty"`
	Permissions  []string  `json:"permissions"`
}

// UserInfo is the public view of a user record.
type UserInfo struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName,omitempty"`
	Image         string    `json:"image,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// MeResponse is the authenticated caller's own profile.
type MeResponse struct {
	User        UserInfo  `json:"user"`
	Role        *RoleInfo `json:"role,omitempty"`
	Permissions []string  `json:"permissions"`
}

// RoleInfo is the public view of a role.
type RoleInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsSystem    bool      `json:"isSystem"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListRolesResponse wraps the role collection.
type ListRolesResponse struct {
	Roles []RoleInfo `json:"roles"`
}

// RoleRequest creates or updates a role.
type RoleRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=64"`
	Description string `json:"description" validate:"max=255"`
}

// ReplaceRolePermissionsRequest swaps a role's permission set wholesale.
type ReplaceRolePermissionsRequest struct {
	PermissionIDs []string `json:"permissionIds" validate:"required"`
}

// ReplaceRolePermissionsResponse confirms the swap. Message tells clients
// that affected users must re-authenticate to pick up the new set.
type ReplaceRolePermissionsResponse struct {
	Role    RoleInfo         `json:"role"`
	Granted []PermissionInfo `json:"granted"`
	Message string           `json:"message"`
}

// PermissionInfo is the public view of a catalog entry.
type PermissionInfo struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListPermissionsResponse wraps the permission catalog.
type ListPermissionsResponse struct {
	Permissions []PermissionInfo `json:"permissions"`
}

// PermissionRequest creates or updates a catalog entry.
type PermissionRequest struct {
	Code        string `json:"code" validate:"required,min=2,max=64"`
	Description string `json:"description" validate:"max=255"`
}

// PermissionUpdateResponse returns the updated catalog entry plus the note
// that affected users must re-authenticate.
type PermissionUpdateResponse struct {
	Permission PermissionInfo `json:"permission"`
	Message    string         `json:"message"`
}

// ChangePasswordRequest rotates the caller's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,max=128"`
}

// AssignRoleRequest moves a user onto a role. A null roleId clears it.
type AssignRoleRequest struct {
	RoleID *string `json:"roleId"`
}

// MessageResponse is a bare confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// SecuritySettings is the security policy document as served and accepted
// by /v1/settings/security.
type SecuritySettings struct {
	PasswordMinLength        int  `json:"passwordMinLength" validate:"required,min=4,max=128"`
	PasswordRequireUppercase bool `json:"passwordRequireUppercase"`
	PasswordRequireLowercase bool `json:"passwordRequireLowercase"`
	PasswordRequireNumber    bool `json:"passwordRequireNumber"`
	PasswordRequireSpecial   bool `json:"passwordRequireSpecial"`
	SessionTimeoutMinutes    int  `json:"sessionTimeout" validate:"required,min=1"`
	MaxLoginAttempts         int  `json:"maxLoginAttempts" validate:"required,min=1"`
	LockoutDurationMinutes   int  `json:"lockoutDuration" validate:"required,min=1"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

// ErrorResponse is the stable error envelope every endpoint uses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
