package store

import (
	"context"
	"errors"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrConflict      = errors.New("store: conflict")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement this. Sub-repositories keep concerns tidy and
// let tests stub a single area.
type Store interface {
	Users() Users
	Roles() Roles
	Permissions() Permissions
	RefreshTokens() RefreshTokens
	LoginAttempts() LoginAttempts
	AuditLogs() AuditLogs
	Settings() Settings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Preferred over Tx for most callers.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repositories plus
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users manages user records. Every read excludes soft-deleted rows; a
// deleted user is indistinguishable from a missing one.
type Users interface {
	// GetUserByID returns a non-deleted user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a non-deleted user by email. Used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUserRole assigns or clears (nil) the user's role.
	UpdateUserRole(ctx context.Context, userID string, roleID *string) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// SoftDeleteUser sets deleted_at. The row is kept; lookups stop
	// returning it.
	SoftDeleteUser(ctx context.Context, userID string) error

	// CountByRole returns how many non-deleted users reference a role.
	CountByRole(ctx context.Context, roleID string) (int, error)

	// IsEmpty reports whether any non-deleted users exist.
	IsEmpty(ctx context.Context) (bool, error)
}

type Roles interface {
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)
	ListRoles(ctx context.Context) ([]domain.Role, error)

	// CreateRole inserts a new role (id is ULID).
	CreateRole(ctx context.Context, r domain.Role) error

	// UpdateRole renames a role / edits its description.
	UpdateRole(ctx context.Context, roleID, name, description string) error

	// DeleteRole removes a role and its permission joins. Fails with
	// ErrConflict while non-deleted users still reference it.
	DeleteRole(ctx context.Context, roleID string) error

	// ReplaceRolePermissions swaps the role's permission set wholesale.
	// Run inside a transaction so concurrent readers never observe the
	// half-replaced state.
	ReplaceRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error

	// ListRoleIDsWithPermission resolves the distinct roles referencing a
	// permission. Feeds the revocation cascade on permission edits.
	ListRoleIDsWithPermission(ctx context.Context, permissionID string) ([]string, error)
}

type Permissions interface {
	GetPermissionByID(ctx context.Context, id string) (domain.Permission, error)
	GetPermissionByCode(ctx context.Context, code string) (domain.Permission, error)
	ListPermissions(ctx context.Context) ([]domain.Permission, error)
	CreatePermission(ctx context.Context, p domain.Permission) error
	UpdatePermission(ctx context.Context, id, code, description string) error

	// DeletePermission removes the permission and its role joins.
	DeletePermission(ctx context.Context, id string) error

	// ListPermissionCodesForRole returns the codes granted to a role.
	ListPermissionCodesForRole(ctx context.Context, roleID string) ([]string, error)

	// ListPermissionsForRole returns the full permission rows for a role.
	ListPermissionsForRole(ctx context.Context, roleID string) ([]domain.Permission, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the record by its SHA-256 fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken sets revoked_at on a single record. Idempotent.
	RevokeRefreshToken(ctx context.Context, id string) error

	// RevokeRefreshTokensByUser bulk-revokes every live token of one user
	// (password change, account deactivation).
	RevokeRefreshTokensByUser(ctx context.Context, userID string) error

	// RevokeRefreshTokensByRole bulk-revokes every live token belonging to
	// any user holding the role. The revocation cascade's workhorse.
	RevokeRefreshTokensByRole(ctx context.Context, roleID string) error

	// DeleteExpiredRefreshTokens is housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}

type LoginAttempts interface {
	// CreateLoginAttempt appends a row. Rows are never updated.
	CreateLoginAttempt(ctx context.Context, a domain.LoginAttempt) error

	// CountFailedSince counts failed attempts for an email at or after the
	// cutoff.
	CountFailedSince(ctx context.Context, email string, since time.Time) (int, error)

	// LatestFailedAt returns the timestamp of the most recent failed
	// attempt for an email, or ErrNotFound when there is none.
	LatestFailedAt(ctx context.Context, email string) (time.Time, error)

	// DeleteLoginAttemptsBefore prunes rows older than the cutoff.
	DeleteLoginAttemptsBefore(ctx context.Context, cutoff time.Time) error
}

type AuditLogs interface {
	// AppendAuditLog writes one trail entry. Callers treat failures as
	// non-fatal.
	AppendAuditLog(ctx context.Context, e domain.AuditLog) error
}

type Settings interface {
	// GetSetting returns the raw JSON document stored under key.
	GetSetting(ctx context.Context, key string) ([]byte, error)

	// PutSetting upserts the JSON document stored under key.
	PutSetting(ctx context.Context, key string, value []byte) error
}
