package domain

import "time"

// Audit entry statuses.
const (
	AuditStatusSuccess = "success"
	AuditStatusError   = "error"
)

// AuditLog is a fire-and-forget trail entry. Writing one must never fail the
// operation that emitted it.
type AuditLog struct {
	ID         string
	UserID     *string // nil for anonymous events such as failed logins
	Action     string  // e.g. "auth.login", "roles.permissions.replace"
	Resource   string
	ResourceID string
	Status     string
	ErrorMsg   string // operator-facing detail; may distinguish failure causes
	IP         string
	CreatedAt  time.Time
}
