package domain

import "time"

type User struct {
	ID              string
	Email           string
	PasswordHash    string // argon2id encoded
	DisplayName     string
	Image           string
	RoleID          *string    // Foreign key to roles table, nullable
	EmailVerifiedAt *time.Time // Set at signup confirmation or provider login
	DeletedAt       *time.Time // Soft delete; every lookup excludes set values
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Deleted reports whether the user has been soft-deleted.
func (u User) Deleted() bool { return u.DeletedAt != nil }
