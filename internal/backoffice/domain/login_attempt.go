package domain

import "time"

// LoginAttempt is an append-only record used as a sliding-window counter for
// brute-force lockout. It is not an audit record; rows older than 24 hours
// are pruned opportunistically.
type LoginAttempt struct {
	ID        string
	Email     string
	IP        string
	Success   bool
	CreatedAt time.Time
}

// Lockout is the computed lock state for an email address.
type Lockout struct {
	Locked           bool
	RemainingMinutes int // >= 1 while locked
}
