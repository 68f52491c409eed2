package domain

import (
	"fmt"
	"time"
	"unicode"
)

// SecuritySettings is the runtime security policy. It is stored as a single
// settings document and fetched per operation so edits take effect without a
// restart.
type SecuritySettings struct {
	PasswordMinLength        int  `json:"passwordMinLength"`
	PasswordRequireUppercase bool `json:"passwordRequireUppercase"`
	PasswordRequireLowercase bool `json:"passwordRequireLowercase"`
	PasswordRequireNumber    bool `json:"passwordRequireNumber"`
	PasswordRequireSpecial   bool `json:"passwordRequireSpecial"`
	SessionTimeoutMinutes    int  `json:"sessionTimeout"`    // access token TTL
	MaxLoginAttempts         int  `json:"maxLoginAttempts"`  // lockout threshold
	LockoutDurationMinutes   int  `json:"lockoutDuration"`   // lockout window
}

// DefaultSecuritySettings returns the hard-coded fallbacks used when the
// settings document is absent or partially filled.
func DefaultSecuritySettings() SecuritySettings {
	return SecuritySettings{
		PasswordMinLength:        8,
		PasswordRequireUppercase: true,
		PasswordRequireLowercase: true,
		PasswordRequireNumber:    true,
		PasswordRequireSpecial:   false,
		SessionTimeoutMinutes:    60,
		MaxLoginAttempts:         5,
		LockoutDurationMinutes:   15,
	}
}

// SessionTimeout returns the access token lifetime.
func (s SecuritySettings) SessionTimeout() time.Duration {
	return time.Duration(s.SessionTimeoutMinutes) * time.Minute
}

// LockoutWindow returns the sliding window over which failed attempts count.
func (s SecuritySettings) LockoutWindow() time.Duration {
	return time.Duration(s.LockoutDurationMinutes) * time.Minute
}

// CheckPassword verifies pw against the policy. The returned error names
// the first unmet requirement and is safe to show to the user.
func (s SecuritySettings) CheckPassword(pw string) error {
	if len(pw) < s.PasswordMinLength {
		return fmt.Errorf("password must be at least %d characters", s.PasswordMinLength)
	}

	var upper, lower, number, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			number = true
		default:
			special = true
		}
	}

	switch {
	case s.PasswordRequireUppercase && !upper:
		return fmt.Errorf("password must contain an uppercase letter")
	case s.PasswordRequireLowercase && !lower:
		return fmt.Errorf("password must contain a lowercase letter")
	case s.PasswordRequireNumber && !number:
		return fmt.Errorf("password must contain a number")
	case s.PasswordRequireSpecial && !special:
		return fmt.Errorf("password must contain a special character")
	}
	return nil
}
