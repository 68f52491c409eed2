package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
)

// SettingKeySecurity is the settings-table key for the security policy
// document.
const SettingKeySecurity = "security"

// SettingsService reads and writes platform settings. Security settings are
// fetched fresh on every operation that consults them, so an administrator
// edit takes effect immediately without a restart.
type SettingsService struct {
	Store store.Store
}

// Security returns the current security policy, falling back to defaults
// for a missing document and for individual unset fields.
func (s *SettingsService) Security(ctx context.Context) (domain.SecuritySettings, error) {
	defaults := domain.DefaultSecuritySettings()

	raw, err := s.Store.Settings().GetSetting(ctx, SettingKeySecurity)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return defaults, nil
		}
		return defaults, err
	}

	stored := defaults
	if err := json.Unmarshal(raw, &stored); err != nil {
		// A corrupt document must not lock everyone out.
		return defaults, nil
	}

	if stored.PasswordMinLength <= 0 {
		stored.PasswordMinLength = defaults.PasswordMinLength
	}
	if stored.SessionTimeoutMinutes <= 0 {
		stored.SessionTimeoutMinutes = defaults.SessionTimeoutMinutes
	}
	if stored.MaxLoginAttempts <= 0 {
		stored.MaxLoginAttempts = defaults.MaxLoginAttempts
	}
	if stored.LockoutDurationMinutes <= 0 {
		stored.LockoutDurationMinutes = defaults.LockoutDurationMinutes
	}
	return stored, nil
}

// UpdateSecurity replaces the security policy document.
func (s *SettingsService) UpdateSecurity(ctx context.Context, settings domain.SecuritySettings) error {
	if settings.PasswordMinLength <= 0 || settings.SessionTimeoutMinutes <= 0 ||
		settings.MaxLoginAttempts <= 0 || settings.LockoutDurationMinutes <= 0 {
		return fmt.Errorf("security settings values must be positive")
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.Store.Settings().PutSetting(ctx, SettingKeySecurity, raw)
}
