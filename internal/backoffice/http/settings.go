package http

import (
	"net/http"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/service"
	"github.com/lumenlms/backoffice/pkg/backofficesdk"
	"github.com/lumenlms/backoffice/pkg/httpx"
)

// SettingsHandler serves the security settings document. Writes take effect
// on the next login or token issue; nothing caches the policy.
type SettingsHandler struct {
	Settings *service.SettingsService
	Audit    *service.AuditService
}

func (h *SettingsHandler) HandleGetSecurity(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Security(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSecuritySettings(settings))
}

func (h *SettingsHandler) HandlePutSecurity(w http.ResponseWriter, r *http.Request) {
	var req backofficesdk.SecuritySettings
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	settings := domain.SecuritySettings{
		PasswordMinLength:        req.PasswordMinLength,
		PasswordRequireUppercase: req.PasswordRequireUppercase,
		PasswordRequireLowercase: req.PasswordRequireLowercase,
		PasswordRequireNumber:    req.PasswordRequireNumber,
		PasswordRequireSpecial:   req.PasswordRequireSpecial,
		SessionTimeoutMinutes:    req.SessionTimeoutMinutes,
		MaxLoginAttempts:         req.MaxLoginAttempts,
		LockoutDurationMinutes:   req.LockoutDurationMinutes,
	}
	if err := h.Settings.UpdateSecurity(r.Context(), settings); err != nil {
		writeServiceError(w, r, err)
		return
	}

	actor := actorID(r)
	h.Audit.Record(r.Context(), domain.AuditLog{
		UserID:     &actor,
		Action:     "settings.security.update",
		Resource:   "settings",
		ResourceID: service.SettingKeySecurity,
		Status:     domain.AuditStatusSuccess,
	})
	httpx.WriteJSON(w, http.StatusOK, req)
}

func toSecuritySettings(s domain.SecuritySettings) backofficesdk.SecuritySettings {
	return backofficesdk.SecuritySettings{
		PasswordMinLength:        s.PasswordMinLength,
		PasswordRequireUppercase: s.PasswordRequireUppercase,
		PasswordRequireLowercase: s.PasswordRequireLowercase,
		PasswordRequireNumber:    s.PasswordRequireNumber,
		PasswordRequireSpecial:   s.PasswordRequireSpecial,
		SessionTimeoutMinutes:    s.SessionTimeoutMinutes,
		MaxLoginAttempts:         s.MaxLoginAttempts,
		LockoutDurationMinutes:   s.LockoutDurationMinutes,
	}
}
