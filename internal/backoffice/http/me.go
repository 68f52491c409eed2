package http

import (
	"net/http"

	"github.com/lumenlms/backoffice/internal/backoffice/service"
	"github.com/lumenlms/backoffice/pkg/backofficesdk"
	"github.com/lumenlms/backoffice/pkg/httpx"
)

// MeHandler serves the authenticated caller's own account: the profile with
// the role and permission set resolved at request time, and password
// changes.
type MeHandler struct {
	Users *service.UsersService
}

func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, backofficesdk.CodeUnauthorized, "authentication required")
		return
	}

	profile, err := h.Users.Profile(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := backofficesdk.MeResponse{
		User:        toUserInfo(profile.User),
		Permissions: profile.Permissions,
	}
	if resp.Permissions == nil {
		resp.Permissions = []string{}
	}
	if profile.Role != nil {
		role := toRoleInfo(*profile.Role)
		resp.Role = &role
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *MeHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, backofficesdk.CodeUnauthorized, "authentication required")
		return
	}

	var req backofficesdk.ChangePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	if err := h.Users.ChangePassword(r.Context(), identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, backofficesdk.MessageResponse{
		Message: "password changed; other sessions are signed out",
	})
}
