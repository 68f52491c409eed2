package http

import (
	"net/http"

	"github.com/lumenlms/backoffice/internal/backoffice/service"
	"github.com/lumenlms/backoffice/pkg/backofficesdk"
	"github.com/lumenlms/backoffice/pkg/httpx"
)

// AuthHandler serves the password login, refresh and logout endpoints.
type AuthHandler struct {
	Sessions *service.SessionService
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req backofficesdk.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	session, err := h.Sessions.Login(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req backofficesdk.RefreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	session, err := h.Sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

// HandleLogout revokes the presented refresh token. Unknown or already
// revoked tokens still return 200; there is nothing useful to tell an
// attacker probing token validity through logout.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req backofficesdk.LogoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	if err := h.Sessions.Logout(r.Context(), req.RefreshToken); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
