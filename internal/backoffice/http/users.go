package http

import (
	"net/http"

	"github.com/lumenlms/backoffice/internal/backoffice/service"
	"github.com/lumenlms/backoffice/pkg/backofficesdk"
	"github.com/lumenlms/backoffice/pkg/httpx"
)

// UsersHandler serves administrative operations on other users' accounts.
type UsersHandler struct {
	Users *service.UsersService
}

// HandleAssignRole moves a user onto a role. The user's outstanding refresh
// tokens are revoked, so the response tells the operator what to expect.
func (h *UsersHandler) HandleAssignRole(w http.ResponseWriter, r *http.Request) {
	var req backofficesdk.AssignRoleRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	if err := h.Users.AssignRole(r.Context(), r.PathValue("id"), req.RoleID, actorID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, backofficesdk.MessageResponse{
		Message: "role updated; the user's active sessions are signed out",
	})
}
