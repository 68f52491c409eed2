package http

import (
	"net/http"

	"github.com/lumenlms/backoffice/internal/backoffice/service"
	"github.com/lumenlms/backoffice/pkg/backofficesdk"
	"github.com/lumenlms/backoffice/pkg/httpx"
)

// PermissionsHandler serves the permission catalog. Update and delete both
// ripple out through the revocation cascade.
type PermissionsHandler struct {
	Permissions *service.PermissionsService
}

func (h *PermissionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Permissions.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := backofficesdk.ListPermissionsResponse{
		Permissions: make([]backofficesdk.PermissionInfo, len(perms)),
	}
	for i, p := range perms {
		resp.Permissions[i] = toPermissionInfo(p)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *PermissionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req backofficesdk.PermissionRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	perm, err := h.Permissions.Create(r.Context(), req.Code, req.Description, actorID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPermissionInfo(perm))
}

func (h *PermissionsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req backofficesdk.PermissionRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	perm, err := h.Permissions.Update(r.Context(), r.PathValue("id"), req.Code, req.Description, actorID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, backofficesdk.PermissionUpdateResponse{
		Permission: toPermissionInfo(perm),
		Message:    "permission updated; affected users must sign in again to pick up the change",
	})
}

func (h *PermissionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Permissions.Delete(r.Context(), r.PathValue("id"), actorID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, backofficesdk.MessageResponse{
		Message: "permission deleted; affected users must sign in again to pick up the change",
	})
}
