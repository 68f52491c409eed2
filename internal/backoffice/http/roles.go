package http

import (
	"net/http"

	"github.com/lumenlms/backoffice/internal/backoffice/service"
	"github.com/lumenlms/backoffice/pkg/backofficesdk"
	"github.com/lumenlms/backoffice/pkg/httpx"
)

// RolesHandler serves role CRUD and the permission replacement endpoint.
type RolesHandler struct {
	Roles *service.RolesService
}

func (h *RolesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Roles.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := backofficesdk.ListRolesResponse{Roles: make([]backofficesdk.RoleInfo, len(roles))}
	for i, role := range roles {
		resp.Roles[i] = toRoleInfo(role)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *RolesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	role, err := h.Roles.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRoleInfo(role))
}

func (h *RolesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req backofficesdk.RoleRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	role, err := h.Roles.Create(r.Context(), req.Name, req.Description, actorID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toRoleInfo(role))
}

func (h *RolesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req backofficesdk.RoleRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	role, err := h.Roles.Update(r.Context(), r.PathValue("id"), req.Name, req.Description, actorID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRoleInfo(role))
}

func (h *RolesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Roles.Delete(r.Context(), r.PathValue("id"), actorID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReplacePermissions swaps the role's permission set and invalidates
// the role's outstanding refresh tokens. The response message spells out
// that affected users must re-authenticate.
func (h *RolesHandler) HandleReplacePermissions(w http.ResponseWriter, r *http.Request) {
	var req backofficesdk.ReplaceRolePermissionsRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	roleID := r.PathValue("id")
	if err := h.Roles.ReplacePermissions(r.Context(), roleID, req.PermissionIDs, actorID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	role, err := h.Roles.Get(r.Context(), roleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	perms, err := h.Roles.Permissions(r.Context(), roleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := backofficesdk.ReplaceRolePermissionsResponse{
		Role:    toRoleInfo(role),
		Granted: make([]backofficesdk.PermissionInfo, len(perms)),
		Message: "permissions replaced; affected users must sign in again to pick up the new set",
	}
	for i, p := range perms {
		resp.Granted[i] = toPermissionInfo(p)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// actorID returns the authenticated caller's user id for audit entries.
func actorID(r *http.Request) string {
	identity, _ := httpx.IdentityFromContext(r.Context())
	return identity.UserID
}
