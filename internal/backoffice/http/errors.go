package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lumenlms/backoffice/internal/backoffice/service"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/backofficesdk"
	"github.com/lumenlms/backoffice/pkg/httpx"
	"github.com/lumenlms/backoffice/pkg/slogx"
)

// writeServiceError maps service-layer errors onto the stable error
// envelope. Anything unmapped becomes a generic 500 with the detail kept in
// the server log only.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var locked *service.AccountLockedError
	switch {
	case errors.As(err, &locked):
		httpx.WriteError(w, http.StatusTooManyRequests, backofficesdk.CodeAccountLocked,
			fmt.Sprintf("account temporarily locked, try again in %d minutes", locked.RemainingMinutes))
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, backofficesdk.CodeInvalidCredentials,
			"invalid email or password")
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteError(w, http.StatusUnauthorized, backofficesdk.CodeInvalidToken,
			"invalid or expired token")
	case errors.Is(err, service.ErrSystemRole):
		httpx.WriteError(w, http.StatusForbidden, backofficesdk.CodeSystemRole,
			"system roles cannot be modified")
	case errors.Is(err, service.ErrWeakPassword):
		httpx.WriteError(w, http.StatusBadRequest, backofficesdk.CodeWeakPassword,
			"new password does not meet the security policy")
	case errors.Is(err, service.ErrRoleInUse):
		httpx.WriteError(w, http.StatusConflict, backofficesdk.CodeRoleInUse,
			"role is still assigned to users")
	case errors.Is(err, service.ErrUpstreamProvider):
		slogx.FromContext(r.Context()).Error("upstream provider failure", "err", err)
		httpx.WriteError(w, http.StatusBadGateway, backofficesdk.CodeUpstreamProvider,
			"identity provider request failed")
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, backofficesdk.CodeNotFound,
			"resource not found")
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, backofficesdk.CodeConflict,
			"resource already exists")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, backofficesdk.CodeServerError,
			"internal server error")
	}
}

// writeBadRequest reports a malformed or invalid request body.
func writeBadRequest(w http.ResponseWriter, message string) {
	httpx.WriteError(w, http.StatusBadRequest, backofficesdk.CodeMissingCredentials, message)
}

// writeInvalidBody reports a malformed non-credential payload.
func writeInvalidBody(w http.ResponseWriter, message string) {
	httpx.WriteError(w, http.StatusBadRequest, "INVALID_BODY", message)
}
