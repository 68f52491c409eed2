package backofficesdk

import "fmt"

// Stable error codes returned in ErrorResponse.Code.
const (
	CodeMissingCredentials = "MISSING_CREDENTIALS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeSystemRole         = "SYSTEM_ROLE"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeRoleInUse          = "ROLE_IN_USE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUpstreamProvider   = "UPSTREAM_PROVIDER"
	CodeServerError        = "SERVER_ERROR"
)

// APIError is the client-side representation of an ErrorResponse, carrying
// the HTTP status alongside the envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backoffice api: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Code == code
}
