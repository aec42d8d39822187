// Package apperrors defines the typed error the whole pipeline speaks.
// Gates and services return *Error (optionally wrapped); the transport edge
// translates it into the uniform JSON envelope exactly once.
package apperrors

import "net/http"

// Code enumerates the machine-readable conditions a request can fail with.
type Code string

const (
	// Auth (401)
	CodeTokenInvalid       Code = "TOKEN_INVALID"
	CodeTokenTenantMissing Code = "TOKEN_TENANT_MISSING"
	CodeJWTRequired        Code = "JWT_REQUIRED"
	CodeJWTOnly            Code = "JWT_ONLY"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"

	// Tenant (400)
	CodeTenantMissing Code = "TENANT_MISSING"
	CodeTenantInvalid Code = "TENANT_INVALID"

	// Authorization (403)
	CodeForbidden Code = "FORBIDDEN"

	// Billing (402). Kept in the original's casing because clients match on it.
	CodeTrialExpired Code = "TrialExpired"

	// Generic
	CodeValidation  Code = "VALIDATION"
	CodeNotFound    Code = "NOT_FOUND"
	CodeConflict    Code = "CONFLICT"
	CodeRateLimited Code = "RATE_LIMITED"
	CodeInternal    Code = "INTERNAL"
)

// Error is the domain error carried from gates and services to the HTTP edge.
// Meta holds extra envelope fields (e.g. allowedRoles on FORBIDDEN, trialEnd
// on TrialExpired) that are flattened into the response body.
type Error struct {
	Code    Code
	Message string
	Meta    map[string]any
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New builds an Error with the given code and human-readable message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMeta attaches envelope fields to the error and returns it for chaining.
func (e *Error) WithMeta(meta map[string]any) *Error {
	e.Meta = meta
	return e
}

// ToHTTPStatus maps a code onto the primary status branch of the envelope.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeTokenInvalid, CodeTokenTenantMissing, CodeJWTRequired, CodeJWTOnly, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeTenantMissing, CodeTenantInvalid, CodeValidation:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeTrialExpired:
		return http.StatusPaymentRequired
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// StatusName is the human error name for a status, used as the envelope's
// "error" field so the taxonomy branch is readable without a status table.
func StatusName(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BadRequest"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusPaymentRequired:
		return "PaymentRequired"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "NotFound"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusTooManyRequests:
		return "TooManyRequests"
	default:
		return "InternalError"
	}
}
