// Package httputil centralizes JSON responses and the uniform error
// envelope. Every rejection in the pipeline funnels through WriteError so
// the envelope shape exists in exactly one place.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"workaccess/pkg/apperrors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into the uniform envelope:
//
//	{ "error": <name>, "code": <machine code>, "message": <text>,
//	  "path": <path>, "method": <method>, ...meta }
//
// Unknown error types become a 500 INTERNAL without leaking detail.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := apperrors.CodeInternal
	message := "internal server error"
	var meta map[string]any

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		code = appErr.Code
		status = apperrors.ToHTTPStatus(code)
		message = appErr.Message
		meta = appErr.Meta
	}

	body := map[string]any{
		"error":   apperrors.StatusName(status),
		"code":    string(code),
		"message": message,
		"path":    r.URL.Path,
		"method":  r.Method,
	}
	for k, v := range meta {
		body[k] = v
	}
	WriteJSON(w, status, body)
}
