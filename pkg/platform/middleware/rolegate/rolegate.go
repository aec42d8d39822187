// Package rolegate provides the per-route role authorization predicate.
// Routes declare their allowed-role set at registration time; the gate never
// consults business data.
package rolegate

import (
	"log/slog"
	"net/http"

	"workaccess/pkg/apperrors"
	"workaccess/pkg/domain"
	"workaccess/pkg/platform/httputil"
	"workaccess/pkg/requestcontext"
)

// Require passes the request through when its resolved role is in allowed,
// and rejects with 403 otherwise. The response names the attempted role and
// the allowed set for diagnosability; it grants nothing.
func Require(logger *slog.Logger, allowed ...domain.Role) func(http.Handler) http.Handler {
	allowedSet := make(map[domain.Role]bool, len(allowed))
	allowedNames := make([]string, 0, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = true
		allowedNames = append(allowedNames, string(role))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := requestcontext.Auth(r.Context()).Role
			if allowedSet[role] {
				next.ServeHTTP(w, r)
				return
			}

			logger.Warn("role gate rejected request",
				"role", string(role),
				"path", r.URL.Path,
				"request_id", requestcontext.RequestID(r.Context()),
			)
			appErr := apperrors.New(apperrors.CodeForbidden,
				"role '"+string(role)+"' is not permitted for this action").
				WithMeta(map[string]any{
					"role":         string(role),
					"allowedRoles": allowedNames,
				})
			httputil.WriteError(w, r, appErr)
		})
	}
}
