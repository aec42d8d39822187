package tenant

import (
	"log/slog"
	"net/http"

	"workaccess/pkg/platform/httputil"
	"workaccess/pkg/requestcontext"
)

// Require is the tenant enforcer middleware. It runs right after the
// identity resolver on every non-exempt route and rewrites the request's
// AuthContext with the sanitized company id, so no downstream component ever
// observes an unsanitized one.
func Require(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			auth := requestcontext.Auth(ctx)

			sanitized, appErr := Sanitize(auth.CompanyID)
			if appErr != nil {
				logger.Warn("tenant check rejected request",
					"code", string(appErr.Code),
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, r, appErr)
				return
			}

			auth.CompanyID = sanitized
			next.ServeHTTP(w, r.WithContext(requestcontext.WithAuth(ctx, auth)))
		})
	}
}
