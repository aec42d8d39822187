package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"workaccess/internal/platform/config"
	"workaccess/internal/platform/metrics"
	"workaccess/pkg/apperrors"
	"workaccess/pkg/domain"
	"workaccess/pkg/platform/httputil"
	"workaccess/pkg/requestcontext"
)

const bearerPrefix = "Bearer "

// publicRoute matches the unauthenticated surface. Checked before any
// credential requirement so that login itself stays reachable.
func publicRoute(method, path string) bool {
	switch {
	case method == http.MethodGet && path == "/health":
		return true
	case method == http.MethodPost && path == "/auth/login":
		return true
	case method == http.MethodPost && path == "/public/register-company":
		return true
	case method == http.MethodGet && path == "/metrics":
		return true
	}
	return false
}

// Identity is the identity resolver middleware. The decision order is
// load-bearing:
//
//  1. public exemption (anonymous identity, continue regardless of mode)
//  2. bearer token, when present, always wins over demo headers so a client
//     cannot downgrade its own privilege by omitting one
//  3. no token: production rejects outright, JWT_ONLY rejects, demo mode
//     derives identity from x-role / x-company-id
func Identity(cfg config.Config, tokens *TokenService, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if publicRoute(r.Method, r.URL.Path) {
				ctx = requestcontext.WithAuth(ctx, domain.Anonymous())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			reject := func(appErr *apperrors.Error) {
				if m != nil {
					m.AuthFailures.WithLabelValues(string(appErr.Code)).Inc()
				}
				logger.Warn("identity resolution rejected request",
					"code", string(appErr.Code),
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, r, appErr)
			}

			authHeader := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(authHeader, bearerPrefix); ok {
				claims, err := tokens.Verify(token)
				if err != nil {
					var appErr *apperrors.Error
					if e, ok := err.(*apperrors.Error); ok {
						appErr = e
					} else {
						appErr = apperrors.New(apperrors.CodeTokenInvalid, "invalid token")
					}
					reject(appErr)
					return
				}
				ctx = requestcontext.WithAuth(ctx, domain.AuthContext{
					Role:      domain.ParseRole(claims.Role),
					UserID:    claims.Subject,
					CompanyID: claims.CompanyID,
				})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if cfg.Production {
				reject(apperrors.New(apperrors.CodeJWTRequired, "a bearer token is required"))
				return
			}
			if cfg.IsTokenOnly() {
				reject(apperrors.New(apperrors.CodeJWTOnly, "demo headers are disabled, use a bearer token"))
				return
			}

			// Demo mode: identity straight from headers. Tenant presence is
			// deferred to the tenant enforcer.
			ctx = requestcontext.WithAuth(ctx, domain.AuthContext{
				Role:      domain.ParseRole(r.Header.Get("x-role")),
				CompanyID: strings.TrimSpace(r.Header.Get("x-company-id")),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
