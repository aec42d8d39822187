package billing

import (
	"log/slog"
	"net/http"
	"strings"

	"workaccess/internal/company"
	"workaccess/internal/platform/metrics"
	"workaccess/pkg/apperrors"
	"workaccess/pkg/platform/httputil"
	"workaccess/pkg/requestcontext"
)

// guardExemptPrefixes are path prefixes a locked tenant may still reach.
// Billing stays open so an expired tenant can pay its way back in.
var guardExemptPrefixes = []string{
	"/health",
	"/public",
	"/auth",
	"/billing",
	"/metrics",
}

func guardExempt(r *http.Request) bool {
	path := r.URL.Path
	for _, prefix := range guardExemptPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	// Reading the profile is allowed so the UI can show why access stopped.
	if r.Method == http.MethodGet && path == "/company" {
		return true
	}
	return false
}

// Guard blocks every non-exempt route with 402 once the tenant's trial has
// lapsed and no paid subscription covers the request time. Fail closed: a
// profile read error blocks too.
func Guard(profiles *company.Service, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if guardExempt(r) {
				next.ServeHTTP(w, r)
				return
			}

			auth := requestcontext.Auth(r.Context())
			profile, err := profiles.Profile(r.Context(), auth.CompanyID)
			if err != nil {
				logger.Error("trial guard profile read failed",
					"company_id", auth.CompanyID, "error", err)
				httputil.WriteError(w, r, apperrors.New(apperrors.CodeInternal, "subscription check failed"))
				return
			}

			now := requestcontext.Now(r.Context())
			if profile.LockedAt(now) {
				if m != nil {
					m.TrialBlocks.Inc()
				}
				logger.Info("request blocked by trial guard",
					"company_id", auth.CompanyID,
					"path", r.URL.Path,
					"trial_end", profile.TrialEnd,
				)
				httputil.WriteError(w, r, apperrors.New(apperrors.CodeTrialExpired, "trial expired").WithMeta(map[string]any{
					"companyId": auth.CompanyID,
					"trialEnd":  profile.TrialEnd,
				}))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
