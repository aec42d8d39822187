package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"workaccess/internal/audit"
	"workaccess/internal/auth"
	"workaccess/internal/billing"
	"workaccess/internal/company"
	"workaccess/internal/items"
	"workaccess/internal/outbox"
	"workaccess/internal/platform/config"
	"workaccess/internal/platform/metrics"
	"workaccess/internal/tenant"
	"workaccess/pkg/apperrors"
	"workaccess/pkg/domain"
	"workaccess/pkg/platform/httputil"
	"workaccess/pkg/platform/middleware/ratelimit"
	"workaccess/pkg/platform/middleware/requestid"
	"workaccess/pkg/platform/middleware/requesttime"
	"workaccess/pkg/platform/middleware/rolegate"
)

// Deps bundles everything the router mounts. All fields are required except
// RateLimit and Gatherer.
type Deps struct {
	Config   config.Config
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	Tokens    *auth.TokenService
	Auth      *auth.Handler
	Companies *company.Service
	Company   *company.Handler
	Billing   *billing.Handler
	Audit     *audit.Handler
	Outbox    *outbox.Handler
	Items     *items.Handler

	RateLimit *ratelimit.Limiter
}

// New assembles the full pipeline. Order is load-bearing: request id and
// clock first so every later stage logs and stamps consistently, rate limit
// before identity so anonymous floods never reach token verification, and
// the tenant and trial gates only inside the protected group.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(statusMetrics(d.Metrics))
	if d.RateLimit != nil {
		r.Use(d.RateLimit.Middleware)
	}
	r.Use(auth.Identity(d.Config, d.Tokens, d.Logger, d.Metrics))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, r, apperrors.New(apperrors.CodeNotFound, "route not found"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"env":    d.Config.Env,
		})
	})

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	d.Auth.Register(r)
	d.Company.RegisterPublic(r)

	// Everything below requires a resolved tenant and an unexpired trial.
	r.Group(func(r chi.Router) {
		r.Use(tenant.Require(d.Logger))
		r.Use(billing.Guard(d.Companies, d.Logger, d.Metrics))

		d.Company.RegisterRead(r)
		d.Billing.Register(r)
		d.Items.RegisterRead(r)

		r.Group(func(r chi.Router) {
			r.Use(rolegate.Require(d.Logger, domain.RoleHR, domain.RoleManager, domain.RoleSecurity))
			d.Audit.Register(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(rolegate.Require(d.Logger, domain.RoleHR, domain.RoleManager))
			d.Outbox.Register(r)
			d.Company.RegisterWrite(r)
			d.Items.RegisterWrite(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(rolegate.Require(d.Logger, domain.RoleManager))
			d.Billing.RegisterManagement(r)
		})
	})

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func statusMetrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			if m != nil {
				m.RequestsTotal.WithLabelValues(strconv.Itoa(rec.status)).Inc()
			}
		})
	}
}
