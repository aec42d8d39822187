package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the authorization pipeline.
type Metrics struct {
	RequestsTotal *prometheus.CounterVec
	AuthFailures  *prometheus.CounterVec
	TrialBlocks   prometheus.Counter
	AuditAppends  prometheus.Counter
	RateLimited   prometheus.Counter
}

// New creates and registers all collectors on a fresh registry-free set via
// promauto's default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers collectors on the given registerer. Tests pass their own
// registry so parallel packages do not collide on the default one.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workaccess_http_requests_total",
			Help: "HTTP requests by status code.",
		}, []string{"status"}),
		AuthFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workaccess_auth_failures_total",
			Help: "Rejected requests by machine code.",
		}, []string{"code"}),
		TrialBlocks: factory.NewCounter(prometheus.CounterOpts{
			Name: "workaccess_trial_blocks_total",
			Help: "Requests blocked by the subscription/trial gate.",
		}),
		AuditAppends: factory.NewCounter(prometheus.CounterOpts{
			Name: "workaccess_audit_appends_total",
			Help: "Audit ledger entries appended.",
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "workaccess_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}
}
