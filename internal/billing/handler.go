package billing

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"workaccess/internal/audit"
	"workaccess/internal/company"
	"workaccess/internal/ledger"
	"workaccess/pkg/apperrors"
	"workaccess/pkg/platform/httputil"
	"workaccess/pkg/requestcontext"
)

const (
	defaultPlan    = "basic"
	defaultDays    = 30
	maxDays        = 3650
	manualProvider = "manual"
)

// Handler serves the subscription status and the manual activation flow.
type Handler struct {
	companies *company.Service
	audit     *audit.Service
	logger    *slog.Logger
}

func NewHandler(companies *company.Service, auditSvc *audit.Service, logger *slog.Logger) *Handler {
	return &Handler{companies: companies, audit: auditSvc, logger: logger}
}

// Register mounts the tenant-scoped billing endpoints. The caller applies
// role gating on the mutating routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/billing/status", h.status)
}

// RegisterManagement mounts the manager-only mutations.
func (h *Handler) RegisterManagement(r chi.Router) {
	r.Post("/billing/activate", h.activate)
	r.Post("/billing/cancel", h.cancel)
}

type trialView struct {
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
	Expired bool   `json:"expired"`
}

type subscriptionView struct {
	Status          string `json:"status"`
	Plan            string `json:"plan,omitempty"`
	PaymentProvider string `json:"paymentProvider,omitempty"`
	Start           string `json:"start,omitempty"`
	End             string `json:"end,omitempty"`
	Active          bool   `json:"active"`
	Expired         bool   `json:"expired"`
}

type statusView struct {
	CompanyID    string           `json:"companyId"`
	Trial        trialView        `json:"trial"`
	Subscription subscriptionView `json:"subscription"`
	IsLocked     bool             `json:"isLocked"`
}

func makeStatusView(p company.Profile, now time.Time) statusView {
	active := p.SubscriptionActiveAt(now)
	return statusView{
		CompanyID: p.CompanyID,
		Trial: trialView{
			Start:   p.TrialStart,
			End:     p.TrialEnd,
			Expired: p.TrialExpiredAt(now),
		},
		Subscription: subscriptionView{
			Status:          p.SubscriptionStatus,
			Plan:            p.Plan,
			PaymentProvider: p.PaymentProvider,
			Start:           p.SubscriptionStart,
			End:             p.SubscriptionEnd,
			Active:          active,
			Expired:         p.SubscriptionEnd != "" && !active,
		},
		IsLocked: p.LockedAt(now),
	}
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	auth := requestcontext.Auth(r.Context())
	profile, err := h.companies.Profile(r.Context(), auth.CompanyID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, makeStatusView(profile, requestcontext.Now(r.Context())))
}

type activateRequest struct {
	Plan     string `json:"plan"`
	Days     int    `json:"days"`
	Until    string `json:"until"`
	Provider string `json:"provider"`
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, r, apperrors.New(apperrors.CodeValidation, "invalid JSON body"))
			return
		}
	}

	plan := strings.TrimSpace(req.Plan)
	if plan == "" {
		plan = defaultPlan
	}
	provider := strings.TrimSpace(req.Provider)
	if provider == "" {
		provider = manualProvider
	}

	now := requestcontext.Now(r.Context())
	var end string
	switch {
	case strings.TrimSpace(req.Until) != "":
		until, err := time.Parse(time.RFC3339, strings.TrimSpace(req.Until))
		if err != nil {
			httputil.WriteError(w, r, apperrors.New(apperrors.CodeValidation, "invalid until date"))
			return
		}
		end = ledger.Timestamp(until)
	default:
		days := req.Days
		if days == 0 {
			days = defaultDays
		}
		if days < 1 || days > maxDays {
			httputil.WriteError(w, r, apperrors.New(apperrors.CodeValidation, "days out of range"))
			return
		}
		end = ledger.Timestamp(now.Add(time.Duration(days) * 24 * time.Hour))
	}

	auth := requestcontext.Auth(r.Context())
	before, after, err := h.companies.Mutate(r.Context(), auth.CompanyID, func(p *company.Profile) {
		p.SubscriptionStatus = company.SubscriptionActive
		p.Plan = plan
		p.PaymentProvider = provider
		p.SubscriptionStart = ledger.Timestamp(now)
		p.SubscriptionEnd = end
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	h.appendAudit(r, "billing.activate", before, after)
	h.logger.Info("subscription activated",
		"company_id", auth.CompanyID, "plan", plan, "subscription_end", end)
	httputil.WriteJSON(w, http.StatusOK, makeStatusView(after, now))
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	now := requestcontext.Now(r.Context())
	auth := requestcontext.Auth(r.Context())

	before, after, err := h.companies.Mutate(r.Context(), auth.CompanyID, func(p *company.Profile) {
		p.SubscriptionStatus = company.SubscriptionCanceled
		p.SubscriptionEnd = ledger.Timestamp(now)
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	h.appendAudit(r, "billing.cancel", before, after)
	h.logger.Info("subscription canceled", "company_id", auth.CompanyID)
	httputil.WriteJSON(w, http.StatusOK, makeStatusView(after, now))
}

// subscriptionSnapshot trims the profile down to the billing fields so the
// audit trail does not duplicate the whole company record.
func subscriptionSnapshot(p company.Profile) map[string]any {
	return map[string]any{
		"subscriptionStatus": p.SubscriptionStatus,
		"plan":               p.Plan,
		"paymentProvider":    p.PaymentProvider,
		"subscriptionStart":  p.SubscriptionStart,
		"subscriptionEnd":    p.SubscriptionEnd,
	}
}

func (h *Handler) appendAudit(r *http.Request, action string, before, after company.Profile) {
	auth := requestcontext.Auth(r.Context())
	if _, err := h.audit.Append(r.Context(), audit.Record{
		CompanyID:  auth.CompanyID,
		ActorRole:  string(auth.Role),
		Action:     action,
		EntityType: "subscription",
		EntityID:   auth.CompanyID,
		Before:     subscriptionSnapshot(before),
		After:      subscriptionSnapshot(after),
	}); err != nil {
		h.logger.Error("audit append failed", "action", action, "error", err)
	}
}
