package company

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workaccess/internal/audit"
	"workaccess/pkg/apperrors"
	"workaccess/pkg/platform/httputil"
	"workaccess/pkg/requestcontext"
)

type Handler struct {
	svc    *Service
	audit  *audit.Service
	logger *slog.Logger
}

func NewHandler(svc *Service, auditSvc *audit.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, audit: auditSvc, logger: logger}
}

// RegisterPublic mounts the unauthenticated registration endpoint.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/public/register-company", h.register)
}

// RegisterRead mounts the profile read every authenticated role may use.
func (h *Handler) RegisterRead(r chi.Router) {
	r.Get("/company", h.get)
}

// RegisterWrite mounts the profile update. The caller applies role gating.
func (h *Handler) RegisterWrite(r chi.Router) {
	r.Put("/company", h.update)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.New(apperrors.CodeValidation, "invalid JSON body"))
		return
	}
	result, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	auth := requestcontext.Auth(r.Context())
	profile, err := h.svc.Profile(r.Context(), auth.CompanyID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

type updateRequest struct {
	Name    *string `json:"name"`
	ICO     *string `json:"ico"`
	DIC     *string `json:"dic"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Zip     *string `json:"zip"`
	Country *string `json:"country"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := requestcontext.Auth(ctx)

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.New(apperrors.CodeValidation, "invalid JSON body"))
		return
	}

	setIf := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	before, after, err := h.svc.Mutate(ctx, auth.CompanyID, func(p *Profile) {
		setIf(&p.Name, req.Name)
		setIf(&p.ICO, req.ICO)
		setIf(&p.DIC, req.DIC)
		setIf(&p.Address, req.Address)
		setIf(&p.City, req.City)
		setIf(&p.Zip, req.Zip)
		setIf(&p.Country, req.Country)
		setIf(&p.Email, req.Email)
		setIf(&p.Phone, req.Phone)
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if _, err := h.audit.Append(ctx, audit.Record{
		CompanyID:  auth.CompanyID,
		ActorRole:  string(auth.Role),
		Action:     "company.update",
		EntityType: "company",
		EntityID:   auth.CompanyID,
		Before:     before,
		After:      after,
	}); err != nil {
		h.logger.Error("audit append failed", "error", err, "action", "company.update")
	}

	httputil.WriteJSON(w, http.StatusOK, after)
}
