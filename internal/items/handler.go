package items

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

// RegisterRead mounts the read-only routes every authenticated role may use.
func (h *Handler) RegisterRead(r chi.Router) {
	r.Get("/items", h.list)
	r.Get("/items/{id}", h.get)
}

// RegisterWrite mounts the mutating routes. The caller applies role gating.
func (h *Handler) RegisterWrite(r chi.Router) {
	r.Post("/items", h.create)
	r.Put("/items/{id}", h.update)
	r.Delete("/items/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	auth := requestcontext.Auth(r.Context())
	list, err := h.svc.List(r.Context(), auth.CompanyID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"companyId": auth.CompanyID,
		"count":     len(list),
		"items":     list,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	auth := requestcontext.Auth(r.Context())
	item, err := h.svc.Get(r.Context(), auth.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, r, apperrors.New(apperrors.CodeValidation, "invalid JSON body"))
		return
	}

	auth := requestcontext.Auth(r.Context())
	item, err := h.svc.Create(r.Context(), auth.CompanyID, in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	h.appendAudit(r, "item.create", item.ID, nil, item)
	httputil.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, r, apperrors.New(apperrors.CodeValidation, "invalid JSON body"))
		return
	}

	auth := requestcontext.Auth(r.Context())
	id := chi.URLParam(r, "id")
	before, after, err := h.svc.Update(r.Context(), auth.CompanyID, id, in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	h.appendAudit(r, "item.update", id, before, after)
	httputil.WriteJSON(w, http.StatusOK, after)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	auth := requestcontext.Auth(r.Context())
	id := chi.URLParam(r, "id")
	removed, err := h.svc.Delete(r.Context(), auth.CompanyID, id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	h.appendAudit(r, "item.delete", id, removed, nil)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (h *Handler) appendAudit(r *http.Request, action, id string, before, after any) {
	auth := requestcontext.Auth(r.Context())
	if _, err := h.audit.Append(r.Context(), audit.Record{
		CompanyID:  auth.CompanyID,
		ActorRole:  string(auth.Role),
		Action:     action,
		EntityType: "item",
		EntityID:   id,
		Before:     before,
		After:      after,
	}); err != nil {
		h.logger.Error("audit append failed", "action", action, "error", err)
	}
}
