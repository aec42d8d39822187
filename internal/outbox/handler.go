package outbox

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"workaccess/pkg/platform/httputil"
	"workaccess/pkg/requestcontext"
)

type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/outbox", h.list)
}

// list handles GET /outbox?limit&cursor&to&documentId&from&toDate.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	auth := requestcontext.Auth(r.Context())
	qs := r.URL.Query()

	q := ListQuery{
		Cursor:     qs.Get("cursor"),
		To:         qs.Get("to"),
		DocumentID: qs.Get("documentId"),
	}
	if n, err := strconv.Atoi(qs.Get("limit")); err == nil {
		q.Limit = n
	}
	q.From = parseTimeParam(qs.Get("from"))
	q.ToDate = parseTimeParam(qs.Get("toDate"))

	page, err := h.svc.List(r.Context(), auth.CompanyID, q)
	if err != nil {
		h.logger.Error("outbox list failed", "error", err, "company_id", auth.CompanyID)
		httputil.WriteError(w, r, err)
		return
	}

	resp := map[string]any{
		"companyId": auth.CompanyID,
		"count":     len(page.Items),
		"items":     page.Items,
	}
	if page.NextCursor != "" {
		resp["nextCursor"] = page.NextCursor
	} else {
		resp["nextCursor"] = nil
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func parseTimeParam(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
