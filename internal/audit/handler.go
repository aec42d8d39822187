package audit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"workaccess/pkg/platform/httputil"
	"workaccess/pkg/requestcontext"
)

// Handler exposes the audit read surface.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts GET /audit. Role gating happens at the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit", h.list)
}

// list handles GET /audit?limit&cursor&actorRole&action&entityType&entityId
// &from&to&format=json|csv. Malformed filter values are ignored rather than
// rejected; the trail must stay readable.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	auth := requestcontext.Auth(r.Context())
	qs := r.URL.Query()

	q := ListQuery{
		Cursor:       qs.Get("cursor"),
		ActorRole:    qs.Get("actorRole"),
		ActionPrefix: qs.Get("action"),
		EntityType:   qs.Get("entityType"),
		EntityID:     qs.Get("entityId"),
	}
	if n, err := strconv.Atoi(qs.Get("limit")); err == nil {
		q.Limit = n
	}
	q.From = parseTimeParam(qs.Get("from"))
	q.To = parseTimeParam(qs.Get("to"))

	page, err := h.svc.List(r.Context(), auth.CompanyID, q)
	if err != nil {
		h.logger.Error("audit list failed", "error", err, "company_id", auth.CompanyID)
		httputil.WriteError(w, r, err)
		return
	}

	if qs.Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="audit.csv"`)
		_, _ = w.Write([]byte(ToCSV(page.Items)))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"companyId":  auth.CompanyID,
		"count":      len(page.Items),
		"items":      page.Items,
		"nextCursor": nullable(page.NextCursor),
	})
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

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
