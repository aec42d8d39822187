package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workaccess/pkg/apperrors"
	"workaccess/pkg/platform/httputil"
	"workaccess/pkg/requestcontext"
)

// Handler exposes the auth endpoints: login (public) and me (token holders).
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.login)
	r.Get("/auth/me", h.me)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.New(apperrors.CodeValidation, "invalid JSON body"))
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

// me echoes the verified identity. Demo-header identities have no user id,
// so this endpoint effectively requires a real token.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	auth := requestcontext.Auth(r.Context())
	if auth.UserID == "" {
		httputil.WriteError(w, r, apperrors.New(apperrors.CodeJWTRequired, "a bearer token is required"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{
			"id":        auth.UserID,
			"role":      string(auth.Role),
			"companyId": auth.CompanyID,
		},
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
