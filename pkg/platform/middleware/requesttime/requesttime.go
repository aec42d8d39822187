// Package requesttime captures one "now" per request so every decision and
// ledger timestamp within a single request observes the same clock.
package requesttime

import (
	"net/http"
	"time"

	"workaccess/pkg/requestcontext"
)

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
