// Package requestid assigns each request a correlation id, reusing an
// inbound X-Request-Id when a proxy already set one.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"workaccess/pkg/requestcontext"
)

const Header = "X-Request-Id"

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
