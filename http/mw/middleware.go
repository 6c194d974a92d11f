package mw

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/wkalt/fbc/util/log"
)

// WithRequestID tags the request context with a fresh request ID, which the
// logging package attaches to every line logged under that context.
func WithRequestID(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := uuid.New()
		ctx = log.AddTags(ctx, "request_id", id.String())
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}
