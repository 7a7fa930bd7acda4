package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nikhil/togglenest/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates or assigns a request id and logs each request once.
func RequestID(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), logger.RequestIDKey, id)

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			log.WithContext(ctx).Debug("Request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}
