package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/herald/pkg/domain/types"
)

// LoggingMiddleware returns a middleware that logs HTTP requests
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := ctxlog.From(ctx)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// errorKind names the error category in responses. The names are part of
// the external contract; callers match on them.
func errorKind(err error) string {
	switch {
	case errors.Is(err, types.ErrUnsupportedEventType):
		return "UnsupportedWebhookEventTypeError"
	case errors.Is(err, types.ErrSchemaViolation):
		return "SchemaViolation"
	case errors.Is(err, types.ErrMissingHeader):
		return "MissingHeader"
	default:
		return "InternalError"
	}
}

// writeError writes an error response. Server-side failures are also
// reported to Sentry when a DSN is configured (no-op otherwise).
func writeError(w http.ResponseWriter, err error, status int) {
	if status >= http.StatusInternalServerError {
		sentry.CaptureException(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if encErr := json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
		"kind":  errorKind(err),
	}); encErr != nil {
		// Can't get context here, so use background context
		ctxlog.From(context.Background()).Error("Failed to encode error response", "error", encErr)
	}
}
