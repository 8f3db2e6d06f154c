package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/AJVG007/gestor-tareas/pkg/logger"
)

// Recovery converts a handler panic into a 500 response. The panic value and
// stack go to the request-scoped logger when RequestLogging has installed one,
// so the entry carries the correlation ID; fallback is the given logger.
func Recovery(fallback *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				l := fallback
				if ctxLogger := logger.FromContext(r.Context()); ctxLogger != slog.Default() {
					l = ctxLogger
				}
				l.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"code":    "INTERNAL_ERROR",
					"message": "an internal error occurred",
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
