// internal/middleware/auth.go
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/metrics"
)

// Identify attaches the caller's identity when the request carries a valid
// bearer token. It never rejects: a bad token is logged and the request goes
// on anonymously, leaving the decision to authz.
func Identify(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := r.Header.Get("Authorization")
			if ah == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := tm.Verify(ah)
			if err != nil {
				reason := auth.FailureReason(err)
				metrics.TokenFailures.WithLabelValues(reason).Inc()
				slog.InfoContext(r.Context(), "bearer token rejected",
					"reason", reason, "err", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
