package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/baharkarakas/unitrack/internal/api/httpx"
	"github.com/baharkarakas/unitrack/internal/apperr"
)

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slog.ErrorContext(r.Context(), "panic",
					"err", rec, "stack", string(debug.Stack()))
				httpx.WriteError(w, http.StatusInternalServerError, string(apperr.CodeInternal), "internal error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
