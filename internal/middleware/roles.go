package middleware

import (
	"net/http"

	"github.com/baharkarakas/unitrack/internal/api/httpx"
	"github.com/baharkarakas/unitrack/internal/authz"
)

// Require gates a REST route with the same check GraphQL operations use.
func Require(req authz.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := authz.Check(r.Context(), req); err != nil {
				httpx.WriteAppError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
