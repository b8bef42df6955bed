package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/unitrack/internal/api/httpx"
	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/authz"
	"github.com/baharkarakas/unitrack/internal/models"
)

func whoami(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())
	_, _ = w.Write([]byte(id.UserID))
}

func TestIdentify(t *testing.T) {
	tm := auth.NewTokenManager("secret", "unitrack", time.Hour)
	tok, _, err := tm.Issue("u1", "alice", models.RoleStudent)
	require.NoError(t, err)
	h := Identify(tm)(http.HandlerFunc(whoami))

	cases := map[string]struct {
		header string
		want   string
	}{
		"valid":     {"Bearer " + tok, "u1"},
		"lowercase": {"bearer " + tok, "u1"},
		"none":      {"", ""},
		"garbage":   {"Bearer nope", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, rec.Body.String())
		})
	}
}

func TestRequire(t *testing.T) {
	h := Require(authz.Role(models.RoleAdmin))(http.HandlerFunc(whoami))

	cases := map[string]struct {
		id     *auth.Identity
		status int
		code   string
	}{
		"anonymous": {nil, http.StatusUnauthorized, "UNAUTHENTICATED"},
		"student":   {&auth.Identity{UserID: "s", Role: models.RoleStudent}, http.StatusForbidden, "FORBIDDEN"},
		"admin":     {&auth.Identity{UserID: "a", Role: models.RoleAdmin}, http.StatusOK, ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.id != nil {
				req = req.WithContext(auth.WithIdentity(req.Context(), *tc.id))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.code != "" {
				var body httpx.APIError
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tc.code, body.Code)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(1)(http.HandlerFunc(whoami))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStatusRecorderKeepsStatus(t *testing.T) {
	var rec *statusRecorder
	h := AccessLog(HTTPMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec, _ = w.(*statusRecorder)
		w.WriteHeader(http.StatusTeapot)
	})))
	out := httptest.NewRecorder()
	h.ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NotNil(t, rec)
	assert.Equal(t, http.StatusTeapot, rec.status)
	assert.Equal(t, http.StatusTeapot, out.Code)
}
