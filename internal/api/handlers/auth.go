// internal/api/handlers/auth.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/baharkarakas/unitrack/internal/api/httpx"
	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/services"
)

// AuthHandler mirrors the signUp/login mutations for clients that do not
// speak GraphQL.
type AuthHandler struct {
	users *services.UserService
	stats *services.StatsService
}

func NewAuthHandler(users *services.UserService, stats *services.StatsService) *AuthHandler {
	return &AuthHandler{users: users, stats: stats}
}

type signUpReq struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	UniversityID string `json:"universityId"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, string(apperr.CodeValidation), "invalid request body", nil)
		return false
	}
	return true
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpReq
	if !decode(w, r, &req) {
		return
	}
	out, err := h.users.SignUp(r.Context(), services.SignUpInput(req))
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, out)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decode(w, r, &req) {
		return
	}
	out, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())
	u, err := h.users.Me(r.Context(), id)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	if u == nil {
		httpx.WriteAppError(w, r, apperr.Unauthenticated(""))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Dashboard(r.Context())
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}
