package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/baharkarakas/unitrack/internal/api/httpx"
	"github.com/baharkarakas/unitrack/internal/apperr"
)

const maxBodyBytes = 1 << 20

type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

type Handler struct {
	schema  graphql.Schema
	timeout time.Duration
}

func NewHandler(schema graphql.Schema, timeout time.Duration) *Handler {
	return &Handler{schema: schema, timeout: timeout}
}

// Do runs one request under the handler's timeout.
func (h *Handler) Do(ctx context.Context, req Request) *graphql.Result {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	return graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, string(apperr.CodeValidation), "variables must be a JSON object", nil)
				return
			}
		}
	case http.MethodPost:
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, string(apperr.CodeValidation), "invalid request body", nil)
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		httpx.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
		return
	}
	if req.Query == "" {
		httpx.WriteError(w, http.StatusBadRequest, string(apperr.CodeValidation), "query is required", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, h.Do(r.Context(), req))
}
