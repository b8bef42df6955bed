package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"golang.org/x/net/websocket"

	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/metrics"
	"github.com/baharkarakas/unitrack/internal/models"
	"github.com/baharkarakas/unitrack/internal/services"
)

const maxDecodeErrorsPerConn = 5

type Handler struct {
	hub     *Hub
	chat    *services.ChatService
	tokens  *auth.TokenManager
	timeout time.Duration
	origins []string
}

// NewHandler serves GET /ws?token=<jwt>. An empty origins list or "*"
// accepts any browser origin.
func NewHandler(hub *Hub, chat *services.ChatService, tokens *auth.TokenManager, timeout time.Duration, origins []string) *Handler {
	return &Handler{hub: hub, chat: chat, tokens: tokens, timeout: timeout, origins: origins}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	websocket.Server{Handshake: h.handshake, Handler: h.serve}.ServeHTTP(w, r)
}

func (h *Handler) handshake(cfg *websocket.Config, r *http.Request) error {
	origin, err := websocket.Origin(cfg, r)
	if err != nil {
		return err
	}
	cfg.Origin = origin
	if origin == nil || len(h.origins) == 0 || slices.Contains(h.origins, "*") || slices.Contains(h.origins, origin.String()) {
		return nil
	}
	return fmt.Errorf("origin %s not allowed", origin)
}

func (h *Handler) serve(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()
	ctx := conn.Request().Context()

	id, err := h.tokens.Verify(conn.Request().URL.Query().Get("token"))
	if err != nil {
		reason := auth.FailureReason(err)
		metrics.TokenFailures.WithLabelValues(reason).Inc()
		slog.InfoContext(ctx, "chat connection rejected", "reason", reason)
		return
	}

	p := newPeer(conn)
	h.hub.register(id.UserID, p)
	metrics.ChatConnections.Inc()
	defer func() {
		h.hub.unregister(id.UserID, p)
		metrics.ChatConnections.Dec()
	}()
	slog.DebugContext(ctx, "chat connected", "user_id", id.UserID)

	if err := h.sendHistory(ctx, id, p); err != nil {
		slog.WarnContext(ctx, "chat init failed", "user_id", id.UserID, "err", err)
		return
	}

	decodeErrors := 0
	for {
		var in inboundFrame
		if err := websocket.JSON.Receive(conn, &in); err != nil {
			if !isDecodeError(err) {
				if !errors.Is(err, io.EOF) {
					slog.DebugContext(ctx, "chat read failed", "user_id", id.UserID, "err", err)
				}
				return
			}
			decodeErrors++
			_ = p.send(errorFrame{Type: FrameError, Error: "invalid frame payload"})
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0
		h.handle(ctx, id, p, in)
	}
}

func (h *Handler) sendHistory(ctx context.Context, id auth.Identity, p *peer) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	history, err := h.chat.Inbox(ctx, id.UserID)
	if err != nil {
		_ = p.send(errorFrame{Type: FrameError, Error: "could not load messages"})
		return err
	}
	if history == nil {
		history = []models.ChatMessage{}
	}
	return p.send(initFrame{Type: FrameInit, Messages: history})
}

func (h *Handler) handle(ctx context.Context, id auth.Identity, p *peer, in inboundFrame) {
	switch in.Type {
	case FrameSendMessage:
		ctx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()
		m, err := h.chat.Send(ctx, id.UserID, in.Receiver, in.Content)
		if err != nil {
			pub, internal := apperr.Public(err)
			if internal {
				slog.ErrorContext(ctx, "chat send failed", "user_id", id.UserID, "err", err)
			}
			_ = p.send(errorFrame{Type: FrameError, Error: pub.Message})
			return
		}
		// echo on the connection that sent it
		_ = p.send(messageFrame{Type: FrameNewMessage, Message: m})
	default:
		_ = p.send(errorFrame{Type: FrameError, Error: "unsupported frame type"})
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
