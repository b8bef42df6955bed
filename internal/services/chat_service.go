package services

import (
	"context"
	"strings"

	"github.com/baharkarakas/unitrack/internal/api/validate"
	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/metrics"
	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

const maxMessageLen = 4000

// Notifier pushes a stored message to a live connection. It reports whether
// the user was connected.
type Notifier interface {
	Deliver(userID string, m models.ChatMessage) bool
}

type ChatService struct {
	r      repo.Messages
	users  repo.Users
	notify Notifier
}

func NewChatService(r repo.Messages, users repo.Users, notify Notifier) *ChatService {
	return &ChatService{r: r, users: users, notify: notify}
}

// Send persists the message and forwards it to the receiver when online.
// Echoing back to the sender is the caller's concern.
func (s *ChatService) Send(ctx context.Context, senderID, receiverID, content string) (models.ChatMessage, error) {
	receiverID = strings.TrimSpace(receiverID)
	content = strings.TrimSpace(content)
	if err := validate.Collect(
		validate.Required("receiver", receiverID),
		validate.When(receiverID != "" && receiverID == senderID, "receiver", "cannot message yourself"),
		validate.Required("content", content),
		validate.MaxLen("content", content, maxMessageLen),
	); err != nil {
		return models.ChatMessage{}, err
	}
	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		return models.ChatMessage{}, notFound(err, "receiver")
	}

	m, err := s.r.Create(ctx, models.ChatMessage{SenderID: senderID, ReceiverID: receiverID, Content: content})
	if err != nil {
		return models.ChatMessage{}, notFound(err, "receiver")
	}
	metrics.ChatMessagesTotal.Inc()
	if s.notify != nil {
		s.notify.Deliver(receiverID, m)
	}
	return m, nil
}

func (s *ChatService) History(ctx context.Context, userID, otherID string) ([]models.ChatMessage, error) {
	if strings.TrimSpace(otherID) == "" {
		return nil, apperr.Invalid("receiverId: required", validate.Errs{{Field: "receiverId", Msg: "required"}})
	}
	return s.r.ListBetween(ctx, userID, otherID)
}

// Inbox returns every message the user sent or received.
func (s *ChatService) Inbox(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	return s.r.ListForUser(ctx, userID)
}

func (s *ChatService) MarkRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	return s.r.MarkRead(ctx, receiverID, senderID)
}
