package memory

import (
	"context"
	"time"

	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

type messagesRepo struct{ s *Store }

func (r *messagesRepo) Create(_ context.Context, m models.ChatMessage) (models.ChatMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[m.ReceiverID]; !ok {
		return models.ChatMessage{}, repo.ErrNotFound
	}
	if m.ID == "" {
		m.ID = newID()
	}
	m.CreatedAt = r.s.stamp()
	r.s.messages[m.ID] = m
	return m, nil
}

func (r *messagesRepo) ListForUser(_ context.Context, userID string) ([]models.ChatMessage, error) {
	return r.filter(func(m models.ChatMessage) bool { return m.Involves(userID) }), nil
}

func (r *messagesRepo) ListBetween(_ context.Context, a, b string) ([]models.ChatMessage, error) {
	return r.filter(func(m models.ChatMessage) bool {
		return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
	}), nil
}

func (r *messagesRepo) MarkRead(_ context.Context, receiverID, senderID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.messages {
		if m.ReceiverID == receiverID && m.SenderID == senderID && !m.Read {
			m.Read = true
			r.s.messages[id] = m
			n++
		}
	}
	return n, nil
}

func (r *messagesRepo) filter(keep func(models.ChatMessage) bool) []models.ChatMessage {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.ChatMessage
	for _, m := range r.s.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	return sortedByCreated(out, func(m models.ChatMessage) time.Time { return m.CreatedAt })
}
