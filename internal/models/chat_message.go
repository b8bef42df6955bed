package models

import "time"

type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender"`
	ReceiverID string    `json:"receiver"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"timestamp"`
}

// Involves reports whether userID is either end of the message.
func (m ChatMessage) Involves(userID string) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}
