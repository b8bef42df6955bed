package chat

import "github.com/baharkarakas/unitrack/internal/models"

const (
	FrameInit        = "INIT"
	FrameSendMessage = "SEND_MESSAGE"
	FrameNewMessage  = "NEW_MESSAGE"
	FrameError       = "ERROR"
)

type inboundFrame struct {
	Type     string `json:"type"`
	Receiver string `json:"receiver"`
	Content  string `json:"content"`
}

type initFrame struct {
	Type     string               `json:"type"`
	Messages []models.ChatMessage `json:"messages"`
}

type messageFrame struct {
	Type    string             `json:"type"`
	Message models.ChatMessage `json:"message"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
