package gateway

import (
	"time"

	"beepit/domain"
)

// InboundFrame is the only payload a client may send: a plain text message
// request. Content is bounded by MaxContentLength.
type InboundFrame struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// HistoryFrame is pushed exactly once, to the newly opened session only,
// immediately after connection open.
type HistoryFrame struct {
	Type     string                  `json:"type"`
	Messages []domain.PrivateMessage `json:"messages"`
}

// MessageFrame is fanned out to every session registered under the
// conversation whenever a send succeeds.
type MessageFrame struct {
	Type        string    `json:"type"`
	MessageID   string    `json:"messageId"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
}

// MessageSentFrame acknowledges a send to the originating session only.
type MessageSentFrame struct {
	Type      string `json:"type"`
	MessageID string `json:"messageId"`
}

type ErrorFrame struct {
	Error string `json:"error"`
}

func newHistoryFrame(messages []domain.PrivateMessage) HistoryFrame {
	if messages == nil {
		messages = []domain.PrivateMessage{}
	}
	return HistoryFrame{Type: "history", Messages: messages}
}

func newMessageFrame(message domain.PrivateMessage) MessageFrame {
	return MessageFrame{
		Type:        "message",
		MessageID:   message.MessageID,
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
		Content:     message.Content,
		Timestamp:   message.Timestamp,
	}
}
