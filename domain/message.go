package domain

import (
	"time"

	"github.com/google/uuid"
)

// PrivateMessage is one entry of a pairwise conversation. Records are
// immutable: marking a message delivered or read produces a replacement
// record substituted in place, never an appended duplicate.
type PrivateMessage struct {
	MessageID   string    `json:"messageId"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Delivered   bool      `json:"delivered"`
	Read        bool      `json:"read"`
}

func NewPrivateMessage(senderID, recipientID, content string) PrivateMessage {
	return PrivateMessage{
		MessageID:   uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		Timestamp:   time.Now(),
	}
}

// WithDelivered returns a copy flagged as delivered.
func (m PrivateMessage) WithDelivered() PrivateMessage {
	m.Delivered = true
	return m
}

// WithRead returns a copy flagged as read. Read implies delivered.
func (m PrivateMessage) WithRead() PrivateMessage {
	m.Delivered = true
	m.Read = true
	return m
}
