package domain

import (
	"time"

	"github.com/google/uuid"
)

type RoomMessageType string

const (
	RoomMessageText   RoomMessageType = "TEXT"
	RoomMessageImage  RoomMessageType = "IMAGE"
	RoomMessageFile   RoomMessageType = "FILE"
	RoomMessageSystem RoomMessageType = "SYSTEM"
)

// RoomMessage is one entry of a multi-party room history.
type RoomMessage struct {
	ID        string          `json:"id"`
	Sender    string          `json:"sender"`
	Content   string          `json:"content"`
	Timestamp int64           `json:"timestamp"`
	RoomID    string          `json:"roomId"`
	Type      RoomMessageType `json:"type"`
}

func NewRoomMessage(sender, content, roomID string) RoomMessage {
	return RoomMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
		RoomID:    roomID,
		Type:      RoomMessageText,
	}
}

// RoomState holds the active participants and message history of one named
// room. Rooms are retained after the last participant leaves; there is no
// automatic reclamation.
type RoomState struct {
	Participants map[string]UserSession
	Messages     []RoomMessage
}

func NewRoomState() *RoomState {
	return &RoomState{Participants: make(map[string]UserSession)}
}
