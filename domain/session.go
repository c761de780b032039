package domain

import "time"

// UserSession identifies one live connection of a user inside a room.
type UserSession struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	SessionID   string `json:"sessionId"`
	ConnectedAt int64  `json:"connectedAt"`
}

func NewUserSession(userID, username, sessionID string) UserSession {
	return UserSession{
		UserID:      userID,
		Username:    username,
		SessionID:   sessionID,
		ConnectedAt: time.Now().UnixMilli(),
	}
}

// SessionBinding is the gateway-local association between one live
// connection and the conversation it is scoped to. It is created on
// connection open, destroyed on close, and never persisted.
type SessionBinding struct {
	SessionID      string
	UserID         string
	Username       string
	ConversationID string
	OtherUserID    string
}
