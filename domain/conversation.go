package domain

import (
	"strings"
	"time"
)

// conversationSeparator joins the two participant ids of a conversation
// identifier. Clients rebuild the same token by sorting their own pair.
const conversationSeparator = "_"

// DeriveConversationID computes the identifier of the conversation between
// two users. The pair is sorted before joining, so the result is the same
// regardless of which participant initiates.
func DeriveConversationID(userID1, userID2 string) string {
	if userID2 < userID1 {
		userID1, userID2 = userID2, userID1
	}
	return userID1 + conversationSeparator + userID2
}

// OtherParticipant resolves the counterpart of userID inside a conversation
// token. When userID is not one of the two sides, the first side is returned,
// mirroring how an unknown caller is treated on connection open.
func OtherParticipant(conversationID, userID string) string {
	participants := strings.SplitN(conversationID, conversationSeparator, 2)
	if len(participants) < 2 {
		return conversationID
	}
	if participants[0] == userID {
		return participants[1]
	}
	return participants[0]
}

// Conversation is the ordered message history between exactly two users.
// The message sequence is append-only: flag updates replace an entry in
// place by id, entries are never reordered or deleted.
type Conversation struct {
	ConversationID string           `json:"conversationId"`
	Participants   []string         `json:"participants"`
	Messages       []PrivateMessage `json:"messages"`
	CreatedAt      time.Time        `json:"createdAt"`
	LastMessageAt  time.Time        `json:"lastMessageAt"`
}

func NewConversation(userID1, userID2 string) Conversation {
	now := time.Now()
	return Conversation{
		ConversationID: DeriveConversationID(userID1, userID2),
		Participants:   []string{userID1, userID2},
		Messages:       nil,
		CreatedAt:      now,
		LastMessageAt:  now,
	}
}
