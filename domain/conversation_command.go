package domain

// ConversationCommand is the closed request union of the conversation store.
type ConversationCommand interface {
	conversationCommand()
}

// ConversationResponse is the closed response union of the conversation store.
type ConversationResponse interface {
	conversationResponse()
}

type SendPrivateMessage struct {
	SenderID    string
	RecipientID string
	Content     string
	ReplyTo     chan ConversationResponse
}

type GetConversation struct {
	UserID1 string
	UserID2 string
	ReplyTo chan ConversationResponse
}

type GetUserConversations struct {
	UserID  string
	ReplyTo chan ConversationResponse
}

type MarkMessageDelivered struct {
	MessageID string
	ReplyTo   chan ConversationResponse
}

type MarkMessageRead struct {
	MessageID string
	ReplyTo   chan ConversationResponse
}

func (SendPrivateMessage) conversationCommand()   {}
func (GetConversation) conversationCommand()      {}
func (GetUserConversations) conversationCommand() {}
func (MarkMessageDelivered) conversationCommand() {}
func (MarkMessageRead) conversationCommand()      {}

type MessageSent struct {
	Message PrivateMessage
}

type ConversationFound struct {
	Conversation Conversation
}

type ConversationsList struct {
	Conversations []Conversation
}

type MessageUpdated struct {
	MessageID string
}

type ConversationError struct {
	Err error
}

func (MessageSent) conversationResponse()       {}
func (ConversationFound) conversationResponse() {}
func (ConversationsList) conversationResponse() {}
func (MessageUpdated) conversationResponse()    {}
func (ConversationError) conversationResponse() {}
