package workers

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"

	"beepit/domain"
	"beepit/errors"
)

// ConversationWorker is the single logical owner of all pairwise
// conversation state: the conversation map keyed by sorted-pair id and a
// global message index for flag updates. One request at a time.
type ConversationWorker struct {
	commands      chan domain.ConversationCommand
	conversations map[string]domain.Conversation
	messagesByID  map[string]domain.PrivateMessage
	log           *slog.Logger
}

func NewConversationWorker(commands chan domain.ConversationCommand, log *slog.Logger) *ConversationWorker {
	return &ConversationWorker{
		commands:      commands,
		conversations: make(map[string]domain.Conversation),
		messagesByID:  make(map[string]domain.PrivateMessage),
		log:           log,
	}
}

func (w *ConversationWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping conversation worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				return nil
			}
			w.handle(cmd)
		}
	}
}

func (w *ConversationWorker) handle(cmd domain.ConversationCommand) {
	switch c := cmd.(type) {
	case domain.SendPrivateMessage:
		c.ReplyTo <- w.onSend(c)
	case domain.GetConversation:
		c.ReplyTo <- w.onGetConversation(c)
	case domain.GetUserConversations:
		c.ReplyTo <- w.onGetUserConversations(c)
	case domain.MarkMessageDelivered:
		c.ReplyTo <- w.onMark(c.MessageID, domain.PrivateMessage.WithDelivered)
	case domain.MarkMessageRead:
		c.ReplyTo <- w.onMark(c.MessageID, domain.PrivateMessage.WithRead)
	}
}

// onSend always succeeds: there is deliberately no existence check on the
// sender or recipient id.
func (w *ConversationWorker) onSend(cmd domain.SendPrivateMessage) domain.ConversationResponse {
	message := domain.NewPrivateMessage(cmd.SenderID, cmd.RecipientID, cmd.Content)
	w.messagesByID[message.MessageID] = message

	conversationID := domain.DeriveConversationID(cmd.SenderID, cmd.RecipientID)
	conversation, ok := w.conversations[conversationID]
	if !ok {
		conversation = domain.NewConversation(cmd.SenderID, cmd.RecipientID)
	}
	conversation.Messages = append(conversation.Messages, message)
	conversation.LastMessageAt = time.Now()
	w.conversations[conversationID] = conversation

	return domain.MessageSent{Message: message}
}

// onGetConversation never fails: a missing conversation is created empty and
// persisted before being returned. Safe to repeat.
func (w *ConversationWorker) onGetConversation(cmd domain.GetConversation) domain.ConversationResponse {
	conversationID := domain.DeriveConversationID(cmd.UserID1, cmd.UserID2)
	conversation, ok := w.conversations[conversationID]
	if !ok {
		conversation = domain.NewConversation(cmd.UserID1, cmd.UserID2)
		w.conversations[conversationID] = conversation
	}
	return domain.ConversationFound{Conversation: conversation}
}

func (w *ConversationWorker) onGetUserConversations(cmd domain.GetUserConversations) domain.ConversationResponse {
	conversations := lo.Filter(lo.Values(w.conversations), func(c domain.Conversation, _ int) bool {
		return lo.Contains(c.Participants, cmd.UserID)
	})
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt)
	})
	return domain.ConversationsList{Conversations: conversations}
}

func (w *ConversationWorker) onMark(messageID string, update func(domain.PrivateMessage) domain.PrivateMessage) domain.ConversationResponse {
	message, ok := w.messagesByID[messageID]
	if !ok {
		return domain.ConversationError{Err: errors.ErrMessageNotFound}
	}

	updated := update(message)
	w.messagesByID[messageID] = updated
	w.replaceInConversation(updated)
	return domain.MessageUpdated{MessageID: messageID}
}

// replaceInConversation substitutes the updated record at its original
// position in the parent conversation; the sequence length never changes.
// The sequence is rebuilt rather than written in place: replies handed out
// before the mark keep their snapshot, so callers never observe a mutation.
func (w *ConversationWorker) replaceInConversation(updated domain.PrivateMessage) {
	conversationID := domain.DeriveConversationID(updated.SenderID, updated.RecipientID)
	conversation, ok := w.conversations[conversationID]
	if !ok {
		return
	}
	messages := make([]domain.PrivateMessage, len(conversation.Messages))
	copy(messages, conversation.Messages)
	for i := range messages {
		if messages[i].MessageID == updated.MessageID {
			messages[i] = updated
			break
		}
	}
	conversation.Messages = messages
	w.conversations[conversationID] = conversation
}
