// Package runtime wires the single-writer state machines together: it owns
// their mailboxes, exposes ask-style request/response accessors with bounded
// timeouts, and holds the gateway session registry. It contains no business
// rules of its own.
package runtime

import (
	"context"
	"log/slog"
	"time"

	"beepit/contract"
	"beepit/domain"
	"beepit/errors"
	"beepit/runtime/workers"
)

// Per-operation ask timeouts. A timeout surfaces as ErrTimeout and is never
// retried silently: the underlying mutation may or may not have applied.
const (
	readTimeout  = 2 * time.Second
	writeTimeout = 3 * time.Second
	listTimeout  = 5 * time.Second
)

// Orchestrator owns the command mailboxes of the three state machines.
// Each mailbox is drained by exactly one worker goroutine, so every state
// machine processes one request at a time in arrival order.
type Orchestrator struct {
	log                  *slog.Logger
	supervisor           contract.ISupervisor
	directoryCommands    chan domain.DirectoryCommand
	conversationCommands chan domain.ConversationCommand
	roomCommands         chan domain.RoomCommand
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, bufferSize int) *Orchestrator {
	return &Orchestrator{
		log:                  log,
		supervisor:           supervisor,
		directoryCommands:    make(chan domain.DirectoryCommand, bufferSize),
		conversationCommands: make(chan domain.ConversationCommand, bufferSize),
		roomCommands:         make(chan domain.RoomCommand, bufferSize),
	}
}

// Start registers the three state-machine workers with the supervisor and
// launches them. It returns once the workers are running.
func (o *Orchestrator) Start(ctx context.Context) {
	o.supervisor.Add(
		workers.NewDirectoryWorker(o.directoryCommands, o.log),
		workers.NewConversationWorker(o.conversationCommands, o.log),
		workers.NewRoomWorker(o.roomCommands, o.log),
	)
	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
}

func (o *Orchestrator) Stop() {
	o.supervisor.Stop()
}

// askDirectory submits a command and waits for its reply within timeout.
// Reply channels are buffered (capacity 1), so a worker replying after the
// caller gave up never blocks.
func (o *Orchestrator) askDirectory(ctx context.Context, cmd domain.DirectoryCommand,
	reply chan domain.DirectoryResponse, timeout time.Duration) (domain.DirectoryResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case o.directoryCommands <- cmd:
	case <-ctx.Done():
		return nil, errors.ErrTimeout
	}
	select {
	case resp := <-reply:
		return resp, nil
	case <-ctx.Done():
		return nil, errors.ErrTimeout
	}
}

func (o *Orchestrator) askConversation(ctx context.Context, cmd domain.ConversationCommand,
	reply chan domain.ConversationResponse, timeout time.Duration) (domain.ConversationResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case o.conversationCommands <- cmd:
	case <-ctx.Done():
		return nil, errors.ErrTimeout
	}
	select {
	case resp := <-reply:
		return resp, nil
	case <-ctx.Done():
		return nil, errors.ErrTimeout
	}
}

func (o *Orchestrator) askRoom(ctx context.Context, cmd domain.RoomCommand,
	reply chan domain.RoomResponse, timeout time.Duration) (domain.RoomResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case o.roomCommands <- cmd:
	case <-ctx.Done():
		return nil, errors.ErrTimeout
	}
	select {
	case resp := <-reply:
		return resp, nil
	case <-ctx.Done():
		return nil, errors.ErrTimeout
	}
}

// --- User directory operations ---

func (o *Orchestrator) RegisterUser(ctx context.Context, username, password string) (domain.AppUser, error) {
	reply := make(chan domain.DirectoryResponse, 1)
	resp, err := o.askDirectory(ctx, domain.RegisterUser{Username: username, Password: password, ReplyTo: reply}, reply, writeTimeout)
	if err != nil {
		return domain.AppUser{}, err
	}
	switch r := resp.(type) {
	case domain.UserRegistered:
		return r.User, nil
	case domain.DirectoryError:
		return domain.AppUser{}, r.Err
	}
	return domain.AppUser{}, errors.ErrTimeout
}

func (o *Orchestrator) LoginUser(ctx context.Context, username, password string) (domain.AppUser, error) {
	reply := make(chan domain.DirectoryResponse, 1)
	resp, err := o.askDirectory(ctx, domain.LoginUser{Username: username, Password: password, ReplyTo: reply}, reply, writeTimeout)
	if err != nil {
		return domain.AppUser{}, err
	}
	switch r := resp.(type) {
	case domain.UserLoggedIn:
		return r.User, nil
	case domain.DirectoryError:
		return domain.AppUser{}, r.Err
	}
	return domain.AppUser{}, errors.ErrTimeout
}

func (o *Orchestrator) GetUser(ctx context.Context, userID string) (domain.AppUser, error) {
	reply := make(chan domain.DirectoryResponse, 1)
	resp, err := o.askDirectory(ctx, domain.GetUser{UserID: userID, ReplyTo: reply}, reply, readTimeout)
	if err != nil {
		return domain.AppUser{}, err
	}
	switch r := resp.(type) {
	case domain.UserFound:
		return r.User, nil
	case domain.DirectoryError:
		return domain.AppUser{}, r.Err
	}
	return domain.AppUser{}, errors.ErrTimeout
}

func (o *Orchestrator) ListUsers(ctx context.Context) ([]domain.AppUser, error) {
	reply := make(chan domain.DirectoryResponse, 1)
	resp, err := o.askDirectory(ctx, domain.GetAllUsers{ReplyTo: reply}, reply, listTimeout)
	if err != nil {
		return nil, err
	}
	if r, ok := resp.(domain.AllUsers); ok {
		return r.Users, nil
	}
	return nil, errors.ErrTimeout
}

func (o *Orchestrator) AddContact(ctx context.Context, userID, contactID string) error {
	reply := make(chan domain.DirectoryResponse, 1)
	resp, err := o.askDirectory(ctx, domain.AddContact{UserID: userID, ContactID: contactID, ReplyTo: reply}, reply, writeTimeout)
	if err != nil {
		return err
	}
	if r, ok := resp.(domain.DirectoryError); ok {
		return r.Err
	}
	return nil
}

func (o *Orchestrator) GetContacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	reply := make(chan domain.DirectoryResponse, 1)
	resp, err := o.askDirectory(ctx, domain.GetContacts{UserID: userID, ReplyTo: reply}, reply, readTimeout)
	if err != nil {
		return nil, err
	}
	switch r := resp.(type) {
	case domain.ContactList:
		return r.Contacts, nil
	case domain.DirectoryError:
		return nil, r.Err
	}
	return nil, errors.ErrTimeout
}

// SetUserOnline is best-effort presence: no reply, dropped with a warning
// when the mailbox is full.
func (o *Orchestrator) SetUserOnline(userID string, online bool) {
	select {
	case o.directoryCommands <- domain.SetUserOnline{UserID: userID, Online: online}:
	default:
		o.log.Warn("Directory mailbox full, dropping presence change", "userId", userID)
	}
}

// --- Conversation store operations ---

func (o *Orchestrator) SendPrivateMessage(ctx context.Context, senderID, recipientID, content string) (domain.PrivateMessage, error) {
	reply := make(chan domain.ConversationResponse, 1)
	resp, err := o.askConversation(ctx, domain.SendPrivateMessage{
		SenderID: senderID, RecipientID: recipientID, Content: content, ReplyTo: reply,
	}, reply, writeTimeout)
	if err != nil {
		return domain.PrivateMessage{}, err
	}
	switch r := resp.(type) {
	case domain.MessageSent:
		return r.Message, nil
	case domain.ConversationError:
		return domain.PrivateMessage{}, r.Err
	}
	return domain.PrivateMessage{}, errors.ErrTimeout
}

func (o *Orchestrator) GetConversation(ctx context.Context, userID1, userID2 string) (domain.Conversation, error) {
	reply := make(chan domain.ConversationResponse, 1)
	resp, err := o.askConversation(ctx, domain.GetConversation{
		UserID1: userID1, UserID2: userID2, ReplyTo: reply,
	}, reply, readTimeout)
	if err != nil {
		return domain.Conversation{}, err
	}
	switch r := resp.(type) {
	case domain.ConversationFound:
		return r.Conversation, nil
	case domain.ConversationError:
		return domain.Conversation{}, r.Err
	}
	return domain.Conversation{}, errors.ErrTimeout
}

func (o *Orchestrator) GetUserConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	reply := make(chan domain.ConversationResponse, 1)
	resp, err := o.askConversation(ctx, domain.GetUserConversations{UserID: userID, ReplyTo: reply}, reply, listTimeout)
	if err != nil {
		return nil, err
	}
	switch r := resp.(type) {
	case domain.ConversationsList:
		return r.Conversations, nil
	case domain.ConversationError:
		return nil, r.Err
	}
	return nil, errors.ErrTimeout
}

func (o *Orchestrator) MarkMessageDelivered(ctx context.Context, messageID string) error {
	reply := make(chan domain.ConversationResponse, 1)
	resp, err := o.askConversation(ctx, domain.MarkMessageDelivered{MessageID: messageID, ReplyTo: reply}, reply, writeTimeout)
	if err != nil {
		return err
	}
	if r, ok := resp.(domain.ConversationError); ok {
		return r.Err
	}
	return nil
}

func (o *Orchestrator) MarkMessageRead(ctx context.Context, messageID string) error {
	reply := make(chan domain.ConversationResponse, 1)
	resp, err := o.askConversation(ctx, domain.MarkMessageRead{MessageID: messageID, ReplyTo: reply}, reply, writeTimeout)
	if err != nil {
		return err
	}
	if r, ok := resp.(domain.ConversationError); ok {
		return r.Err
	}
	return nil
}

// --- Room registry operations ---

func (o *Orchestrator) JoinRoom(ctx context.Context, session domain.UserSession, roomID string) (domain.JoinedRoom, error) {
	reply := make(chan domain.RoomResponse, 1)
	resp, err := o.askRoom(ctx, domain.JoinRoom{Session: session, RoomID: roomID, ReplyTo: reply}, reply, writeTimeout)
	if err != nil {
		return domain.JoinedRoom{}, err
	}
	switch r := resp.(type) {
	case domain.JoinedRoom:
		return r, nil
	case domain.RoomError:
		return domain.JoinedRoom{}, r.Err
	}
	return domain.JoinedRoom{}, errors.ErrTimeout
}

// LeaveRoom is fire-and-forget, like presence changes.
func (o *Orchestrator) LeaveRoom(userID, roomID string) {
	select {
	case o.roomCommands <- domain.LeaveRoom{UserID: userID, RoomID: roomID}:
	default:
		o.log.Warn("Room mailbox full, dropping leave", "userId", userID, "roomId", roomID)
	}
}

func (o *Orchestrator) SendRoomMessage(ctx context.Context, message domain.RoomMessage) (string, error) {
	reply := make(chan domain.RoomResponse, 1)
	resp, err := o.askRoom(ctx, domain.SendRoomMessage{Message: message, ReplyTo: reply}, reply, writeTimeout)
	if err != nil {
		return "", err
	}
	switch r := resp.(type) {
	case domain.RoomMessageSent:
		return r.MessageID, nil
	case domain.RoomError:
		return "", r.Err
	}
	return "", errors.ErrTimeout
}

func (o *Orchestrator) RoomParticipants(ctx context.Context, roomID string) ([]domain.UserSession, error) {
	reply := make(chan domain.RoomResponse, 1)
	resp, err := o.askRoom(ctx, domain.GetRoomParticipants{RoomID: roomID, ReplyTo: reply}, reply, readTimeout)
	if err != nil {
		return nil, err
	}
	switch r := resp.(type) {
	case domain.RoomParticipants:
		return r.Participants, nil
	case domain.RoomError:
		return nil, r.Err
	}
	return nil, errors.ErrTimeout
}
