// Package gateway multiplexes live websocket connections onto the
// single-writer state machines: it resolves session identity from connection
// parameters, replays conversation history on open, rate-limits and forwards
// inbound messages, and fans confirmed messages out to every session
// registered under the conversation.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"beepit/contract"
	"beepit/domain"
	"beepit/errors"
	"beepit/runtime"
)

type Gateway struct {
	log          *slog.Logger
	orchestrator *runtime.Orchestrator
	registry     contract.IRegistry
	limiter      contract.IRateLimiter
	sendBuffer   int
	upgrader     websocket.Upgrader
}

func New(log *slog.Logger, orchestrator *runtime.Orchestrator, registry contract.IRegistry,
	limiter contract.IRateLimiter, sendBuffer int) *Gateway {
	return &Gateway{
		log:          log,
		orchestrator: orchestrator,
		registry:     registry,
		limiter:      limiter,
		sendBuffer:   sendBuffer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (g *Gateway) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/chat/{conversation}", g.handleConnection)
}

// handleConnection owns one live connection from upgrade to close. Reads
// happen on this goroutine; writes go through the session's write pump.
func (g *Gateway) handleConnection(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("conversation")

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	sessionID := uuid.NewString()
	username := r.URL.Query().Get("username")
	if username == "" {
		username = "Anonymous-" + sessionID[:8]
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = username
	}

	binding := domain.SessionBinding{
		SessionID:      sessionID,
		UserID:         userID,
		Username:       username,
		ConversationID: conversationID,
		OtherUserID:    domain.OtherParticipant(conversationID, userID),
	}

	sess := newSession(sessionID, conn, g.sendBuffer, g.log)
	go sess.writePump()
	g.registry.Register(binding, sess)
	g.log.Info("WebSocket opened",
		"conversationId", conversationID, "username", username, "userId", userID, "sessionId", sessionID)

	go g.pushHistory(binding, sess)

	g.readLoop(binding, sess)
	g.cleanup(binding, sess)
}

// pushHistory asks the conversation store for the pair's history and pushes
// a single history frame to the newly opened session only. If the session
// closed before the reply arrived, the response is discarded.
func (g *Gateway) pushHistory(binding domain.SessionBinding, sess *session) {
	conversation, err := g.orchestrator.GetConversation(context.Background(), binding.UserID, binding.OtherUserID)
	if err != nil {
		g.log.Error("Loading conversation history failed",
			"conversationId", binding.ConversationID, "error", err)
		return
	}
	if !sess.Push(newHistoryFrame(conversation.Messages)) {
		g.log.Debug("History dropped, session gone", "sessionId", binding.SessionID)
	}
}

func (g *Gateway) readLoop(binding domain.SessionBinding, sess *session) {
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}
		g.handleInbound(binding, sess, data)
	}
}

func (g *Gateway) handleInbound(binding domain.SessionBinding, sess *session, data []byte) {
	var frame InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		sess.Push(ErrorFrame{Error: "invalid payload"})
		return
	}

	if err := validateContent(frame); err != nil {
		sess.Push(ErrorFrame{Error: err.Error()})
		return
	}

	if !g.limiter.TryAcquire(binding.UserID) {
		sess.Push(ErrorFrame{Error: errors.ErrRateLimited.Error()})
		return
	}

	message, err := g.orchestrator.SendPrivateMessage(
		context.Background(), binding.UserID, binding.OtherUserID, frame.Content)
	if err != nil {
		sess.Push(ErrorFrame{Error: err.Error()})
		return
	}

	g.broadcast(binding.ConversationID, message)
	sess.Push(MessageSentFrame{Type: "message_sent", MessageID: message.MessageID})
}

// broadcast delivers a stored message to every session registered under the
// conversation. Store and broadcast are two independent steps with no
// atomicity guarantee; a message stored with nobody left to notify is logged
// rather than masked.
func (g *Gateway) broadcast(conversationID string, message domain.PrivateMessage) {
	sinks := g.registry.SinksForConversation(conversationID)
	if len(sinks) == 0 {
		g.log.Warn("Message stored with no live session to notify",
			"conversationId", conversationID, "messageId", message.MessageID)
		return
	}

	frame := newMessageFrame(message)
	for _, sink := range sinks {
		if !sink.Push(frame) {
			g.log.Warn("Session buffer full, dropping frame", "conversationId", conversationID)
		}
	}
}

func (g *Gateway) cleanup(binding domain.SessionBinding, sess *session) {
	g.registry.Deregister(binding.SessionID)
	if !g.registry.HasSessions(binding.UserID) {
		g.limiter.Release(binding.UserID)
	}
	sess.close()
	g.log.Info("WebSocket closed", "conversationId", binding.ConversationID, "sessionId", binding.SessionID)
}
