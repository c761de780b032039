// Package api is the HTTP façade: each endpoint translates JSON into one
// orchestrator request and renders its response. No business logic lives
// here.
package api

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/lo"

	"beepit/domain"
	"beepit/errors"
	"beepit/runtime"
)

type Server struct {
	log          *slog.Logger
	orchestrator *runtime.Orchestrator
}

func NewServer(log *slog.Logger, orchestrator *runtime.Orchestrator) *Server {
	return &Server{log: log, orchestrator: orchestrator}
}

func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/users", s.handleListUsers)
	mux.HandleFunc("GET /api/auth/contacts/{userId}", s.handleGetContacts)
	mux.HandleFunc("POST /api/auth/contacts/add", s.handleAddContact)
	mux.HandleFunc("GET /api/auth/conversations/{userId}", s.handleGetConversations)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type addContactRequest struct {
	UserID    string `json:"userId"`
	ContactID string `json:"contactId"`
}

type authResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// conversationInfo is the list view of one conversation from the requesting
// user's perspective: counterpart, contact relation, unread count and the
// latest message.
type conversationInfo struct {
	ConversationID string                 `json:"conversationId"`
	OtherUserID    string                 `json:"otherUserId"`
	IsContact      bool                   `json:"isContact"`
	UnreadCount    int                    `json:"unreadCount"`
	LastMessage    *domain.PrivateMessage `json:"lastMessage"`
	LastMessageAt  time.Time              `json:"lastMessageAt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "UP",
		"service": "Beepit Server",
		"version": "1.0.0",
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	user, err := s.orchestrator.RegisterUser(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, authResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Message:  "User registered successfully",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	user, err := s.orchestrator.LoginUser(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, authResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Message:  "Login successful",
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.orchestrator.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.orchestrator.GetContacts(r.Context(), r.PathValue("userId"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, contacts)
}

func (s *Server) handleAddContact(w http.ResponseWriter, r *http.Request) {
	var req addContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.orchestrator.AddContact(r.Context(), req.UserID, req.ContactID); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Contact added successfully"})
}

func (s *Server) handleGetConversations(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	conversations, err := s.orchestrator.GetUserConversations(r.Context(), userID)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	// Anonymous and not-yet-registered participants have no contact list;
	// their conversations still render, just never as contacts.
	contacts, err := s.orchestrator.GetContacts(r.Context(), userID)
	if err != nil && !stderrors.Is(err, errors.ErrUserNotFound) {
		s.writeError(w, statusFor(err), err)
		return
	}
	contactIDs := lo.SliceToMap(contacts, func(c domain.Contact) (string, struct{}) {
		return c.UserID, struct{}{}
	})

	infos := lo.Map(conversations, func(c domain.Conversation, _ int) conversationInfo {
		info := conversationInfo{
			ConversationID: c.ConversationID,
			OtherUserID:    domain.OtherParticipant(c.ConversationID, userID),
			LastMessageAt:  c.LastMessageAt,
		}
		_, info.IsContact = contactIDs[info.OtherUserID]
		for _, message := range c.Messages {
			if message.RecipientID == userID && !message.Read {
				info.UnreadCount++
			}
		}
		if len(c.Messages) > 0 {
			last := c.Messages[len(c.Messages)-1]
			info.LastMessage = &last
		}
		return info
	})
	s.writeJSON(w, http.StatusOK, infos)
}

func statusFor(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrUsernameTaken),
		stderrors.Is(err, errors.ErrAlreadyContact),
		stderrors.Is(err, errors.ErrEmptyContent),
		stderrors.Is(err, errors.ErrContentTooLong):
		return http.StatusBadRequest
	case stderrors.Is(err, errors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case stderrors.Is(err, errors.ErrUserNotFound),
		stderrors.Is(err, errors.ErrMessageNotFound),
		stderrors.Is(err, errors.ErrRoomNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("Response encoding failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
