package runtime

import (
	"sync"

	"beepit/contract"
	"beepit/domain"
)

type sessionEntry struct {
	binding domain.SessionBinding
	sink    contract.FrameSink
}

type idSet map[string]struct{}

// Registry is the gateway's session routing table. A user may hold many
// simultaneous sessions (several conversations, several devices), so every
// index is multi-valued. Churn is high-frequency and independent per
// connection, so this is a plain RWMutex-guarded map rather than a
// serialized mailbox.
type Registry struct {
	mu             sync.RWMutex
	sessions       map[string]sessionEntry
	byUser         map[string]idSet
	byConversation map[string]idSet
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:       make(map[string]sessionEntry),
		byUser:         make(map[string]idSet),
		byConversation: make(map[string]idSet),
	}
}

// Register indexes a session under its id, its conversation token, and both
// participant user ids, so either side's sessions can be found during
// fan-out and presence checks.
func (r *Registry) Register(binding domain.SessionBinding, sink contract.FrameSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[binding.SessionID] = sessionEntry{binding: binding, sink: sink}
	r.index(r.byConversation, binding.ConversationID, binding.SessionID)
	r.index(r.byUser, binding.UserID, binding.SessionID)
	if binding.OtherUserID != binding.UserID {
		r.index(r.byUser, binding.OtherUserID, binding.SessionID)
	}
}

func (r *Registry) index(m map[string]idSet, key, sessionID string) {
	if _, ok := m[key]; !ok {
		m[key] = make(idSet)
	}
	m[key][sessionID] = struct{}{}
}

// Deregister removes a session from every index, pruning entries that
// become empty so routing tables do not grow with connection churn.
func (r *Registry) Deregister(sessionID string) (domain.SessionBinding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[sessionID]
	if !ok {
		return domain.SessionBinding{}, false
	}
	delete(r.sessions, sessionID)

	binding := entry.binding
	r.unindex(r.byConversation, binding.ConversationID, sessionID)
	r.unindex(r.byUser, binding.UserID, sessionID)
	r.unindex(r.byUser, binding.OtherUserID, sessionID)
	return binding, true
}

func (r *Registry) unindex(m map[string]idSet, key, sessionID string) {
	ids, ok := m[key]
	if !ok {
		return
	}
	delete(ids, sessionID)
	if len(ids) == 0 {
		delete(m, key)
	}
}

// SinksForConversation snapshots the outbound sinks of every session
// currently registered under a conversation token.
func (r *Registry) SinksForConversation(conversationID string) []contract.FrameSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, ok := r.byConversation[conversationID]
	if !ok {
		return nil
	}
	sinks := make([]contract.FrameSink, 0, len(ids))
	for sessionID := range ids {
		if entry, exists := r.sessions[sessionID]; exists {
			sinks = append(sinks, entry.sink)
		}
	}
	return sinks
}

// HasSessions reports whether any live session still references the user,
// as a participant on either side of a conversation.
func (r *Registry) HasSessions(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}
