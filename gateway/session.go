package gateway

import (
	"log/slog"

	"github.com/gorilla/websocket"
)

// session pairs one live connection with its buffered outbound frame
// channel, drained by a dedicated write pump. Pushing never blocks the
// caller: a full buffer drops the frame.
type session struct {
	id   string
	conn *websocket.Conn
	send chan any
	done chan struct{}
	log  *slog.Logger
}

func newSession(id string, conn *websocket.Conn, bufferSize int, log *slog.Logger) *session {
	return &session{
		id:   id,
		conn: conn,
		send: make(chan any, bufferSize),
		done: make(chan struct{}),
		log:  log,
	}
}

// Push queues a frame for delivery. It reports false when the session is
// closed or its buffer is full.
func (s *session) Push(frame any) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- frame:
		return true
	default:
		return false
	}
}

func (s *session) writePump() {
	for {
		select {
		case <-s.done:
			return
		case frame := <-s.send:
			if err := s.conn.WriteJSON(frame); err != nil {
				s.log.Debug("Write failed, stopping pump", "sessionId", s.id, "error", err)
				return
			}
		}
	}
}

// close stops the write pump and closes the connection. Frames pushed by
// concurrent broadcasts after this point are silently discarded.
func (s *session) close() {
	close(s.done)
	_ = s.conn.Close()
}
