package workers

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"beepit/domain"
	"beepit/errors"
)

// RoomWorker is the single logical owner of all named multi-party rooms,
// independent of the pairwise conversation store. Rooms are created on first
// reference and retained after the last leave: there is no automatic
// reclamation, which is an accepted resource-leak risk until an explicit
// teardown policy exists.
type RoomWorker struct {
	commands chan domain.RoomCommand
	rooms    map[string]*domain.RoomState
	log      *slog.Logger
}

func NewRoomWorker(commands chan domain.RoomCommand, log *slog.Logger) *RoomWorker {
	return &RoomWorker{
		commands: commands,
		rooms:    make(map[string]*domain.RoomState),
		log:      log,
	}
}

func (w *RoomWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping room worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				return nil
			}
			w.handle(cmd)
		}
	}
}

func (w *RoomWorker) handle(cmd domain.RoomCommand) {
	switch c := cmd.(type) {
	case domain.JoinRoom:
		c.ReplyTo <- w.onJoin(c)
	case domain.LeaveRoom:
		w.onLeave(c)
	case domain.SendRoomMessage:
		c.ReplyTo <- w.onSend(c)
	case domain.GetRoomParticipants:
		c.ReplyTo <- w.onGetParticipants(c)
	}
}

// onJoin creates the room on first reference. Rejoining replaces the prior
// session binding for that user.
func (w *RoomWorker) onJoin(cmd domain.JoinRoom) domain.RoomResponse {
	room, ok := w.rooms[cmd.RoomID]
	if !ok {
		room = domain.NewRoomState()
		w.rooms[cmd.RoomID] = room
	}
	room.Participants[cmd.Session.UserID] = cmd.Session
	w.log.Info("User joined room", "username", cmd.Session.Username, "roomId", cmd.RoomID)

	return domain.JoinedRoom{RoomID: cmd.RoomID, Participants: lo.Keys(room.Participants)}
}

func (w *RoomWorker) onLeave(cmd domain.LeaveRoom) {
	room, ok := w.rooms[cmd.RoomID]
	if !ok {
		return
	}
	delete(room.Participants, cmd.UserID)
	w.log.Info("User left room", "userId", cmd.UserID, "roomId", cmd.RoomID)
}

func (w *RoomWorker) onSend(cmd domain.SendRoomMessage) domain.RoomResponse {
	room, ok := w.rooms[cmd.Message.RoomID]
	if !ok {
		return domain.RoomError{Err: errors.ErrRoomNotFound}
	}
	room.Messages = append(room.Messages, cmd.Message)
	return domain.RoomMessageSent{MessageID: cmd.Message.ID}
}

func (w *RoomWorker) onGetParticipants(cmd domain.GetRoomParticipants) domain.RoomResponse {
	room, ok := w.rooms[cmd.RoomID]
	if !ok {
		return domain.RoomParticipants{Participants: nil}
	}
	return domain.RoomParticipants{Participants: lo.Values(room.Participants)}
}
