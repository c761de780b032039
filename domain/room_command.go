package domain

// RoomCommand is the closed request union of the room registry.
type RoomCommand interface {
	roomCommand()
}

// RoomResponse is the closed response union of the room registry.
type RoomResponse interface {
	roomResponse()
}

type JoinRoom struct {
	Session UserSession
	RoomID  string
	ReplyTo chan RoomResponse
}

// LeaveRoom is fire-and-forget: removing an absent participant is a no-op.
type LeaveRoom struct {
	UserID string
	RoomID string
}

type SendRoomMessage struct {
	Message RoomMessage
	ReplyTo chan RoomResponse
}

type GetRoomParticipants struct {
	RoomID  string
	ReplyTo chan RoomResponse
}

func (JoinRoom) roomCommand()            {}
func (LeaveRoom) roomCommand()           {}
func (SendRoomMessage) roomCommand()     {}
func (GetRoomParticipants) roomCommand() {}

type JoinedRoom struct {
	RoomID       string
	Participants []string
}

type RoomMessageSent struct {
	MessageID string
}

type RoomParticipants struct {
	Participants []UserSession
}

type RoomError struct {
	Err error
}

func (JoinedRoom) roomResponse()       {}
func (RoomMessageSent) roomResponse()  {}
func (RoomParticipants) roomResponse() {}
func (RoomError) roomResponse()        {}
