package errors

import "fmt"

var (
	ErrUsernameTaken      = fmt.Errorf("username already exists")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrInvalidCredentials = fmt.Errorf("invalid password")
	ErrAlreadyContact     = fmt.Errorf("contact already exists")
	ErrMessageNotFound    = fmt.Errorf("message not found")
	ErrRoomNotFound       = fmt.Errorf("room not found")
	ErrRateLimited        = fmt.Errorf("rate limit exceeded")
	ErrEmptyContent       = fmt.Errorf("message content is empty")
	ErrContentTooLong     = fmt.Errorf("message content too long")
	ErrTimeout            = fmt.Errorf("request timed out")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
)
