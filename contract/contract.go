//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"beepit/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself; supervision handles panics and restarts.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// avoiding manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// FrameSink is one live session's outbound frame buffer. Push never blocks;
// it reports false when the session buffer is full and the frame is dropped.
type FrameSink interface {
	Push(frame any) bool
}

// IRegistry is the gateway's session routing table. It is a concurrent map,
// not a serialized mailbox: routing churn is high-frequency and independent
// per connection.
type IRegistry interface {
	Register(binding domain.SessionBinding, sink FrameSink)
	Deregister(sessionID string) (domain.SessionBinding, bool)
	SinksForConversation(conversationID string) []FrameSink
	HasSessions(userID string) bool
}

// IRateLimiter is per-user admission control. Windows are created lazily on
// first acquire and discarded entirely on Release.
type IRateLimiter interface {
	TryAcquire(userID string) bool
	Release(userID string)
}
