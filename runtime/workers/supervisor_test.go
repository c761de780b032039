package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// crashingWorker panics on its first runs, then blocks until cancellation.
type crashingWorker struct {
	crashes int32
	runs    atomic.Int32
}

func (w *crashingWorker) Run(ctx context.Context) error {
	run := w.runs.Add(1)
	if run <= w.crashes {
		panic("boom")
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestSupervisor_RestartsAfterPanic(t *testing.T) {
	req := require.New(t)
	sup := NewSupervisor(logs.GetLoggerFromLevel(slog.LevelError), 10*time.Millisecond)
	worker := &crashingWorker{crashes: 2}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sup.Add(worker)
	sup.Run(ctx)

	// Two panics then a stable run
	req.Eventually(func() bool { return worker.runs.Load() == 3 }, time.Second, 5*time.Millisecond)

	sup.Stop()
	req.EqualValues(3, worker.runs.Load())
}

func TestSupervisor_StopWaitsForWorkers(t *testing.T) {
	req := require.New(t)
	sup := NewSupervisor(logs.GetLoggerFromLevel(slog.LevelError), 10*time.Millisecond)
	worker := &crashingWorker{}

	sup.Add(worker)
	sup.Run(context.Background())
	req.Eventually(func() bool { return worker.runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	// Stop cancels the supervised context and blocks until the worker exits
	done := make(chan struct{})
	go func() {
		sup.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
