package ratelimit

import (
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// A short grace keeps the burst assertions fast: an exhausted window rejects
// immediately instead of waiting out the boundary.
func newTestLimiter(permits int) *Limiter {
	return NewLimiter(logs.GetLoggerFromLevel(slog.LevelError), permits, 5*time.Millisecond)
}

func TestLimiter_ReferenceConfigurationRejectsTheEleventh(t *testing.T) {
	req := require.New(t)
	limiter := NewLimiter(logs.GetLoggerFromLevel(slog.LevelError), DefaultPermitsPerSecond, DefaultGraceWait)

	// When one user fires 11 messages inside one second
	rejected := 0
	for i := 0; i < 11; i++ {
		if !limiter.TryAcquire("zoe") {
			rejected++
		}
	}

	// Then at least one of them is rejected: the window does not refill
	// gradually, and the grace wait is shorter than the time to the next
	// window boundary.
	req.GreaterOrEqual(rejected, 1)
}

func TestLimiter_AllowsTheConfiguredBurst(t *testing.T) {
	req := require.New(t)
	limiter := newTestLimiter(10)

	for i := 0; i < 10; i++ {
		req.True(limiter.TryAcquire("zoe"), "permit %d should be granted", i+1)
	}

	// The eleventh permit is rejected: the grace cannot reach the boundary
	req.False(limiter.TryAcquire("zoe"))
}

func TestLimiter_WindowsArePerUser(t *testing.T) {
	req := require.New(t)
	limiter := newTestLimiter(2)

	req.True(limiter.TryAcquire("zoe"))
	req.True(limiter.TryAcquire("zoe"))
	req.False(limiter.TryAcquire("zoe"))

	// Yann's window is untouched by Zoe's exhaustion
	req.True(limiter.TryAcquire("yann"))
}

func TestLimiter_ReleaseResetsTheWindow(t *testing.T) {
	req := require.New(t)
	limiter := newTestLimiter(2)

	req.True(limiter.TryAcquire("zoe"))
	req.True(limiter.TryAcquire("zoe"))
	req.False(limiter.TryAcquire("zoe"))

	// Session teardown discards the window; reconnecting starts full
	limiter.Release("zoe")
	req.True(limiter.TryAcquire("zoe"))
	req.True(limiter.TryAcquire("zoe"))
}

func TestLimiter_GraceWaitRecoversASinglePermit(t *testing.T) {
	req := require.New(t)
	// One permit per second with a generous grace: an exhausted window plus
	// a grace spanning the boundary lets exactly one more request through.
	limiter := NewLimiter(logs.GetLoggerFromLevel(slog.LevelError), 1, 1200*time.Millisecond)

	req.True(limiter.TryAcquire("zoe"))
	req.True(limiter.TryAcquire("zoe"))
}
