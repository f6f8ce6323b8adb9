package poller_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrazmi/taskdeck/infrastructure/poller"
	"github.com/jrazmi/taskdeck/sdk/logger"
)

func quietLogger() *logger.Logger {
	return logger.NewDefault(logger.WithOutput(io.Discard))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestPollerRunsOnTicker(t *testing.T) {
	var runs atomic.Int32

	p := poller.New("ticker-test", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, poller.WithLogger(quietLogger()))

	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, time.Second, func() bool { return runs.Load() >= 3 })
}

func TestPollerStopWaitsForInflightRun(t *testing.T) {
	started := make(chan struct{})
	finished := atomic.Bool{}

	p := poller.New("stop-test", 5*time.Millisecond, func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
		return nil
	}, poller.WithLogger(quietLogger()))

	p.Start(context.Background())
	<-started
	p.Stop()

	if !finished.Load() {
		t.Fatal("Stop returned before the in-flight run completed")
	}
}

func TestPollerKick(t *testing.T) {
	var runs atomic.Int32

	// Interval far beyond the test duration; only Kick can trigger runs.
	p := poller.New("kick-test", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, poller.WithLogger(quietLogger()))

	p.Start(context.Background())
	defer p.Stop()

	p.Kick()
	waitFor(t, time.Second, func() bool { return runs.Load() == 1 })

	p.Kick()
	waitFor(t, time.Second, func() bool { return runs.Load() == 2 })
}

func TestPollerBacksOffAfterError(t *testing.T) {
	var runs atomic.Int32

	p := poller.New("backoff-test", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	},
		poller.WithIdleInterval(time.Hour),
		poller.WithLogger(quietLogger()))

	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, time.Second, func() bool { return runs.Load() == 1 })

	// The next run is scheduled an hour away, so the count must hold.
	time.Sleep(30 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("runs = %d after error, want 1 (idle backoff not applied)", got)
	}
}

func TestPollerRecoversFromPanic(t *testing.T) {
	var runs atomic.Int32

	p := poller.New("panic-test", 5*time.Millisecond, func(ctx context.Context) error {
		if runs.Add(1) == 1 {
			panic("first run panics")
		}
		return nil
	},
		poller.WithIdleInterval(5*time.Millisecond),
		poller.WithLogger(quietLogger()))

	p.Start(context.Background())
	defer p.Stop()

	// The loop must survive the panic and keep running.
	waitFor(t, time.Second, func() bool { return runs.Load() >= 3 })
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := poller.New("idempotent-test", 5*time.Millisecond, func(ctx context.Context) error {
		return nil
	}, poller.WithLogger(quietLogger()))

	p.Start(context.Background())
	p.Stop()
	p.Stop()
}

func TestPollerParentContextCancel(t *testing.T) {
	var runs atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	p := poller.New("ctx-test", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, poller.WithLogger(quietLogger()))

	p.Start(ctx)
	waitFor(t, time.Second, func() bool { return runs.Load() >= 1 })

	cancel()
	time.Sleep(20 * time.Millisecond)
	count := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if got := runs.Load(); got != count {
		t.Fatalf("poller kept running after parent context cancel: %d -> %d", count, got)
	}
}
