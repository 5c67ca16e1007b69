package converge

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPoll_ReadyFirstCall(t *testing.T) {
	calls := 0
	probe := func(context.Context) Result {
		calls++
		return Ready("up")
	}

	start := time.Now()
	out := Poll(context.Background(), probe, Budget{MaxAttempts: 10, Interval: time.Hour})
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("poll slept despite immediate readiness (took %s)", elapsed)
	}

	if out.Kind != Converged {
		t.Fatalf("Kind = %s, want converged", out.Kind)
	}
	if calls != 1 || out.Attempts != 1 {
		t.Errorf("calls = %d, Attempts = %d, want 1 and 1", calls, out.Attempts)
	}
	if out.Last.State != "up" {
		t.Errorf("Last.State = %q, want %q", out.Last.State, "up")
	}
}

func TestPoll_ExhaustsAfterMaxAttempts(t *testing.T) {
	calls := 0
	probe := func(context.Context) Result {
		calls++
		return NotReady("still down")
	}

	out := Poll(context.Background(), probe, Budget{MaxAttempts: 5, Interval: 0})

	if out.Kind != Exhausted {
		t.Fatalf("Kind = %s, want exhausted", out.Kind)
	}
	if calls != 5 || out.Attempts != 5 {
		t.Errorf("calls = %d, Attempts = %d, want 5 and 5", calls, out.Attempts)
	}
	if out.Last.Snapshot() != "still down" {
		t.Errorf("Last.Snapshot() = %q, want %q", out.Last.Snapshot(), "still down")
	}
}

func TestPoll_CancelledBeforeFirstEvaluation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	probe := func(context.Context) Result {
		calls++
		return Ready("up")
	}

	out := Poll(ctx, probe, Budget{MaxAttempts: 5, Interval: 0})

	if out.Kind != Cancelled {
		t.Fatalf("Kind = %s, want cancelled", out.Kind)
	}
	if calls != 0 || out.Attempts != 0 {
		t.Errorf("calls = %d, Attempts = %d, want 0 and 0", calls, out.Attempts)
	}
}

func TestPoll_CancelledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	probe := func(context.Context) Result {
		calls++
		cancel()
		return NotReady("down")
	}

	done := make(chan Outcome, 1)
	go func() {
		done <- Poll(ctx, probe, Budget{MaxAttempts: 5, Interval: time.Hour})
	}()

	select {
	case out := <-done:
		if out.Kind != Cancelled {
			t.Fatalf("Kind = %s, want cancelled", out.Kind)
		}
		if calls != 1 || out.Attempts != 1 {
			t.Errorf("calls = %d, Attempts = %d, want 1 and 1", calls, out.Attempts)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("poll did not observe cancellation during sleep")
	}
}

func TestPoll_ProbeErrorKeepsRetryingAndIsRetained(t *testing.T) {
	cause := errors.New("systemctl: command not found")
	calls := 0
	probe := func(context.Context) Result {
		calls++
		return ProbeError(cause)
	}

	out := Poll(context.Background(), probe, Budget{MaxAttempts: 3, Interval: 0})

	if out.Kind != Exhausted || calls != 3 {
		t.Fatalf("Kind = %s, calls = %d, want exhausted after 3", out.Kind, calls)
	}
	if out.Last.Status != StatusError || !errors.Is(out.Last.Err, cause) {
		t.Errorf("last observation lost the probe-error distinction: %+v", out.Last)
	}
}

func TestPoll_ZeroBudgetEvaluatesOnce(t *testing.T) {
	calls := 0
	probe := func(context.Context) Result {
		calls++
		return NotReady("down")
	}

	out := Poll(context.Background(), probe, Budget{})
	if out.Kind != Exhausted || calls != 1 {
		t.Errorf("Kind = %s, calls = %d, want exhausted after 1", out.Kind, calls)
	}
}
