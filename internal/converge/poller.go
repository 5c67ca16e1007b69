package converge

import (
	"context"
	"time"
)

// Budget bounds one polling window. The interval is constant per window;
// MaxAttempts times Interval is the hard wall-clock ceiling.
type Budget struct {
	MaxAttempts int
	Interval    time.Duration
}

// OutcomeKind is the terminal classification of a polling window.
type OutcomeKind uint8

const (
	Converged OutcomeKind = iota + 1
	Exhausted
	Cancelled
)

func (k OutcomeKind) String() string {
	switch k {
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of one polling window. Attempts counts
// probe evaluations actually performed; Last is the final observation and
// is the zero Result when cancellation preceded the first evaluation.
type Outcome struct {
	Kind     OutcomeKind
	Attempts int
	Last     Result
}

// Poll evaluates probe until it reports ready, the budget is exhausted, or
// ctx is cancelled. A ready observation returns immediately with no further
// waiting. Cancellation is observed at the top of each iteration and during
// the inter-attempt sleep. A budget below one attempt is treated as one.
func Poll(ctx context.Context, probe Probe, b Budget) Outcome {
	if b.MaxAttempts < 1 {
		b.MaxAttempts = 1
	}

	var last Result
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return Outcome{Kind: Cancelled, Attempts: attempt - 1, Last: last}
		}

		last = probe(ctx)
		if last.Status == StatusReady {
			return Outcome{Kind: Converged, Attempts: attempt, Last: last}
		}
		if attempt == b.MaxAttempts {
			return Outcome{Kind: Exhausted, Attempts: attempt, Last: last}
		}
		if !sleep(ctx, b.Interval) {
			return Outcome{Kind: Cancelled, Attempts: attempt, Last: last}
		}
	}
}

// sleep blocks for d and reports false if ctx was cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
