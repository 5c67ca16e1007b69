package converge

import (
	"context"
	"fmt"
	"log/slog"

	"kubeseed/internal/check"
)

// Remedy is a one-shot corrective action taken between polling windows.
// Remedies mutate real service state; the driver runs each at most once per
// checkpoint and never retries a remedy that failed.
type Remedy struct {
	Name string
	Run  func(ctx context.Context) error
}

// Checkpoint is a named point in an installation sequence gated by a
// readiness probe. Remedies are tried in list order, one per exhausted
// polling window.
type Checkpoint struct {
	Name     string
	Probe    Probe
	Budget   Budget
	Remedies []Remedy
}

// CheckpointError reports a checkpoint whose polling budget was exhausted
// with no remedies left. Attempts is the count used in the final window.
type CheckpointError struct {
	Name     string
	Attempts int
	Last     Result
}

func (e *CheckpointError) Error() string {
	return fmt.Sprintf("checkpoint %q did not converge after %d attempts, last observed: %s",
		e.Name, e.Attempts, e.Last.Snapshot())
}

// RemedyError reports a remedial action whose own execution failed. Always
// fatal for the checkpoint: blindly retrying a failed remedy risks
// compounding damage.
type RemedyError struct {
	Checkpoint string
	Remedy     string
	Err        error
}

func (e *RemedyError) Error() string {
	return fmt.Sprintf("checkpoint %q: remedy %q failed: %v", e.Checkpoint, e.Remedy, e.Err)
}

func (e *RemedyError) Unwrap() error { return e.Err }

// Recorder receives terminal checkpoint outcomes. journal.Journal satisfies
// this; a nil recorder drops them.
type Recorder interface {
	RecordCheckpoint(name string, outcome Outcome, remediations int)
}

// Driver runs checkpoints strictly in declared order, assuming exclusive,
// single-operator access to the services being converged.
type Driver struct {
	rec Recorder
}

// NewDriver creates a driver. rec may be nil.
func NewDriver(rec Recorder) *Driver {
	return &Driver{rec: rec}
}

// Run brings one checkpoint to a terminal state: nil on convergence, a
// *CheckpointError or *RemedyError on failure, or the context error on
// cancellation. Each exhausted window consumes the next unused remedy and
// opens a fresh window.
func (d *Driver) Run(ctx context.Context, cp Checkpoint) error {
	remediations := 0
	for next := 0; ; {
		out := Poll(ctx, cp.Probe, cp.Budget)

		switch out.Kind {
		case Converged:
			d.record(cp.Name, out, remediations)
			slog.Debug("Checkpoint converged.", "checkpoint", cp.Name, "attempts", out.Attempts)
			return nil
		case Cancelled:
			d.record(cp.Name, out, remediations)
			return fmt.Errorf("checkpoint %q: %w", cp.Name, context.Cause(ctx))
		}

		if next >= len(cp.Remedies) {
			d.record(cp.Name, out, remediations)
			return &CheckpointError{Name: cp.Name, Attempts: out.Attempts, Last: out.Last}
		}

		remedy := cp.Remedies[next]
		next++
		slog.Info("Checkpoint not converged, remediating.",
			"checkpoint", cp.Name, "remedy", remedy.Name,
			"attempts", out.Attempts, "last", out.Last.Snapshot())

		if err := remedy.Run(ctx); err != nil {
			d.record(cp.Name, out, remediations)
			return &RemedyError{Checkpoint: cp.Name, Remedy: remedy.Name, Err: err}
		}
		remediations++
		check.Assertf(remediations <= len(cp.Remedies),
			"checkpoint %s ran %d remediations with %d remedies", cp.Name, remediations, len(cp.Remedies))
	}
}

// RunAll runs checkpoints in order and stops at the first failure. A later
// checkpoint never starts probing before an earlier one is terminal.
func (d *Driver) RunAll(ctx context.Context, cps []Checkpoint) error {
	for _, cp := range cps {
		if err := d.Run(ctx, cp); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) record(name string, out Outcome, remediations int) {
	if d.rec != nil {
		d.rec.RecordCheckpoint(name, out, remediations)
	}
}
