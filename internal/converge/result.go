package converge

import "context"

// Status classifies a single probe evaluation. A probe that ran and
// reported "down" is NotReady; a probe that could not determine readiness
// at all is Error. Both keep the poll loop retrying, but exhaustion
// diagnostics preserve the distinction.
type Status uint8

const (
	StatusReady Status = iota + 1
	StatusNotReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusNotReady:
		return "not-ready"
	case StatusError:
		return "probe-error"
	default:
		return "unknown"
	}
}

// Result is one probe observation.
type Result struct {
	Status Status
	State  string // human-readable snapshot of the observed state
	Err    error  // set only for StatusError
}

// Ready reports the desired state was observed.
func Ready(state string) Result {
	return Result{Status: StatusReady, State: state}
}

// NotReady reports the external system answered but has not converged.
func NotReady(state string) Result {
	return Result{Status: StatusNotReady, State: state}
}

// ProbeError reports the probe itself failed to determine readiness.
func ProbeError(err error) Result {
	return Result{Status: StatusError, Err: err}
}

// Snapshot returns the diagnostic text of the observation, whichever of
// State or Err carries it.
func (r Result) Snapshot() string {
	if r.Status == StatusError && r.Err != nil {
		return "probe error: " + r.Err.Error()
	}
	if r.State == "" {
		return r.Status.String()
	}
	return r.State
}

// Probe evaluates the external system once. Implementations must map
// ambiguous signals (such as a bare non-zero exit code) to the three-way
// Result rather than a boolean.
type Probe func(ctx context.Context) Result
