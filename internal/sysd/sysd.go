// Package sysd manages systemd units through the host shell: activity
// probes for checkpoints and start/restart remedies between polling
// windows.
package sysd

import (
	"context"
	"fmt"

	"kubeseed/internal/converge"
	"kubeseed/internal/hostrun"
)

// ActiveProbe reports whether a unit is active. `systemctl is-active`
// prints the unit state and exits non-zero for anything but "active", so
// the probe's not-ready diagnostics carry the actual state.
func ActiveProbe(r hostrun.Runner, unit string) converge.Probe {
	return hostrun.Probe(r, "systemctl is-active "+hostrun.ShellQuote(unit))
}

// Start is idempotent: starting an active unit is a no-op.
func Start(ctx context.Context, r hostrun.Runner, unit string) error {
	return systemctl(ctx, r, "start", unit)
}

func Restart(ctx context.Context, r hostrun.Runner, unit string) error {
	return systemctl(ctx, r, "restart", unit)
}

// EnableNow enables the unit and starts it in one step.
func EnableNow(ctx context.Context, r hostrun.Runner, unit string) error {
	return systemctl(ctx, r, "enable --now", unit)
}

func DaemonReload(ctx context.Context, r hostrun.Runner) error {
	return hostrun.Exec(ctx, r, "systemctl daemon-reload", "systemctl daemon-reload")
}

// StartRemedy wraps Start as a checkpoint remedy.
func StartRemedy(r hostrun.Runner, unit string) converge.Remedy {
	return converge.Remedy{
		Name: "start " + unit,
		Run: func(ctx context.Context) error {
			return Start(ctx, r, unit)
		},
	}
}

// RestartRemedy wraps Restart as a checkpoint remedy.
func RestartRemedy(r hostrun.Runner, unit string) converge.Remedy {
	return converge.Remedy{
		Name: "restart " + unit,
		Run: func(ctx context.Context) error {
			return Restart(ctx, r, unit)
		},
	}
}

func systemctl(ctx context.Context, r hostrun.Runner, verb, unit string) error {
	script := fmt.Sprintf("systemctl %s %s", verb, hostrun.ShellQuote(unit))
	return hostrun.Exec(ctx, r, fmt.Sprintf("systemctl %s %s", verb, unit), script)
}
