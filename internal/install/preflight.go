package install

import (
	"context"
	"fmt"
	"log/slog"

	"kubeseed/internal/converge"
	"kubeseed/internal/hostnet"
	"kubeseed/internal/hostrun"
	"kubeseed/internal/sysd"
)

// hostArch is indirected so tests can run off-Linux.
func hostArch() (string, error) {
	return hostnet.Arch()
}

// Preflight validates the host and applies the kernel-level prerequisites
// every node role needs. Fatal on an unsupported host; convergent on
// clock sync, which a freshly booted machine may still be acquiring.
func (i *Installer) Preflight(ctx context.Context) error {
	if err := hostrun.Exec(ctx, i.runner, "host preflight", preflightScript()); err != nil {
		return err
	}

	arch, err := i.archFn()
	if err != nil {
		return fmt.Errorf("detect architecture: %w", err)
	}
	switch arch {
	case "x86_64", "aarch64":
		slog.Debug("Architecture supported.", "arch", arch)
	default:
		return fmt.Errorf("unsupported architecture %q", arch)
	}

	if err := hostrun.Exec(ctx, i.runner, "disable swap", disableSwapScript()); err != nil {
		return err
	}
	if err := hostrun.Exec(ctx, i.runner, "kernel prerequisites", kernelPrereqScript()); err != nil {
		return err
	}

	return i.driver.Run(ctx, converge.Checkpoint{
		Name:   "clock synchronized",
		Probe:  i.clockProbe(),
		Budget: i.cfg.Budgets.Service.Budget(),
		Remedies: []converge.Remedy{
			sysd.RestartRemedy(i.runner, "systemd-timesyncd"),
		},
	})
}
