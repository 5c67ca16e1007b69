package install

import (
	"context"
	"log/slog"

	"kubeseed/internal/converge"
	"kubeseed/internal/hostrun"
	"kubeseed/internal/sysd"
)

// InstallGPU installs the NVIDIA driver and container toolkit, points the
// runtime at it, and converges on the driver actually seeing a device.
// A reboot may be required before the checkpoint can pass on hosts where
// the driver replaces nouveau; the exhaustion diagnostics say which.
func (i *Installer) InstallGPU(ctx context.Context) error {
	slog.Info("Installing GPU support.")

	if err := hostrun.Exec(ctx, i.runner, "install nvidia driver and toolkit", gpuInstallScript()); err != nil {
		return err
	}
	if err := sysd.Restart(ctx, i.runner, "containerd"); err != nil {
		return err
	}

	return i.driver.Run(ctx, converge.Checkpoint{
		Name:   "gpu visible to driver",
		Probe:  hostrun.Probe(i.runner, "nvidia-smi -L"),
		Budget: i.cfg.Budgets.Service.Budget(),
		Remedies: []converge.Remedy{
			{
				Name: "load nvidia kernel module",
				Run: func(ctx context.Context) error {
					return hostrun.Exec(ctx, i.runner, "modprobe nvidia", "modprobe nvidia")
				},
			},
		},
	})
}
