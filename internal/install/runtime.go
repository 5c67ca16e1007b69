package install

import (
	"context"

	"kubeseed/internal/converge"
	"kubeseed/internal/hostrun"
	"kubeseed/internal/sysd"
)

// InstallRuntime installs containerd and the kubeadm toolchain, then
// converges the runtime. Remedies escalate: start, restart, and as a last
// resort regenerate the default config and restart.
func (i *Installer) InstallRuntime(ctx context.Context) error {
	if err := hostrun.Exec(ctx, i.runner, "install containerd", containerdInstallScript()); err != nil {
		return err
	}

	err := i.driver.Run(ctx, converge.Checkpoint{
		Name:   "containerd ready",
		Probe:  sysd.ActiveProbe(i.runner, "containerd"),
		Budget: i.cfg.Budgets.Service.Budget(),
		Remedies: []converge.Remedy{
			sysd.StartRemedy(i.runner, "containerd"),
			sysd.RestartRemedy(i.runner, "containerd"),
			{
				Name: "regenerate containerd config",
				Run: func(ctx context.Context) error {
					return hostrun.Exec(ctx, i.runner, "regenerate containerd config", containerdRegenScript())
				},
			},
		},
	})
	if err != nil {
		return err
	}

	return hostrun.Exec(ctx, i.runner, "install kubeadm toolchain",
		kubeToolsInstallScript(i.cfg.Cluster.KubernetesVersion))
}
