package install

import (
	"context"
	"log/slog"

	"kubeseed"
	"kubeseed/internal/converge"
	"kubeseed/internal/hostrun"
	"kubeseed/internal/kubeapi"
	"kubeseed/internal/sysd"
)

// JoinWorker joins this host to an existing cluster and converges the
// kubelet. Node Ready is owned by the control plane's CNI; the worker
// only guarantees its kubelet is up and the node is registered.
func (i *Installer) JoinWorker(ctx context.Context, join kubeseed.JoinCommand) error {
	slog.Info("Joining cluster.", "endpoint", join.Endpoint)

	if err := hostrun.Exec(ctx, i.runner, "kubeadm join", kubeadmJoinScript(join)); err != nil {
		return err
	}

	err := i.driver.Run(ctx, converge.Checkpoint{
		Name:   "kubelet active",
		Probe:  sysd.ActiveProbe(i.runner, "kubelet"),
		Budget: i.cfg.Budgets.Service.Budget(),
		Remedies: []converge.Remedy{
			sysd.StartRemedy(i.runner, "kubelet"),
			sysd.RestartRemedy(i.runner, "kubelet"),
		},
	})
	if err != nil {
		return err
	}

	// Workers only have the kubelet's own credentials.
	cs, err := i.newClientset(kubeapi.KubeletKubeconfigPath)
	if err != nil {
		return err
	}
	name, err := nodeName()
	if err != nil {
		return err
	}
	return i.driver.Run(ctx, converge.Checkpoint{
		Name:   "node registered",
		Probe:  kubeapi.NodeRegisteredProbe(cs, name),
		Budget: i.cfg.Budgets.NodeReady.Budget(),
	})
}

// Reset tears the node back down. Destructive; callers confirm first.
func (i *Installer) Reset(ctx context.Context) error {
	return hostrun.Exec(ctx, i.runner, "kubeadm reset", resetScript())
}
