package install

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"kubeseed"
	"kubeseed/internal/converge"
	"kubeseed/internal/hostnet"
	"kubeseed/internal/hostrun"
	"kubeseed/internal/kubeapi"
	"kubeseed/internal/sysd"
)

const apiServerPort = "6443"

// InitControlPlane runs kubeadm init and converges the control plane:
// API server healthy, CNI applied, node Ready. Returns the join command
// for workers, already persisted to JoinFilePath.
func (i *Installer) InitControlPlane(ctx context.Context) (kubeseed.JoinCommand, error) {
	advertise, err := i.advertiseAddress()
	if err != nil {
		return kubeseed.JoinCommand{}, err
	}
	slog.Info("Initializing control plane.", "advertise", advertise)

	if err := hostrun.Exec(ctx, i.runner, "kubeadm init",
		kubeadmInitScript(i.cfg.Cluster, advertise)); err != nil {
		return kubeseed.JoinCommand{}, err
	}

	health := kubeapi.NewHealthClient(net.JoinHostPort(advertise, apiServerPort))
	err = i.driver.Run(ctx, converge.Checkpoint{
		Name:   "api server healthy",
		Probe:  health.HealthzProbe(),
		Budget: i.cfg.Budgets.APIServer.Budget(),
		Remedies: []converge.Remedy{
			sysd.RestartRemedy(i.runner, "kubelet"),
		},
	})
	if err != nil {
		return kubeseed.JoinCommand{}, err
	}

	if err := hostrun.Exec(ctx, i.runner, "apply CNI manifest",
		kubectlApplyScript(i.cfg.CNI.ManifestURL)); err != nil {
		return kubeseed.JoinCommand{}, err
	}

	name, err := nodeName()
	if err != nil {
		return kubeseed.JoinCommand{}, err
	}
	cs, err := i.clientset()
	if err != nil {
		return kubeseed.JoinCommand{}, err
	}
	err = i.driver.Run(ctx, converge.Checkpoint{
		Name:   "node ready",
		Probe:  kubeapi.NodeReadyProbe(cs, name),
		Budget: i.cfg.Budgets.NodeReady.Budget(),
	})
	if err != nil {
		return kubeseed.JoinCommand{}, err
	}

	join, err := i.captureJoinCommand(ctx)
	if err != nil {
		return kubeseed.JoinCommand{}, err
	}
	if err := SaveJoinCommand("", join); err != nil {
		return kubeseed.JoinCommand{}, err
	}
	slog.Info("Control plane ready.", "join_file", JoinFilePath)
	return join, nil
}

func (i *Installer) advertiseAddress() (string, error) {
	if i.cfg.Cluster.AdvertiseAddress != "" {
		return i.cfg.Cluster.AdvertiseAddress, nil
	}
	addr, err := hostnet.AdvertiseAddress()
	if err != nil {
		return "", fmt.Errorf("detect advertise address (set cluster.advertiseAddress to override): %w", err)
	}
	return addr.String(), nil
}

func (i *Installer) captureJoinCommand(ctx context.Context) (kubeseed.JoinCommand, error) {
	out, err := i.runner.Run(ctx, joinCommandScript())
	if err != nil {
		return kubeseed.JoinCommand{}, fmt.Errorf("create join token: %w", err)
	}
	if out.ExitCode != 0 {
		return kubeseed.JoinCommand{}, fmt.Errorf("create join token: exit %d: %s", out.ExitCode, out.Diagnostic())
	}
	return kubeseed.ParseJoinCommand(out.Stdout)
}
