// Package install sequences the external tool invocations that bring a
// host into a cluster, gating each phase on convergence checkpoints.
package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kubeseed"
	"kubeseed/config"
	"kubeseed/internal/converge"
	"kubeseed/internal/hostrun"
	"kubeseed/internal/kubeapi"

	"github.com/beevik/ntp"
	"k8s.io/client-go/kubernetes"
)

const adminKubeconfig = kubeapi.AdminKubeconfigPath

// JoinFilePath is where the control plane leaves the join command for
// workers. World-unreadable: it embeds a bootstrap token.
const JoinFilePath = "/var/lib/kubeseed/join-command"

const (
	ntpServer = "pool.ntp.org"
	// clockSkewMax is 5s: kubeadm itself tolerates more, but a host this
	// far off almost always has no time sync running at all.
	clockSkewMax = 5 * time.Second
)

// Installer runs installation phases on the local host. One instance per
// host per run; phases assume exclusive access to the services they touch.
type Installer struct {
	runner hostrun.Runner
	driver *converge.Driver
	cfg    *config.Config

	// Swapped in tests.
	newClientset func(kubeconfigPath string) (kubernetes.Interface, error)
	ntpQuery     func(host string) (*ntp.Response, error)
	archFn       func() (string, error)
}

func New(runner hostrun.Runner, driver *converge.Driver, cfg *config.Config) *Installer {
	return &Installer{
		runner:       runner,
		driver:       driver,
		cfg:          cfg,
		newClientset: kubeapi.NewClientset,
		ntpQuery:     ntp.Query,
		archFn:       hostArch,
	}
}

// clientset builds the admin clientset lazily; phases that run before
// kubeadm init never need it.
func (i *Installer) clientset() (kubernetes.Interface, error) {
	return i.newClientset(adminKubeconfig)
}

func (i *Installer) clockProbe() converge.Probe {
	return func(_ context.Context) converge.Result {
		resp, err := i.ntpQuery(ntpServer)
		if err != nil {
			return converge.ProbeError(fmt.Errorf("ntp query %s: %w", ntpServer, err))
		}
		offset := resp.ClockOffset
		if offset < 0 {
			offset = -offset
		}
		if offset > clockSkewMax {
			return converge.NotReady(fmt.Sprintf("clock offset %s exceeds %s", resp.ClockOffset, clockSkewMax))
		}
		return converge.Ready(fmt.Sprintf("clock offset %s", resp.ClockOffset))
	}
}

// nodeName is the name kubeadm registers this host under.
func nodeName() (string, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("hostname: %w", err)
	}
	return strings.ToLower(host), nil
}

// SaveJoinCommand persists the join command for later workers at path, or
// JoinFilePath when path is empty.
func SaveJoinCommand(path string, join kubeseed.JoinCommand) error {
	if path == "" {
		path = JoinFilePath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(join.String()+"\n"), 0o600); err != nil {
		return fmt.Errorf("write join file: %w", err)
	}
	return nil
}

// LoadJoinCommand reads a previously saved join command from path, or
// JoinFilePath when path is empty.
func LoadJoinCommand(path string) (kubeseed.JoinCommand, error) {
	if path == "" {
		path = JoinFilePath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return kubeseed.JoinCommand{}, fmt.Errorf("read join file: %w", err)
	}
	return kubeseed.ParseJoinCommand(string(data))
}
