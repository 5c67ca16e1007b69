package install

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"kubeseed/internal/converge"
	"kubeseed/internal/hostrun"
	"kubeseed/internal/kubeapi"
	"kubeseed/pkg/iprange"
)

const (
	lbNamespace  = "metallb-system"
	lbController = "controller"

	// lbProbeService is a temporary LoadBalancer service used to verify
	// the addon actually hands out addresses from the operator's pool.
	lbProbeService = "kubeseed-lb-probe"
)

// InstallLoadBalancer installs the load-balancer addon and verifies it
// assigns an address from pool to a probe service. The probe service is
// deleted afterwards, converged or not.
func (i *Installer) InstallLoadBalancer(ctx context.Context, pool iprange.Range) error {
	slog.Info("Installing load-balancer addon.", "pool", pool.String(), "addresses", pool.Size())

	if err := hostrun.Exec(ctx, i.runner, "apply load-balancer manifest",
		kubectlApplyScript(i.cfg.LB.ManifestURL)); err != nil {
		return err
	}

	cs, err := i.clientset()
	if err != nil {
		return err
	}
	err = i.driver.Run(ctx, converge.Checkpoint{
		Name:   "lb controller available",
		Probe:  kubeapi.DeploymentAvailableProbe(cs, lbNamespace, lbController),
		Budget: i.cfg.Budgets.Addon.Budget(),
		Remedies: []converge.Remedy{
			kubeapi.DeletePodsRemedy(cs, lbNamespace, "component="+lbController),
		},
	})
	if err != nil {
		return err
	}

	if err := hostrun.Exec(ctx, i.runner, "apply address pool",
		kubectlApplyStdinScript(addressPoolManifest(pool))); err != nil {
		return err
	}

	if err := hostrun.Exec(ctx, i.runner, "create probe service",
		kubectlApplyStdinScript(probeServiceManifest())); err != nil {
		return err
	}
	defer func() {
		cleanup := kubectlDeleteScript("service", "default", lbProbeService)
		if err := hostrun.Exec(context.WithoutCancel(ctx), i.runner, "delete probe service", cleanup); err != nil {
			slog.Warn("Failed to delete probe service.", "err", err)
		}
	}()

	return i.driver.Run(ctx, converge.Checkpoint{
		Name:   "address assigned from pool",
		Probe:  kubeapi.ServiceAssignedProbe(cs, "default", lbProbeService, pool),
		Budget: i.cfg.Budgets.Addon.Budget(),
	})
}

// addressPoolManifest renders the IPAddressPool and its L2 advertisement.
// Both notations the operator can enter are valid pool addresses verbatim.
func addressPoolManifest(pool iprange.Range) string {
	return strings.TrimSpace(fmt.Sprintf(`
apiVersion: metallb.io/v1beta1
kind: IPAddressPool
metadata:
  name: kubeseed-pool
  namespace: %s
spec:
  addresses:
  - %s
---
apiVersion: metallb.io/v1beta1
kind: L2Advertisement
metadata:
  name: kubeseed-l2
  namespace: %s
spec:
  ipAddressPools:
  - kubeseed-pool`, lbNamespace, pool.String(), lbNamespace))
}

func probeServiceManifest() string {
	return strings.TrimSpace(fmt.Sprintf(`
apiVersion: v1
kind: Service
metadata:
  name: %s
  namespace: default
spec:
  type: LoadBalancer
  ports:
  - port: 80
  selector:
    app: %s`, lbProbeService, lbProbeService))
}
