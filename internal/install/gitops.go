package install

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"kubeseed/internal/converge"
	"kubeseed/internal/hostrun"
	"kubeseed/internal/kubeapi"
)

const (
	gitopsNamespace   = "argocd"
	gitopsServer      = "argocd-server"
	gitopsAdminSecret = "argocd-initial-admin-secret"
)

// InstallGitOps installs the GitOps controller and waits for its server
// and admin-password secret. When a repository is configured, it also
// registers the cluster application.
func (i *Installer) InstallGitOps(ctx context.Context) error {
	slog.Info("Installing GitOps addon.")

	if err := hostrun.Exec(ctx, i.runner, "create gitops namespace",
		ensureNamespaceScript(gitopsNamespace)); err != nil {
		return err
	}
	if err := hostrun.Exec(ctx, i.runner, "apply gitops manifest",
		kubectlApplyNamespacedScript(gitopsNamespace, i.cfg.GitOps.ManifestURL)); err != nil {
		return err
	}

	cs, err := i.clientset()
	if err != nil {
		return err
	}
	err = i.driver.RunAll(ctx, []converge.Checkpoint{
		{
			Name:   "gitops server available",
			Probe:  kubeapi.DeploymentAvailableProbe(cs, gitopsNamespace, gitopsServer),
			Budget: i.cfg.Budgets.Addon.Budget(),
			Remedies: []converge.Remedy{
				kubeapi.DeletePodsRemedy(cs, gitopsNamespace, "app.kubernetes.io/name="+gitopsServer),
			},
		},
		{
			Name:   "admin password secret present",
			Probe:  kubeapi.SecretPresentProbe(cs, gitopsNamespace, gitopsAdminSecret),
			Budget: i.cfg.Budgets.Addon.Budget(),
		},
	})
	if err != nil {
		return err
	}

	if i.cfg.GitOps.RepoURL == "" {
		slog.Info("No GitOps repository configured, skipping bootstrap.")
		return nil
	}
	return hostrun.Exec(ctx, i.runner, "register cluster application",
		kubectlApplyStdinScript(clusterApplicationManifest(i.cfg.GitOps.RepoURL, i.cfg.GitOps.Branch, i.cfg.GitOps.Path)))
}

func clusterApplicationManifest(repoURL, branch, path string) string {
	return strings.TrimSpace(fmt.Sprintf(`
apiVersion: argoproj.io/v1alpha1
kind: Application
metadata:
  name: cluster
  namespace: %s
spec:
  project: default
  source:
    repoURL: %s
    targetRevision: %s
    path: %s
  destination:
    server: https://kubernetes.default.svc
  syncPolicy:
    automated:
      prune: true
      selfHeal: true`, gitopsNamespace, repoURL, branch, path))
}
