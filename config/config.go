// Package config loads the cluster configuration for kubeseed commands.
//
// Configuration lives at /etc/kubeseed/config.yaml by default. A missing
// file yields the defaults; commands that need operator-specific values
// (the load-balancer pool, the GitOps repository) prompt for what the file
// does not provide.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kubeseed"
	"kubeseed/internal/converge"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file location used when --config is not given.
const DefaultPath = "/etc/kubeseed/config.yaml"

// Window is one polling budget in operator-friendly units.
type Window struct {
	Attempts        int `yaml:"attempts"`
	IntervalSeconds int `yaml:"intervalSeconds"`
}

// Budget converts a window to a convergence budget.
func (w Window) Budget() converge.Budget {
	return converge.Budget{
		MaxAttempts: w.Attempts,
		Interval:    time.Duration(w.IntervalSeconds) * time.Second,
	}
}

// Budgets are the per-checkpoint-class polling windows. The numbers are
// deliberately configuration, not constants: different checkpoints want
// different ceilings and there is no single right answer.
type Budgets struct {
	Service   Window `yaml:"service"`   // systemd unit activity
	APIServer Window `yaml:"apiServer"` // API server health endpoints
	NodeReady Window `yaml:"nodeReady"` // node Ready condition
	Addon     Window `yaml:"addon"`     // addon deployments, secrets, addresses
}

// LB configures the load-balancer addon.
type LB struct {
	// Pool is the address range handed to the addon, in CIDR or start-end
	// notation. Empty means prompt the operator.
	Pool        string `yaml:"pool,omitempty"`
	ManifestURL string `yaml:"manifestURL,omitempty"`
}

// GitOps configures the GitOps controller addon.
type GitOps struct {
	RepoURL     string `yaml:"repoURL,omitempty"`
	Branch      string `yaml:"branch,omitempty"`
	Path        string `yaml:"path,omitempty"`
	ManifestURL string `yaml:"manifestURL,omitempty"`
}

// Config is the full kubeseed configuration.
type Config struct {
	Cluster     kubeseed.ClusterSpec `yaml:"cluster"`
	LB          LB                   `yaml:"loadBalancer"`
	GitOps      GitOps               `yaml:"gitops"`
	CNI         CNI                  `yaml:"cni"`
	JournalPath string               `yaml:"journalPath"`
	Budgets     Budgets              `yaml:"budgets"`
}

// CNI configures the pod network manifest applied after kubeadm init.
type CNI struct {
	ManifestURL string `yaml:"manifestURL,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Cluster: kubeseed.ClusterSpec{
			Name:              "kubeseed",
			KubernetesVersion: "1.31.2",
			PodCIDR:           "10.244.0.0/16",
			ServiceCIDR:       "10.96.0.0/12",
		},
		LB: LB{
			ManifestURL: "https://raw.githubusercontent.com/metallb/metallb/v0.14.8/config/manifests/metallb-native.yaml",
		},
		GitOps: GitOps{
			Branch:      "main",
			Path:        "clusters/kubeseed",
			ManifestURL: "https://raw.githubusercontent.com/argoproj/argo-cd/v2.12.6/manifests/install.yaml",
		},
		CNI: CNI{
			ManifestURL: "https://raw.githubusercontent.com/flannel-io/flannel/v0.25.7/Documentation/kube-flannel.yml",
		},
		JournalPath: "/var/lib/kubeseed/journal.db",
		Budgets: Budgets{
			Service:   Window{Attempts: 12, IntervalSeconds: 5},
			APIServer: Window{Attempts: 30, IntervalSeconds: 10},
			NodeReady: Window{Attempts: 30, IntervalSeconds: 10},
			Addon:     Window{Attempts: 30, IntervalSeconds: 10},
		},
	}
}

// Load reads the config file at path, or DefaultPath when path is empty.
// A missing file returns the defaults (not an error); a malformed file is
// an error, never a silent fallback.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating directories as needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
