package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cluster.PodCIDR != "10.244.0.0/16" {
		t.Errorf("PodCIDR = %q, want default", cfg.Cluster.PodCIDR)
	}
	if cfg.Budgets.APIServer.Attempts != 30 || cfg.Budgets.Service.IntervalSeconds != 5 {
		t.Errorf("default budgets = %+v", cfg.Budgets)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
cluster:
  name: lab
  kubernetesVersion: 1.30.0
loadBalancer:
  pool: 192.168.1.240/28
budgets:
  apiServer:
    attempts: 3
    intervalSeconds: 15
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cluster.Name != "lab" {
		t.Errorf("Name = %q", cfg.Cluster.Name)
	}
	if cfg.LB.Pool != "192.168.1.240/28" {
		t.Errorf("Pool = %q", cfg.LB.Pool)
	}
	if cfg.Budgets.APIServer.Attempts != 3 {
		t.Errorf("APIServer.Attempts = %d, want 3", cfg.Budgets.APIServer.Attempts)
	}
	// Untouched sections keep their defaults.
	if cfg.Budgets.NodeReady.Attempts != 30 {
		t.Errorf("NodeReady.Attempts = %d, want default 30", cfg.Budgets.NodeReady.Attempts)
	}
	if cfg.CNI.ManifestURL == "" {
		t.Error("CNI manifest default lost")
	}
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cluster: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config loaded without error")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.Cluster.Name = "lab"
	cfg.LB.Pool = "10.0.0.1-10.0.0.8"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cluster.Name != "lab" || got.LB.Pool != "10.0.0.1-10.0.0.8" {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestWindow_Budget(t *testing.T) {
	b := Window{Attempts: 3, IntervalSeconds: 15}.Budget()
	if b.MaxAttempts != 3 || b.Interval != 15*time.Second {
		t.Errorf("Budget() = %+v", b)
	}
}
