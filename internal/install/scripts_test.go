package install

import (
	"strings"
	"testing"

	"kubeseed"
	"kubeseed/pkg/iprange"
)

func TestKubeToolsInstallScript_UsesMinorVersionRepo(t *testing.T) {
	script := kubeToolsInstallScript("1.31.2")
	if !strings.Contains(script, "https://pkgs.k8s.io/core:/stable:/v1.31/deb/") {
		t.Errorf("script does not pin the v1.31 repo:\n%s", script)
	}
	if !strings.Contains(script, "apt-mark hold kubelet kubeadm kubectl") {
		t.Error("toolchain packages are not held")
	}
}

func TestKubeadmInitScript_QuotesSpec(t *testing.T) {
	spec := kubeseed.ClusterSpec{
		KubernetesVersion: "1.31.2",
		PodCIDR:           "10.244.0.0/16",
		ServiceCIDR:       "10.96.0.0/12",
	}
	script := kubeadmInitScript(spec, "10.0.0.5")

	for _, want := range []string{
		"--kubernetes-version '1.31.2'",
		"--apiserver-advertise-address '10.0.0.5'",
		"--pod-network-cidr '10.244.0.0/16'",
		"--service-cidr '10.96.0.0/12'",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("init script missing %q:\n%s", want, script)
		}
	}
	// Re-running against an initialized host must be a no-op.
	if !strings.Contains(script, "/etc/kubernetes/admin.conf") {
		t.Error("init script is not guarded against re-initialization")
	}
}

func TestKubeadmJoinScript_GuardedAndQuoted(t *testing.T) {
	join := kubeseed.JoinCommand{
		Endpoint:   "10.0.0.5:6443",
		Token:      "abcdef.0123456789abcdef",
		CACertHash: "sha256:deadbeef",
	}
	script := kubeadmJoinScript(join)

	if !strings.Contains(script, "/etc/kubernetes/kubelet.conf") {
		t.Error("join script is not guarded against re-joining")
	}
	if !strings.Contains(script, "--discovery-token-ca-cert-hash 'sha256:deadbeef'") {
		t.Errorf("join script missing quoted hash:\n%s", script)
	}
}

func TestAddressPoolManifest_CarriesOperatorNotation(t *testing.T) {
	for _, notation := range []string{"192.168.1.240/28", "192.168.1.200-192.168.1.207"} {
		pool, err := iprange.Parse(notation)
		if err != nil {
			t.Fatal(err)
		}
		manifest := addressPoolManifest(pool)
		if !strings.Contains(manifest, "- "+notation) {
			t.Errorf("pool manifest lost the operator's notation %q:\n%s", notation, manifest)
		}
		if !strings.Contains(manifest, "kind: L2Advertisement") {
			t.Error("pool manifest missing the L2 advertisement")
		}
	}
}

func TestMinorVersion(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1.31.2", "1.31"},
		{"1.30.0", "1.30"},
		{"1.31", "1.31"},
	}
	for _, tt := range tests {
		if got := minorVersion(tt.in); got != tt.want {
			t.Errorf("minorVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResetScript_CleansJoinArtifact(t *testing.T) {
	if !strings.Contains(resetScript(), JoinFilePath) {
		t.Error("reset does not remove the saved join command")
	}
}
