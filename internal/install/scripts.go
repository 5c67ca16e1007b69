package install

import (
	"fmt"
	"strings"

	"kubeseed"
	"kubeseed/internal/hostrun"
)

// The installers shell out to the distribution's own tooling. Every script
// here runs under sh -e as root and is kept idempotent where the
// underlying tools allow it.

func preflightScript() string {
	return strings.TrimSpace(`
if [ "$(id -u)" -ne 0 ]; then
  echo "kubeseed must run as root" >&2
  exit 1
fi
if [ ! -f /etc/debian_version ]; then
  echo "kubeseed supports Debian-family hosts only" >&2
  exit 1
fi
for c in apt-get systemctl curl gpg modprobe sysctl swapoff; do
  if ! command -v "$c" >/dev/null 2>&1; then
    echo "missing prerequisite: $c" >&2
    exit 1
  fi
done`) + "\n"
}

func disableSwapScript() string {
	return strings.TrimSpace(`
swapoff -a
if [ -f /etc/fstab ]; then
  sed -i '/\sswap\s/s/^/#/' /etc/fstab
fi`) + "\n"
}

func kernelPrereqScript() string {
	return strings.TrimSpace(`
cat > /etc/modules-load.d/kubeseed.conf <<'MODULES'
overlay
br_netfilter
MODULES
modprobe overlay
modprobe br_netfilter

cat > /etc/sysctl.d/99-kubeseed.conf <<'SYSCTL'
net.bridge.bridge-nf-call-iptables  = 1
net.bridge.bridge-nf-call-ip6tables = 1
net.ipv4.ip_forward                 = 1
SYSCTL
sysctl --system >/dev/null`) + "\n"
}

func containerdInstallScript() string {
	return strings.TrimSpace(`
export DEBIAN_FRONTEND=noninteractive
apt-get update -q
apt-get install -y -q containerd

mkdir -p /etc/containerd
if [ ! -f /etc/containerd/config.toml ]; then
  containerd config default > /etc/containerd/config.toml
fi
sed -i 's/SystemdCgroup = false/SystemdCgroup = true/' /etc/containerd/config.toml
systemctl daemon-reload
systemctl enable containerd`) + "\n"
}

// containerdRegenScript rewrites the default config and restarts. Used as
// a last-resort remedy; it clobbers any manual edits.
func containerdRegenScript() string {
	return strings.TrimSpace(`
containerd config default > /etc/containerd/config.toml
sed -i 's/SystemdCgroup = false/SystemdCgroup = true/' /etc/containerd/config.toml
systemctl restart containerd`) + "\n"
}

func kubeToolsInstallScript(version string) string {
	// pkgs.k8s.io repositories are per minor release.
	minor := minorVersion(version)
	repo := fmt.Sprintf("https://pkgs.k8s.io/core:/stable:/v%s/deb/", minor)

	return strings.TrimSpace(fmt.Sprintf(`
export DEBIAN_FRONTEND=noninteractive
mkdir -p /etc/apt/keyrings
if [ ! -f /etc/apt/keyrings/kubernetes-apt-keyring.gpg ]; then
  curl -fsSL %sRelease.key | gpg --dearmor -o /etc/apt/keyrings/kubernetes-apt-keyring.gpg
fi
echo "deb [signed-by=/etc/apt/keyrings/kubernetes-apt-keyring.gpg] %s /" > /etc/apt/sources.list.d/kubernetes.list
apt-get update -q
apt-get install -y -q kubelet kubeadm kubectl
apt-mark hold kubelet kubeadm kubectl
systemctl enable kubelet`, hostrun.ShellQuote(repo), repo)) + "\n"
}

func kubeadmInitScript(spec kubeseed.ClusterSpec, advertiseAddr string) string {
	return strings.TrimSpace(fmt.Sprintf(`
if [ -f /etc/kubernetes/admin.conf ]; then
  echo "control plane already initialized" >&2
  exit 0
fi
kubeadm init \
  --kubernetes-version %s \
  --apiserver-advertise-address %s \
  --pod-network-cidr %s \
  --service-cidr %s \
  --node-name "$(hostname | tr '[:upper:]' '[:lower:]')"`,
		hostrun.ShellQuote(spec.KubernetesVersion),
		hostrun.ShellQuote(advertiseAddr),
		hostrun.ShellQuote(spec.PodCIDR),
		hostrun.ShellQuote(spec.ServiceCIDR))) + "\n"
}

func joinCommandScript() string {
	return "kubeadm token create --print-join-command\n"
}

func kubeadmJoinScript(join kubeseed.JoinCommand) string {
	return strings.TrimSpace(fmt.Sprintf(`
if [ -f /etc/kubernetes/kubelet.conf ]; then
  echo "node already joined" >&2
  exit 0
fi
kubeadm join %s \
  --token %s \
  --discovery-token-ca-cert-hash %s \
  --node-name "$(hostname | tr '[:upper:]' '[:lower:]')"`,
		hostrun.ShellQuote(join.Endpoint),
		hostrun.ShellQuote(join.Token),
		hostrun.ShellQuote(join.CACertHash))) + "\n"
}

func kubectlApplyScript(manifestURL string) string {
	return fmt.Sprintf("kubectl --kubeconfig %s apply -f %s\n",
		hostrun.ShellQuote(adminKubeconfig), hostrun.ShellQuote(manifestURL))
}

func kubectlApplyNamespacedScript(namespace, manifestURL string) string {
	return fmt.Sprintf("kubectl --kubeconfig %s -n %s apply -f %s\n",
		hostrun.ShellQuote(adminKubeconfig), hostrun.ShellQuote(namespace), hostrun.ShellQuote(manifestURL))
}

func kubectlApplyStdinScript(manifest string) string {
	return strings.TrimSpace(fmt.Sprintf(`
kubectl --kubeconfig %s apply -f - <<'MANIFEST'
%s
MANIFEST`, hostrun.ShellQuote(adminKubeconfig), strings.TrimSpace(manifest))) + "\n"
}

func kubectlDeleteScript(kind, namespace, name string) string {
	return fmt.Sprintf("kubectl --kubeconfig %s -n %s delete %s %s --ignore-not-found\n",
		hostrun.ShellQuote(adminKubeconfig), hostrun.ShellQuote(namespace),
		hostrun.ShellQuote(kind), hostrun.ShellQuote(name))
}

func ensureNamespaceScript(namespace string) string {
	q := hostrun.ShellQuote(namespace)
	return fmt.Sprintf(
		"kubectl --kubeconfig %s get namespace %s >/dev/null 2>&1 || kubectl --kubeconfig %s create namespace %s\n",
		hostrun.ShellQuote(adminKubeconfig), q, hostrun.ShellQuote(adminKubeconfig), q)
}

func gpuInstallScript() string {
	return strings.TrimSpace(`
export DEBIAN_FRONTEND=noninteractive
apt-get update -q
apt-get install -y -q nvidia-driver-535 nvidia-container-toolkit || \
  apt-get install -y -q nvidia-driver nvidia-container-toolkit
nvidia-ctk runtime configure --runtime=containerd`) + "\n"
}

func resetScript() string {
	return strings.TrimSpace(`
kubeadm reset -f
rm -rf /etc/cni/net.d /var/lib/kubeseed/join-command
iptables -F && iptables -t nat -F && iptables -t mangle -F && iptables -X`) + "\n"
}

// minorVersion reduces "1.31.2" to "1.31".
func minorVersion(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}
