package kubeseed

import (
	"fmt"
	"strings"
	"time"
)

// NodeRole is the role a host plays in the cluster.
type NodeRole string

const (
	RoleControlPlane NodeRole = "control-plane"
	RoleWorker       NodeRole = "worker"
)

// ClusterSpec describes the cluster a host is being installed into.
// Constructed from configuration once per run; immutable afterwards.
type ClusterSpec struct {
	Name              string `yaml:"name"`
	KubernetesVersion string `yaml:"kubernetesVersion"`
	PodCIDR           string `yaml:"podCIDR"`
	ServiceCIDR       string `yaml:"serviceCIDR"`

	// AdvertiseAddress is the API server address. Empty means detect the
	// primary address of the default-route interface.
	AdvertiseAddress string `yaml:"advertiseAddress,omitempty"`
}

// JoinCommand is the kubeadm join invocation captured on the control plane
// and replayed on workers. The orchestrator persists it as a text file;
// this type only formats and parses that line.
type JoinCommand struct {
	Endpoint   string
	Token      string
	CACertHash string
}

// String renders the join command in the exact shape kubeadm prints it.
func (j JoinCommand) String() string {
	return fmt.Sprintf("kubeadm join %s --token %s --discovery-token-ca-cert-hash %s",
		j.Endpoint, j.Token, j.CACertHash)
}

// ParseJoinCommand parses a kubeadm join line, tolerating line continuations
// and surrounding whitespace as kubeadm emits them.
func ParseJoinCommand(text string) (JoinCommand, error) {
	fields := strings.Fields(strings.ReplaceAll(text, "\\", " "))
	if len(fields) < 3 || fields[0] != "kubeadm" || fields[1] != "join" {
		return JoinCommand{}, fmt.Errorf("not a kubeadm join command: %q", strings.TrimSpace(text))
	}

	cmd := JoinCommand{Endpoint: fields[2]}
	for i := 3; i < len(fields)-1; i++ {
		switch fields[i] {
		case "--token":
			cmd.Token = fields[i+1]
		case "--discovery-token-ca-cert-hash":
			cmd.CACertHash = fields[i+1]
		}
	}
	if cmd.Token == "" || cmd.CACertHash == "" {
		return JoinCommand{}, fmt.Errorf("join command is missing token or discovery hash: %q", strings.TrimSpace(text))
	}
	return cmd, nil
}

// CheckpointRecord is one journaled checkpoint outcome, as read back for
// status reporting.
type CheckpointRecord struct {
	Run          int64
	Name         string
	Outcome      string
	Attempts     int
	Remediations int
	LastState    string
	RecordedAt   time.Time
}
