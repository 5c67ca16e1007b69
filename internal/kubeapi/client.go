package kubeapi

import (
	"fmt"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// AdminKubeconfigPath is where kubeadm leaves the admin credentials.
const AdminKubeconfigPath = "/etc/kubernetes/admin.conf"

// KubeletKubeconfigPath holds the kubelet's own credentials, the only
// ones present on a worker. The node authorizer lets them read the
// worker's own Node object.
const KubeletKubeconfigPath = "/etc/kubernetes/kubelet.conf"

// NewClientset builds a typed clientset from a kubeconfig on disk.
func NewClientset(kubeconfigPath string) (kubernetes.Interface, error) {
	cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("load kubeconfig %s: %w", kubeconfigPath, err)
	}
	cs, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("build clientset: %w", err)
	}
	return cs, nil
}
