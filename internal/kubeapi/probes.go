package kubeapi

import (
	"context"
	"fmt"
	"net/netip"

	"kubeseed/internal/converge"
	"kubeseed/pkg/iprange"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// NodeReadyProbe reports whether the named node exists and its Ready
// condition is true. An unregistered node is not-ready; a failed API call
// is a probe error (reachability has its own earlier checkpoint).
func NodeReadyProbe(cs kubernetes.Interface, nodeName string) converge.Probe {
	return func(ctx context.Context) converge.Result {
		node, err := cs.CoreV1().Nodes().Get(ctx, nodeName, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return converge.NotReady(fmt.Sprintf("node %s not registered", nodeName))
		}
		if err != nil {
			return converge.ProbeError(fmt.Errorf("get node %s: %w", nodeName, err))
		}

		for _, cond := range node.Status.Conditions {
			if cond.Type == corev1.NodeReady {
				if cond.Status == corev1.ConditionTrue {
					return converge.Ready(fmt.Sprintf("node %s Ready", nodeName))
				}
				return converge.NotReady(fmt.Sprintf("node %s Ready=%s: %s", nodeName, cond.Status, cond.Message))
			}
		}
		return converge.NotReady(fmt.Sprintf("node %s has no Ready condition yet", nodeName))
	}
}

// NodeRegisteredProbe reports whether the named node exists at all.
// Readiness is deliberately not checked: a worker registers long before
// the control plane's CNI marks it Ready.
func NodeRegisteredProbe(cs kubernetes.Interface, nodeName string) converge.Probe {
	return func(ctx context.Context) converge.Result {
		_, err := cs.CoreV1().Nodes().Get(ctx, nodeName, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return converge.NotReady(fmt.Sprintf("node %s not registered", nodeName))
		}
		if err != nil {
			return converge.ProbeError(fmt.Errorf("get node %s: %w", nodeName, err))
		}
		return converge.Ready(fmt.Sprintf("node %s registered", nodeName))
	}
}

// DeploymentAvailableProbe reports whether a deployment has all desired
// replicas available.
func DeploymentAvailableProbe(cs kubernetes.Interface, namespace, name string) converge.Probe {
	return func(ctx context.Context) converge.Result {
		dep, err := cs.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return converge.NotReady(fmt.Sprintf("deployment %s/%s not created", namespace, name))
		}
		if err != nil {
			return converge.ProbeError(fmt.Errorf("get deployment %s/%s: %w", namespace, name, err))
		}

		desired := int32(1)
		if dep.Spec.Replicas != nil {
			desired = *dep.Spec.Replicas
		}
		if dep.Status.AvailableReplicas >= desired {
			return converge.Ready(fmt.Sprintf("deployment %s/%s available (%d/%d)", namespace, name, dep.Status.AvailableReplicas, desired))
		}
		return converge.NotReady(fmt.Sprintf("deployment %s/%s %d/%d available", namespace, name, dep.Status.AvailableReplicas, desired))
	}
}

// SecretPresentProbe reports whether a secret exists and is non-empty.
// Used for the GitOps admin password, which the controller publishes some
// time after its pods come up.
func SecretPresentProbe(cs kubernetes.Interface, namespace, name string) converge.Probe {
	return func(ctx context.Context) converge.Result {
		secret, err := cs.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return converge.NotReady(fmt.Sprintf("secret %s/%s not published yet", namespace, name))
		}
		if err != nil {
			return converge.ProbeError(fmt.Errorf("get secret %s/%s: %w", namespace, name, err))
		}
		if len(secret.Data) == 0 {
			return converge.NotReady(fmt.Sprintf("secret %s/%s exists but is empty", namespace, name))
		}
		return converge.Ready(fmt.Sprintf("secret %s/%s present", namespace, name))
	}
}

// ServiceAssignedProbe reports whether a LoadBalancer service has been
// assigned an ingress address inside the operator's pool. An address
// outside the pool is still not-ready; the diagnostic calls it out so the
// operator can spot a competing address allocator.
func ServiceAssignedProbe(cs kubernetes.Interface, namespace, name string, pool iprange.Range) converge.Probe {
	return func(ctx context.Context) converge.Result {
		svc, err := cs.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return converge.NotReady(fmt.Sprintf("service %s/%s not created", namespace, name))
		}
		if err != nil {
			return converge.ProbeError(fmt.Errorf("get service %s/%s: %w", namespace, name, err))
		}

		for _, ingress := range svc.Status.LoadBalancer.Ingress {
			if ingress.IP == "" {
				continue
			}
			addr, err := netip.ParseAddr(ingress.IP)
			if err != nil {
				return converge.NotReady(fmt.Sprintf("service %s/%s has unparseable ingress %q", namespace, name, ingress.IP))
			}
			if pool.Contains(addr) {
				return converge.Ready(fmt.Sprintf("service %s/%s assigned %s", namespace, name, addr))
			}
			return converge.NotReady(fmt.Sprintf("service %s/%s assigned %s outside pool %s", namespace, name, addr, pool))
		}
		return converge.NotReady(fmt.Sprintf("service %s/%s has no assigned address", namespace, name))
	}
}

// DeletePodsRemedy deletes pods matching a label selector so their
// controller recreates them. The only namespaced-object recreation the
// installers need.
func DeletePodsRemedy(cs kubernetes.Interface, namespace, selector string) converge.Remedy {
	return converge.Remedy{
		Name: fmt.Sprintf("recreate pods %s in %s", selector, namespace),
		Run: func(ctx context.Context) error {
			err := cs.CoreV1().Pods(namespace).DeleteCollection(ctx, metav1.DeleteOptions{}, metav1.ListOptions{
				LabelSelector: selector,
			})
			if err != nil {
				return fmt.Errorf("delete pods %q in %s: %w", selector, namespace, err)
			}
			return nil
		},
	}
}
