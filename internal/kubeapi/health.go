// Package kubeapi probes the cluster API: raw endpoint health during
// bootstrap, then typed readiness checks through client-go once a
// kubeconfig exists.
package kubeapi

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"kubeseed/internal/converge"

	"github.com/cenkalti/backoff/v4"
)

const (
	// healthRequestTimeout bounds one /healthz round trip.
	healthRequestTimeout = 5 * time.Second
	// healthRetryMaxElapsed is the ceiling for transparent transport
	// retries within a single probe evaluation. The convergence budget
	// owns the longer wait.
	healthRetryMaxElapsed = 3 * time.Second
)

// HealthClient probes the API server health endpoints during bootstrap,
// before any kubeconfig exists. Certificate verification is skipped: the
// CA is generated by kubeadm moments earlier and is not yet trusted
// locally, and the probe carries no credentials.
type HealthClient struct {
	base  string
	httpc *http.Client
}

// NewHealthClient creates a client for "host:port" of the API server.
func NewHealthClient(endpoint string) *HealthClient {
	return &HealthClient{
		base: "https://" + endpoint,
		httpc: &http.Client{
			Timeout: healthRequestTimeout,
			Transport: &retryRoundTripper{
				next: &http.Transport{
					TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
				},
				newBackoff: func() backoff.BackOff {
					return backoff.NewExponentialBackOff(
						backoff.WithInitialInterval(100*time.Millisecond),
						backoff.WithMaxInterval(time.Second),
						backoff.WithMaxElapsedTime(healthRetryMaxElapsed),
					)
				},
			},
		},
	}
}

// HealthzProbe reports whether GET /healthz answers 200 "ok". An
// unreachable server is not-ready, not a probe error: the server simply
// has not come up yet.
func (c *HealthClient) HealthzProbe() converge.Probe {
	return c.pathProbe("/healthz")
}

// ReadyzProbe is HealthzProbe against /readyz.
func (c *HealthClient) ReadyzProbe() converge.Probe {
	return c.pathProbe("/readyz")
}

func (c *HealthClient) pathProbe(path string) converge.Probe {
	return func(ctx context.Context) converge.Result {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
		if err != nil {
			return converge.ProbeError(fmt.Errorf("build %s request: %w", path, err))
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return converge.NotReady(fmt.Sprintf("api server unreachable: %s", briefNetErr(err)))
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if resp.StatusCode == http.StatusOK {
			return converge.Ready(path + " ok")
		}
		return converge.NotReady(fmt.Sprintf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body))))
	}
}

// retryRoundTripper retries requests on transient network errors so a
// single probe evaluation is not failed by one dropped SYN. Only used for
// body-less GETs.
type retryRoundTripper struct {
	next       http.RoundTripper
	newBackoff func() backoff.BackOff
}

func (rt *retryRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	attempt := func() (*http.Response, error) {
		resp, err := rt.next.RoundTrip(req)
		if err != nil {
			if isTransient(err) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return resp, nil
	}

	boff := backoff.WithContext(rt.newBackoff(), req.Context())
	return backoff.RetryWithData(attempt, boff)
}

func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func briefNetErr(err error) string {
	var urlErr interface{ Unwrap() error }
	if errors.As(err, &urlErr) {
		if inner := urlErr.Unwrap(); inner != nil {
			return inner.Error()
		}
	}
	return err.Error()
}
