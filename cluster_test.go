package kubeseed

import (
	"strings"
	"testing"
)

func TestJoinCommandRoundTrip(t *testing.T) {
	join := JoinCommand{
		Endpoint:   "10.0.0.10:6443",
		Token:      "abcdef.0123456789abcdef",
		CACertHash: "sha256:1234567890abcdef",
	}

	parsed, err := ParseJoinCommand(join.String())
	if err != nil {
		t.Fatalf("ParseJoinCommand: %v", err)
	}
	if parsed != join {
		t.Fatalf("round trip mismatch: got %+v, want %+v", parsed, join)
	}
}

func TestParseJoinCommandToleratesContinuations(t *testing.T) {
	text := "kubeadm join 10.0.0.10:6443 --token abcdef.0123456789abcdef \\\n" +
		"\t--discovery-token-ca-cert-hash sha256:1234567890abcdef\n"

	parsed, err := ParseJoinCommand(text)
	if err != nil {
		t.Fatalf("ParseJoinCommand: %v", err)
	}
	if parsed.Endpoint != "10.0.0.10:6443" {
		t.Errorf("endpoint = %q", parsed.Endpoint)
	}
	if parsed.Token != "abcdef.0123456789abcdef" {
		t.Errorf("token = %q", parsed.Token)
	}
	if parsed.CACertHash != "sha256:1234567890abcdef" {
		t.Errorf("hash = %q", parsed.CACertHash)
	}
}

func TestParseJoinCommandRejectsMalformedInput(t *testing.T) {
	for _, text := range []string{
		"",
		"kubectl get nodes",
		"kubeadm join",
		"kubeadm join 10.0.0.10:6443",
		"kubeadm join 10.0.0.10:6443 --token abcdef.0123456789abcdef",
	} {
		if _, err := ParseJoinCommand(text); err == nil {
			t.Errorf("ParseJoinCommand(%q) accepted malformed input", text)
		}
	}
}

func TestJoinCommandStringShape(t *testing.T) {
	join := JoinCommand{Endpoint: "cp:6443", Token: "t", CACertHash: "sha256:h"}
	want := "kubeadm join cp:6443 --token t --discovery-token-ca-cert-hash sha256:h"
	if got := join.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if strings.Contains(join.String(), "\n") {
		t.Fatal("join command must be a single line")
	}
}
