//go:build !linux

package hostnet

import (
	"fmt"
	"net/netip"
	"runtime"
)

// AdvertiseAddress errors on non-Linux platforms; the installers only
// target Debian-family hosts.
func AdvertiseAddress() (netip.Addr, error) {
	return netip.Addr{}, fmt.Errorf("advertise address detection is not supported on %s", runtime.GOOS)
}

// Arch errors on non-Linux platforms.
func Arch() (string, error) {
	return "", fmt.Errorf("architecture detection is not supported on %s", runtime.GOOS)
}
