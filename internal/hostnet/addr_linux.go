//go:build linux

package hostnet

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// probeDst is only used for route selection; no packet is sent.
var probeDst = net.IPv4(1, 1, 1, 1)

// AdvertiseAddress returns the primary IPv4 of the default-route
// interface, the address kubeadm should advertise the API server on.
func AdvertiseAddress() (netip.Addr, error) {
	routes, err := netlink.RouteGet(probeDst)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("resolve default route: %w", err)
	}
	if len(routes) == 0 {
		return netip.Addr{}, fmt.Errorf("no route toward %s", probeDst)
	}

	src := routes[0].Src
	if src == nil {
		link, err := netlink.LinkByIndex(routes[0].LinkIndex)
		if err != nil {
			return netip.Addr{}, fmt.Errorf("default route interface: %w", err)
		}
		addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
		if err != nil {
			return netip.Addr{}, fmt.Errorf("list addresses on %s: %w", link.Attrs().Name, err)
		}
		if len(addrs) == 0 {
			return netip.Addr{}, fmt.Errorf("no IPv4 address on default-route interface %s", link.Attrs().Name)
		}
		src = addrs[0].IP
	}

	addr, ok := netip.AddrFromSlice(src.To4())
	if !ok {
		return netip.Addr{}, fmt.Errorf("default-route source %s is not IPv4", src)
	}
	return addr, nil
}

// Arch returns the machine architecture as uname reports it
// (x86_64, aarch64).
func Arch() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", fmt.Errorf("uname: %w", err)
	}
	return unix.ByteSliceToString(uts.Machine[:]), nil
}
