// Package iprange parses operator-supplied IPv4 address ranges in CIDR or
// start-end notation and answers membership queries against them.
package iprange

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// ErrMalformed reports input that matches neither the CIDR nor the
// start-end grammar. Callers re-prompt the operator; the input is never
// silently defaulted.
var ErrMalformed = errors.New("malformed address range")

type kind uint8

const (
	kindCIDR kind = iota + 1
	kindBounded
)

// Range is a validated IPv4 address range. Constructed once by Parse from
// operator input and immutable afterwards.
//
// A CIDR range keeps the network address exactly as given: host bits are
// not required to be zero and are ignored under the mask. A bounded range
// with start above end parses but contains zero addresses.
type Range struct {
	kind    kind
	network uint32
	prefix  int
	start   uint32
	end     uint32
}

// Parse accepts "a.b.c.d/n" or "a.b.c.d-e.f.g.h". Anything else fails
// with an error wrapping ErrMalformed.
//
// Note that /0 matches every address: an operator entering "0.0.0.0/0"
// grants the whole address space.
func Parse(text string) (Range, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Range{}, fmt.Errorf("%w: empty input", ErrMalformed)
	}

	if i := strings.IndexByte(s, '/'); i >= 0 {
		addr, err := parseAddr4(s[:i])
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
		}
		prefix, err := strconv.Atoi(s[i+1:])
		if err != nil || prefix < 0 || prefix > 32 {
			return Range{}, fmt.Errorf("%w: %q: prefix length must be in [0,32]", ErrMalformed, s)
		}
		return Range{kind: kindCIDR, network: AddrToUint32(addr), prefix: prefix}, nil
	}

	if i := strings.IndexByte(s, '-'); i >= 0 {
		start, err := parseAddr4(strings.TrimSpace(s[:i]))
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q: invalid start address: %v", ErrMalformed, s, err)
		}
		end, err := parseAddr4(strings.TrimSpace(s[i+1:]))
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q: invalid end address: %v", ErrMalformed, s, err)
		}
		return Range{kind: kindBounded, start: AddrToUint32(start), end: AddrToUint32(end)}, nil
	}

	return Range{}, fmt.Errorf("%w: %q is neither a.b.c.d/n nor a.b.c.d-e.f.g.h", ErrMalformed, s)
}

// Contains reports whether addr falls inside the range. Non-IPv4 addresses
// are never members.
func (r Range) Contains(addr netip.Addr) bool {
	if !addr.Is4() {
		return false
	}
	v := AddrToUint32(addr)
	switch r.kind {
	case kindCIDR:
		mask := cidrMask(r.prefix)
		return r.network&mask == v&mask
	case kindBounded:
		return r.start <= v && v <= r.end
	}
	return false
}

// Size returns the number of addresses in the range.
func (r Range) Size() uint64 {
	switch r.kind {
	case kindCIDR:
		return uint64(1) << (32 - r.prefix)
	case kindBounded:
		if r.start > r.end {
			return 0
		}
		return uint64(r.end-r.start) + 1
	}
	return 0
}

// IsValid reports whether the range was produced by Parse.
func (r Range) IsValid() bool {
	return r.kind != 0
}

// String renders the range back in the notation it was parsed from.
func (r Range) String() string {
	switch r.kind {
	case kindCIDR:
		return fmt.Sprintf("%s/%d", Uint32ToAddr(r.network), r.prefix)
	case kindBounded:
		return fmt.Sprintf("%s-%s", Uint32ToAddr(r.start), Uint32ToAddr(r.end))
	}
	return "<invalid range>"
}

// cidrMask returns the network mask for a prefix length. Length zero is
// the empty mask, matching everything.
func cidrMask(prefix int) uint32 {
	if prefix <= 0 {
		return 0
	}
	return ^uint32(0) << (32 - prefix)
}

func parseAddr4(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("invalid address %q", s)
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("address %q is not IPv4", s)
	}
	return addr, nil
}

// AddrToUint32 converts an IPv4 address to its big-endian integer form.
func AddrToUint32(addr netip.Addr) uint32 {
	b := addr.As4()
	return binary.BigEndian.Uint32(b[:])
}

// Uint32ToAddr is the inverse of AddrToUint32.
func Uint32ToAddr(v uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b)
}
