package iprange

import (
	"errors"
	"net/netip"
	"testing"
)

func addr(t *testing.T, s string) netip.Addr {
	t.Helper()
	return netip.MustParseAddr(s)
}

func TestParse_CIDRContainsOwnAddress(t *testing.T) {
	for _, s := range []string{
		"10.0.0.1/32",
		"10.0.0.1/24",
		"192.168.1.240/28",
		"0.0.0.0/0",
		"255.255.255.255/32",
	} {
		r, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		a := netip.MustParsePrefix(s).Addr()
		if !r.Contains(a) {
			t.Errorf("Parse(%q).Contains(%s) = false, want true", s, a)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, s := range []string{
		"999.1.1.1/24",
		"10.0.0.1/33",
		"10.0.0.1/-1",
		"10.0.0.1-abc",
		"",
		"   ",
		"10.0.0.1",
		"fe80::1/64",
		"10.0.0.1/abc",
	} {
		if _, err := Parse(s); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) = %v, want ErrMalformed", s, err)
		}
	}
}

func TestContains_CIDRPool(t *testing.T) {
	r, err := Parse("192.168.1.240/28")
	if err != nil {
		t.Fatal(err)
	}

	for i := 240; i <= 255; i++ {
		a := Uint32ToAddr(AddrToUint32(addr(t, "192.168.1.0")) + uint32(i))
		if !r.Contains(a) {
			t.Errorf("Contains(%s) = false, want true", a)
		}
	}
	for _, s := range []string{"192.168.1.239", "192.168.2.1", "10.0.0.1"} {
		if r.Contains(addr(t, s)) {
			t.Errorf("Contains(%s) = true, want false", s)
		}
	}
	if got := r.Size(); got != 16 {
		t.Errorf("Size() = %d, want 16", got)
	}
}

func TestContains_BoundedPool(t *testing.T) {
	r, err := Parse("192.168.1.200-192.168.1.207")
	if err != nil {
		t.Fatal(err)
	}

	accepted := 0
	for i := 190; i <= 215; i++ {
		a := Uint32ToAddr(AddrToUint32(addr(t, "192.168.1.0")) + uint32(i))
		if r.Contains(a) {
			accepted++
		}
	}
	if accepted != 8 {
		t.Errorf("accepted %d addresses, want 8", accepted)
	}
	for _, s := range []string{"192.168.1.199", "192.168.1.208"} {
		if r.Contains(addr(t, s)) {
			t.Errorf("Contains(%s) = true, want false", s)
		}
	}
	if got := r.Size(); got != 8 {
		t.Errorf("Size() = %d, want 8", got)
	}
}

func TestContains_BoundedClosedInterval(t *testing.T) {
	r, err := Parse("10.0.0.5-10.0.0.9")
	if err != nil {
		t.Fatal(err)
	}
	for v := AddrToUint32(addr(t, "10.0.0.5")); v <= AddrToUint32(addr(t, "10.0.0.9")); v++ {
		if !r.Contains(Uint32ToAddr(v)) {
			t.Errorf("Contains(%s) = false inside interval", Uint32ToAddr(v))
		}
	}
	if r.Contains(addr(t, "10.0.0.4")) || r.Contains(addr(t, "10.0.0.10")) {
		t.Error("interval is not closed at its endpoints")
	}
}

func TestParse_InvertedBoundedIsEmpty(t *testing.T) {
	r, err := Parse("10.0.0.9-10.0.0.5")
	if err != nil {
		t.Fatalf("inverted range should parse: %v", err)
	}
	if r.Size() != 0 {
		t.Errorf("Size() = %d, want 0", r.Size())
	}
	for _, s := range []string{"10.0.0.5", "10.0.0.7", "10.0.0.9"} {
		if r.Contains(addr(t, s)) {
			t.Errorf("Contains(%s) = true on empty range", s)
		}
	}
}

func TestContains_PrefixZeroMatchesEverything(t *testing.T) {
	r, err := Parse("0.0.0.0/0")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"0.0.0.0", "10.1.2.3", "255.255.255.255"} {
		if !r.Contains(addr(t, s)) {
			t.Errorf("Contains(%s) = false under /0", s)
		}
	}
}

func TestContains_Prefix32MatchesExactlyOne(t *testing.T) {
	r, err := Parse("10.0.0.1/32")
	if err != nil {
		t.Fatal(err)
	}
	if !r.Contains(addr(t, "10.0.0.1")) {
		t.Error("Contains(10.0.0.1) = false under /32")
	}
	if r.Contains(addr(t, "10.0.0.2")) || r.Contains(addr(t, "10.0.0.0")) {
		t.Error("/32 matched more than its own address")
	}
	if r.Size() != 1 {
		t.Errorf("Size() = %d, want 1", r.Size())
	}
}

func TestContains_HostBitsUsedAsGiven(t *testing.T) {
	// 10.0.0.77/24: the host bits are kept as given and ignored under the
	// mask, so membership behaves like 10.0.0.0/24.
	r, err := Parse("10.0.0.77/24")
	if err != nil {
		t.Fatal(err)
	}
	if !r.Contains(addr(t, "10.0.0.1")) || !r.Contains(addr(t, "10.0.0.255")) {
		t.Error("masked membership should ignore host bits of the network address")
	}
	if r.Contains(addr(t, "10.0.1.1")) {
		t.Error("Contains(10.0.1.1) = true, want false")
	}
}

func TestContains_RejectsIPv6(t *testing.T) {
	r, err := Parse("0.0.0.0/0")
	if err != nil {
		t.Fatal(err)
	}
	if r.Contains(netip.MustParseAddr("fe80::1")) {
		t.Error("IPv6 address accepted by IPv4 range")
	}
}

func TestString_RoundTrips(t *testing.T) {
	for _, s := range []string{"10.0.0.77/24", "0.0.0.0/0", "192.168.1.200-192.168.1.207"} {
		r, err := Parse(s)
		if err != nil {
			t.Fatal(err)
		}
		if r.String() != s {
			t.Errorf("String() = %q, want %q", r.String(), s)
		}
	}
}

func TestAddrConversion_Inverse(t *testing.T) {
	for _, s := range []string{"0.0.0.0", "10.1.2.3", "255.255.255.255"} {
		a := addr(t, s)
		if got := Uint32ToAddr(AddrToUint32(a)); got != a {
			t.Errorf("round trip of %s = %s", a, got)
		}
	}
}
