package iprange

import "testing"

func FuzzParse(f *testing.F) {
	f.Add("192.168.1.240/28")
	f.Add("192.168.1.200-192.168.1.207")
	f.Add("0.0.0.0/0")
	f.Add("10.0.0.9-10.0.0.5")

	f.Fuzz(func(t *testing.T, text string) {
		r, err := Parse(text)
		if err != nil {
			return
		}

		// A parsed range renders back to a form that parses to the same range.
		again, err := Parse(r.String())
		if err != nil {
			t.Fatalf("String() %q does not re-parse: %v", r.String(), err)
		}
		if again != r {
			t.Errorf("re-parse of %q gave %v, want %v", r.String(), again, r)
		}

		// Size and membership agree on the endpoints of non-empty bounded ranges.
		if r.kind == kindBounded && r.Size() > 0 {
			if !r.Contains(Uint32ToAddr(r.start)) || !r.Contains(Uint32ToAddr(r.end)) {
				t.Error("bounded range excludes its own endpoints")
			}
		}

		// A CIDR range always contains the address it was written with.
		if r.kind == kindCIDR && !r.Contains(Uint32ToAddr(r.network)) {
			t.Error("CIDR range excludes its own network address")
		}
	})
}
