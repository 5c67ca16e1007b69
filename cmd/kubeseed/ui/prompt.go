package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"kubeseed/pkg/iprange"
)

// ErrNoInteraction means a prompt was needed on a non-interactive
// terminal; the message names the flag that bypasses it.
var ErrNoInteraction = errors.New("interactive terminal required")

// PromptPool asks the operator for the load-balancer address pool until
// the input parses. Malformed input is reported and re-prompted, never
// silently defaulted.
func PromptPool(in io.Reader, out io.Writer) (iprange.Range, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, Bold("Address pool")+Muted(" (CIDR a.b.c.d/n or range a.b.c.d-e.f.g.h)")+": ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return iprange.Range{}, fmt.Errorf("read pool input: %w", err)
			}
			return iprange.Range{}, errors.New("input closed before a valid pool was entered")
		}

		pool, err := iprange.Parse(scanner.Text())
		if err != nil {
			fmt.Fprintln(out, Error("  "+err.Error()))
			continue
		}
		if pool.Size() == 0 {
			fmt.Fprintln(out, Error("  range contains no addresses (start is above end)"))
			continue
		}
		if strings.HasSuffix(pool.String(), "/0") {
			// Accepted, but worth a warning: /0 matches every address.
			fmt.Fprintln(out, Warn("  warning: /0 grants the entire address space"))
		}
		return pool, nil
	}
}
