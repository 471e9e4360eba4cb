package netlist

import (
	"net/netip"
	"strings"
	"unicode"
)

// isNetChar reports whether r would be expected in an IPv4 or IPv6 CIDR literal.
func isNetChar(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	case r == '.' || r == ':' || r == '/':
		return true
	}
	return false
}

// justTheNet strips a line down to a candidate CIDR literal by removing
// leading whitespace and then everything from the first character that cannot
// appear in a network address.
func justTheNet(line string) string {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if i := strings.IndexFunc(trimmed, func(r rune) bool { return !isNetChar(r) }); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

// Extract finds IPv4 and IPv6 network prefixes in text, silently discarding
// everything else. Input order is preserved and duplicates are kept;
// deduplication is Aggregate's job. Host bits beyond the prefix length are
// masked off rather than rejected, since real-world lists often carry them.
// Extract never fails: a line that does not parse as a CIDR literal yields
// nothing.
func Extract(text string) []netip.Prefix {
	var nets []netip.Prefix
	for _, line := range strings.Split(text, "\n") {
		candidate := justTheNet(strings.TrimSuffix(line, "\r"))
		if candidate == "" {
			continue
		}
		p, err := netip.ParsePrefix(candidate)
		if err != nil {
			continue
		}
		nets = append(nets, p.Masked())
	}
	return nets
}
