package netlist

import (
	"cmp"
	"net/netip"
	"slices"
)

// Aggregate merges networks into the minimal equivalent set of disjoint CIDR
// blocks. IPv4 and IPv6 are aggregated independently and never merged across
// families. The result covers exactly the same address space as the input,
// contains no duplicate, subset or mergeable sibling blocks, and is sorted
// IPv4 first, then numerically by base address. Aggregate is pure and total:
// empty input yields empty output, and aggregating twice changes nothing.
func Aggregate(nets []netip.Prefix) []netip.Prefix {
	var v4, v6 []netip.Prefix
	for _, p := range nets {
		if !p.IsValid() {
			continue
		}
		p = p.Masked()
		if p.Addr().Is4() {
			v4 = append(v4, p)
		} else {
			v6 = append(v6, p)
		}
	}

	out := aggregateFamily(v4)
	return append(out, aggregateFamily(v6)...)
}

func aggregateFamily(nets []netip.Prefix) []netip.Prefix {
	if len(nets) == 0 {
		return nil
	}

	slices.SortFunc(nets, comparePrefixes)

	var out []netip.Prefix
	for _, p := range nets {
		if len(out) > 0 {
			// CIDR blocks either nest or are disjoint, so after sorting a
			// single look at the previous survivor catches every duplicate
			// and subset.
			if last := out[len(out)-1]; last == p || last.Contains(p.Addr()) {
				continue
			}
		}
		out = append(out, p)

		// Fold sibling pairs upward until the top of the list no longer
		// forms half of a shorter-prefix block.
		for len(out) >= 2 {
			parent, ok := mergeSiblings(out[len(out)-2], out[len(out)-1])
			if !ok {
				break
			}
			out = out[:len(out)-2]
			out = append(out, parent)
		}
	}

	return out
}

// comparePrefixes orders prefixes by base address, ties broken by prefix
// length ascending (supersets before their subsets).
func comparePrefixes(a, b netip.Prefix) int {
	if c := a.Addr().Compare(b.Addr()); c != 0 {
		return c
	}
	return cmp.Compare(a.Bits(), b.Bits())
}

// mergeSiblings merges a and b into their one-bit-shorter parent block when
// they are exactly its two halves. Both arguments must be canonical (masked)
// and a must sort before b.
func mergeSiblings(a, b netip.Prefix) (netip.Prefix, bool) {
	if a.Bits() != b.Bits() || a.Bits() == 0 || a.Addr() == b.Addr() {
		return netip.Prefix{}, false
	}

	parent := netip.PrefixFrom(a.Addr(), a.Bits()-1).Masked()
	if parent.Addr() != a.Addr() {
		// a is the upper half of its parent, so b cannot complete the pair.
		return netip.Prefix{}, false
	}
	if netip.PrefixFrom(b.Addr(), b.Bits()-1).Masked().Addr() != a.Addr() {
		return netip.Prefix{}, false
	}

	return parent, true
}
