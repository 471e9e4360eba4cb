// Package netlist turns noisy plain-text prefix lists into a minimal,
// canonically ordered set of CIDR blocks.
//
// Extract pulls IPv4/IPv6 network literals out of arbitrary text on a
// best-effort basis, Aggregate losslessly merges them into the smallest
// equivalent covering set, and Write/Serialize render the result one CIDR
// per line. Networks are represented as canonical (masked) netip.Prefix
// values throughout; all aggregation arithmetic is exact bit manipulation on
// addresses, never string or float math.
package netlist
