package netlist

import (
	"bufio"
	"bytes"
	"io"
	"net/netip"
)

// Write writes prefixes one per line in CIDR notation, with exactly one
// terminating newline after the last entry. netip's String renders the
// canonical textual form per family (dotted-quad for IPv4, compressed
// colon-hex for IPv6).
func Write(w io.Writer, nets []netip.Prefix) error {
	bw := bufio.NewWriter(w)
	for _, p := range nets {
		if _, err := bw.WriteString(p.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Serialize renders the list into a byte slice in the same format as Write.
func Serialize(nets []netip.Prefix) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = Write(&buf, nets)
	return buf.Bytes()
}
