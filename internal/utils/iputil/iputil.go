package iputil

import (
	"net/netip"
	"strings"
)

// StripPort returns the address portion of an mgen node address.
// mgen writes endpoints as "addr/port" (e.g. "127.0.0.1/5001"); the port
// suffix is optional and never validated, matching mgen's own output.
func StripPort(addr string) string {
	if i := strings.IndexByte(addr, '/'); i >= 0 {
		return addr[:i]
	}
	return addr
}

// ParseNodeAddress strips the optional "/port" suffix and parses the
// remainder as an IP address (IPv4 or IPv6).
func ParseNodeAddress(addr string) (netip.Addr, error) {
	return netip.ParseAddr(StripPort(addr))
}

// IsValidNodeAddress reports whether addr is a syntactically valid mgen
// node address, i.e. an IP address with an optional "/port" suffix.
func IsValidNodeAddress(addr string) bool {
	_, err := ParseNodeAddress(addr)
	return err == nil
}
