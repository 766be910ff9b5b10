package engine

import (
	"strings"

	"github.com/mgenviz/mgenviz/internal/utils/iputil"
)

// NamePrefix is the namespace tag prepended to every graph node name.
const NamePrefix = "mgen."

// NodeName converts a validated node address into its graph name:
// the optional "/port" suffix is stripped and the address separators are
// rewritten as hyphens under the "mgen." namespace, so
// "127.0.0.1/5001" becomes "mgen.127-0-0-1".
//
// IPv6 colons are rewritten the same way, keeping names flat for the
// visualization layer. Two addresses that differ only in port always
// yield the same name.
//
// The input must already have passed address validation; NodeName itself
// performs none.
func NodeName(addr string) string {
	name := iputil.StripPort(addr)
	name = strings.ReplaceAll(name, ".", "-")
	name = strings.ReplaceAll(name, ":", "-")
	return NamePrefix + name
}
