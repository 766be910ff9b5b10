package engine

import (
	"strings"

	"github.com/mgenviz/mgenviz/internal/utils/iputil"
	"github.com/mgenviz/mgenviz/pkg/errors"
)

// RecvTag marks a received-packet record. Only lines whose second token
// equals this literal are candidates for the graph; everything else in an
// mgen log (SEND, LISTEN, START, banner lines) is ignored outright.
const RecvTag = "RECV"

// fieldSep separates a field tag from its value in mgen output,
// e.g. "src>127.0.0.1/5001".
const fieldSep = ">"

// Record is one validated RECV record.
type Record struct {
	// Index is the 1-based position of the record among non-blank input
	// lines, used to locate the source line in diagnostics.
	Index int
	// Src and Dst are the raw endpoint addresses as logged, including the
	// optional "/port" suffix.
	Src string
	Dst string

	fields map[string]string
}

// Field returns the value of a tagged field ("proto", "flow", "seq",
// "sent", "size", ...) or the empty string if the record does not carry it.
func (r *Record) Field(key string) string {
	return r.fields[key]
}

// Parser validates candidate RECV lines and extracts their tagged fields.
//
// Fields are located by scanning every token for the "tag>value" shape
// rather than by fixed token position, so a RECV line remains parseable
// when mgen variants reorder or insert fields. A candidate line missing
// the src or dst field, or carrying an address that does not parse as an
// IP, is rejected; rejection is reported to the caller as an error and
// never aborts a run.
type Parser struct {
	tokenizer *Tokenizer
}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{tokenizer: NewTokenizer()}
}

// Tokenize exposes the parser's tokenizer for callers that need to
// inspect tokens before committing to a parse.
func (p *Parser) Tokenize(line string) []string {
	return p.tokenizer.Tokenize(line)
}

// IsRecv reports whether the tokens form a candidate RECV record.
// mgen writes the event type as the second token, after the timestamp.
func (p *Parser) IsRecv(tokens []string) bool {
	return len(tokens) > 1 && tokens[1] == RecvTag
}

// Parse builds a Record from the tokens of a candidate RECV line.
// index is the 1-based record position used in diagnostics.
//
// The returned error wraps errors.ErrMissingField when the src or dst
// field is absent, or errors.ErrInvalidAddress when either endpoint fails
// IP validation after its optional "/port" suffix is stripped.
func (p *Parser) Parse(tokens []string, index int) (*Record, error) {
	fields := make(map[string]string, len(tokens))
	for _, tok := range tokens {
		tag, value, ok := strings.Cut(tok, fieldSep)
		if !ok || tag == "" {
			continue
		}
		// First occurrence wins; mgen never repeats a tag within a record.
		if _, dup := fields[tag]; !dup {
			fields[tag] = value
		}
	}

	src, ok := fields["src"]
	if !ok {
		return nil, errors.NewFieldError(index, "src")
	}
	dst, ok := fields["dst"]
	if !ok {
		return nil, errors.NewFieldError(index, "dst")
	}

	if !iputil.IsValidNodeAddress(src) {
		return nil, errors.NewAddressError(index, "src", src)
	}
	if !iputil.IsValidNodeAddress(dst) {
		return nil, errors.NewAddressError(index, "dst", dst)
	}

	return &Record{Index: index, Src: src, Dst: dst, fields: fields}, nil
}
