package engine

import "strings"

// Tokenizer splits raw mgen lines into whitespace-delimited tokens.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer instance.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize splits a line into fields on runs of whitespace.
// mgen separates record fields with single spaces, but logs that have
// passed through other tooling may carry tabs or doubled spaces, so the
// splitter treats any whitespace run as one separator. A blank line
// yields no tokens.
func (t *Tokenizer) Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
