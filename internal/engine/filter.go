package engine

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mgenviz/mgenviz/pkg/errors"
)

// Env is the expression environment exposed to a record filter.
// Src and Dst carry the raw endpoint addresses as logged (with the
// optional "/port" suffix); every other mgen field is reachable through
// Field or one of the named helpers.
type Env struct {
	Src string
	Dst string

	rec *Record
}

// Field returns the value of any tagged field on the record.
func (e *Env) Field(key string) string {
	return e.rec.Field(key)
}

// Proto returns the record's protocol field (e.g. "UDP", "TCP").
func (e *Env) Proto() string { return e.rec.Field("proto") }

// Flow returns the record's flow identifier.
func (e *Env) Flow() string { return e.rec.Field("flow") }

// Seq returns the record's sequence number field.
func (e *Env) Seq() string { return e.rec.Field("seq") }

// Filter is a compiled boolean expression over RECV records. A record
// enters the graph only when the expression evaluates to true, e.g.
// `Proto() == "UDP" && Flow() != "9"`.
type Filter struct {
	src     string
	program *vm.Program
}

// CompileFilter compiles a filter expression. An empty source returns a
// nil Filter, meaning every valid record passes.
func CompileFilter(src string) (*Filter, error) {
	if src == "" {
		return nil, nil
	}
	program, err := expr.Compile(src, expr.Env(&Env{}))
	if err != nil {
		return nil, errors.NewFilterError(src, err)
	}
	return &Filter{src: src, program: program}, nil
}

// String returns the filter's source text.
func (f *Filter) String() string {
	return f.src
}

// Match evaluates the filter against one record. A runtime evaluation
// error or a non-boolean result counts as a non-match.
func (f *Filter) Match(rec *Record) bool {
	output, err := expr.Run(f.program, &Env{Src: rec.Src, Dst: rec.Dst, rec: rec})
	if err != nil {
		return false
	}
	matched, ok := output.(bool)
	return ok && matched
}
