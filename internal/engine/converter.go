// Package engine implements the mgen-to-JSON conversion pipeline.
//
// The pipeline has three stages, applied to each input line in file
// order: the Parser confirms a line is a RECV record with valid src/dst
// addresses, NodeName rewrites each address into its flat graph name, and
// the Graph accumulates the resulting edge into a deduplicated adjacency
// list. Lines that fail validation are skipped with a diagnostic and
// never abort a run. The accumulated graph is serialized once, as a
// single JSON array of {name, size, imports} records.
//
// Converter drives the one-shot flow; Tailer reuses the same per-line
// processing to follow a growing log in watch mode.
package engine

import (
	"bufio"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mgenviz/mgenviz/internal/utils/fileutil"
	"github.com/mgenviz/mgenviz/pkg/errors"
)

// maxLineSize bounds a single input line. mgen records are well under 1KB;
// the margin covers logs that passed through tooling that joins lines.
// Only one-shot reads enforce it; the tail path in watch mode buffers
// lines without a cap.
const maxLineSize = 1024 * 1024

// Options configures a Converter.
type Options struct {
	// Filter is an optional record filter expression; empty means all
	// valid RECV records are accumulated.
	Filter string
	// Logger receives skip diagnostics and the run summary.
	Logger *zap.SugaredLogger
}

// Converter drives the pipeline for one conversion run. It is safe for
// concurrent use: watch mode feeds lines from the tail goroutine while
// metrics snapshots are taken from another.
type Converter struct {
	mu     sync.Mutex
	logger *zap.SugaredLogger
	parser *Parser
	filter *Filter
	graph  *Graph
	stats  Stats
}

// NewConverter creates a Converter with an empty graph. It fails only if
// the filter expression does not compile.
func NewConverter(opts Options) (*Converter, error) {
	filter, err := CompileFilter(opts.Filter)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Converter{
		logger: logger,
		parser: NewParser(),
		filter: filter,
		graph:  NewGraph(),
	}, nil
}

// Convert runs the one-shot pipeline: read every line of inputPath,
// accumulate valid RECV records, then write the JSON graph to outputPath.
// If outputPath is empty it is derived from inputPath by replacing the
// final extension with ".json".
//
// Fatal conditions (unreadable input, empty input, unwritable output)
// are returned as wrapped sentinel errors; per-line failures are logged
// and skipped.
func (c *Converter) Convert(inputPath, outputPath string) error {
	if outputPath == "" {
		outputPath = DeriveOutputPath(inputPath)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return errors.NewInputError(inputPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.NewInputError(inputPath, err)
	}
	if info.Size() == 0 {
		return errors.NewEmptyInputError(inputPath)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		c.ProcessLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return errors.NewInputError(inputPath, err)
	}

	if err := c.Flush(outputPath); err != nil {
		return err
	}

	st := c.Stats()
	nodes, edges := c.GraphSize()
	c.logger.Infof("Wrote %s: %d nodes, %d edges (%s)",
		outputPath, nodes, edges, st.Summary())
	return nil
}

// ProcessLine runs one raw input line through the pipeline. Blank lines
// are dropped without counting; non-RECV lines count toward the record
// index but are otherwise ignored; invalid RECV lines are skipped with a
// diagnostic naming the record index and the failing field.
func (c *Converter) ProcessLine(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tokens := c.parser.Tokenize(line)
	if len(tokens) == 0 {
		return
	}
	c.stats.RecordsRead++

	if !c.parser.IsRecv(tokens) {
		return
	}
	c.stats.RecvRecords++

	rec, err := c.parser.Parse(tokens, c.stats.RecordsRead)
	if err != nil {
		switch {
		case stderrors.Is(err, errors.ErrMissingField):
			c.stats.SkippedField++
		case stderrors.Is(err, errors.ErrInvalidAddress):
			c.stats.SkippedAddress++
		}
		c.logger.Warnf("Ignoring record: %v", err)
		return
	}

	if c.filter != nil && !c.filter.Match(rec) {
		c.stats.FilteredOut++
		return
	}

	c.graph.RecordEdge(NodeName(rec.Src), NodeName(rec.Dst))
	c.stats.Accumulated++
}

// Flush writes the current graph snapshot to outputPath atomically, so a
// concurrent reader never observes a partial array.
func (c *Converter) Flush(outputPath string) error {
	c.mu.Lock()
	data, err := json.MarshalIndent(c.graph.Export(), "", "  ")
	c.mu.Unlock()
	if err != nil {
		return errors.NewOutputError(outputPath, err)
	}
	if err := fileutil.AtomicWriteFile(outputPath, data, 0644); err != nil {
		return errors.NewOutputError(outputPath, err)
	}
	return nil
}

// Stats returns a snapshot of the run counters.
func (c *Converter) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Export returns the current node records in insertion order.
func (c *Converter) Export() []NodeRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.Export()
}

// GraphSize returns the current node and edge counts.
func (c *Converter) GraphSize() (nodes, edges int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.NodeCount(), c.graph.EdgeCount()
}

// DeriveOutputPath replaces the final extension of inputPath with ".json";
// an extensionless input gains the extension. "traffic.drc" becomes
// "traffic.json".
func DeriveOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".json"
}
