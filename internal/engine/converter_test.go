package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mgenviz/mgenviz/pkg/errors"
)

// The six notional RECV lines from the mgen documentation.
const sampleLog = `22:55:07.470450 RECV proto>UDP flow>1 seq>0 src>127.0.0.1/5001 dst>127.0.0.2/5000 sent>22:55:07.470351 size>1024
22:55:08.470981 RECV proto>UDP flow>1 seq>1 src>127.0.0.1/5001 dst>127.0.0.2/5000 sent>22:55:08.470860 size>1024
22:55:10.471264 RECV proto>UDP flow>2 seq>0 src>127.0.0.1/5001 dst>127.0.0.3/5000 sent>22:55:10.471120 size>1024
22:55:11.471280 RECV proto>UDP flow>3 seq>0 src>127.0.0.2/5001 dst>127.0.0.3/5000 sent>22:55:11.471140 size>1024
22:55:13.471262 RECV proto>UDP flow>4 seq>0 src>127.0.0.2/5001 dst>127.0.0.1/5000 sent>22:55:13.471120 size>1024
22:55:14.471251 RECV proto>UDP flow>5 seq>0 src>127.0.0.1/5001 dst>127.0.0.4/5000 sent>22:55:14.471128 size>1024
`

func newTestConverter(t *testing.T, opts Options) (*Converter, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	opts.Logger = zap.New(core).Sugar()
	c, err := NewConverter(opts)
	require.NoError(t, err)
	return c, logs
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readOutput(t *testing.T, path string) []NodeRecord {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []NodeRecord
	require.NoError(t, json.Unmarshal(data, &records))
	return records
}

func TestConvertEndToEnd(t *testing.T) {
	c, _ := newTestConverter(t, Options{})
	input := writeInput(t, "traffic.drc", sampleLog)
	output := filepath.Join(filepath.Dir(input), "graph.json")

	require.NoError(t, c.Convert(input, output))

	records := readOutput(t, output)
	require.Len(t, records, 4)

	assert.Equal(t, NodeRecord{
		Name: "mgen.127-0-0-1", Size: 3,
		Imports: []string{"mgen.127-0-0-2", "mgen.127-0-0-3", "mgen.127-0-0-4"},
	}, records[0])
	// Node 2's destinations arrive as 127.0.0.3 (flow 3) then 127.0.0.1
	// (flow 4), so its imports list that first-recorded order.
	assert.Equal(t, NodeRecord{
		Name: "mgen.127-0-0-2", Size: 2,
		Imports: []string{"mgen.127-0-0-3", "mgen.127-0-0-1"},
	}, records[1])
	assert.Equal(t, NodeRecord{Name: "mgen.127-0-0-3", Size: 0, Imports: []string{}}, records[2])
	assert.Equal(t, NodeRecord{Name: "mgen.127-0-0-4", Size: 0, Imports: []string{}}, records[3])

	st := c.Stats()
	assert.Equal(t, 6, st.RecordsRead)
	assert.Equal(t, 6, st.RecvRecords)
	assert.Equal(t, 6, st.Accumulated)
	assert.Equal(t, 0, st.Skipped())
}

func TestConvertDerivesOutputPath(t *testing.T) {
	c, _ := newTestConverter(t, Options{})
	input := writeInput(t, "traffic.drc", sampleLog)

	require.NoError(t, c.Convert(input, ""))

	derived := strings.TrimSuffix(input, ".drc") + ".json"
	records := readOutput(t, derived)
	assert.Len(t, records, 4)
}

func TestConvertMissingInput(t *testing.T) {
	c, _ := newTestConverter(t, Options{})
	err := c.Convert(filepath.Join(t.TempDir(), "absent.drc"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInputNotFound)
}

func TestConvertEmptyInput(t *testing.T) {
	c, _ := newTestConverter(t, Options{})
	input := writeInput(t, "empty.drc", "")

	err := c.Convert(input, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInputEmpty)

	// No output is produced for a fatal condition.
	_, statErr := os.Stat(strings.TrimSuffix(input, ".drc") + ".json")
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertUnwritableOutput(t *testing.T) {
	c, _ := newTestConverter(t, Options{})
	input := writeInput(t, "traffic.drc", sampleLog)

	err := c.Convert(input, filepath.Join(t.TempDir(), "no", "such", "dir", "out.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrOutputCreate)
}

func TestSkipAndContinue(t *testing.T) {
	// One line missing dst, one with an invalid address, sandwiched
	// between valid lines: both are skipped with a diagnostic and the
	// graph reflects only the valid lines.
	log := strings.Join([]string{
		"22:55:07.470450 RECV proto>UDP flow>1 seq>0 src>127.0.0.1/5001 dst>127.0.0.2/5000 sent>x size>1024",
		"22:55:08.470981 RECV proto>UDP flow>1 seq>1 src>127.0.0.1/5001 sent>x size>1024",
		"22:55:09.470981 RECV proto>UDP flow>1 seq>2 src>999.999.999.999/5001 dst>127.0.0.2/5000 sent>x size>1024",
		"22:55:10.471264 RECV proto>UDP flow>2 seq>0 src>127.0.0.1/5001 dst>127.0.0.3/5000 sent>x size>1024",
	}, "\n") + "\n"

	c, logs := newTestConverter(t, Options{})
	input := writeInput(t, "traffic.drc", log)
	output := filepath.Join(filepath.Dir(input), "out.json")

	require.NoError(t, c.Convert(input, output))

	records := readOutput(t, output)
	require.Len(t, records, 3)
	assert.Equal(t, "mgen.127-0-0-1", records[0].Name)
	assert.Equal(t, []string{"mgen.127-0-0-2", "mgen.127-0-0-3"}, records[0].Imports)

	st := c.Stats()
	assert.Equal(t, 4, st.RecordsRead)
	assert.Equal(t, 1, st.SkippedField)
	assert.Equal(t, 1, st.SkippedAddress)
	assert.Equal(t, 2, st.Accumulated)

	// Both skips were announced with their record positions.
	entries := logs.FilterMessageSnippet("Ignoring record").All()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].Message, "record=2")
	assert.Contains(t, entries[0].Message, "field=dst")
	assert.Contains(t, entries[1].Message, "record=3")
	assert.Contains(t, entries[1].Message, "999.999.999.999")
}

func TestBlankLinesNotCounted(t *testing.T) {
	log := "\n\n" +
		"22:55:07.470450 RECV proto>UDP flow>1 seq>0 src>127.0.0.1/5001 dst>127.0.0.2/5000 sent>x size>1024\n" +
		"\n" +
		"not a recv line\n" +
		"22:55:08.470981 RECV proto>UDP flow>1 seq>1 src>127.0.0.1/5001 sent>x size>1024\n"

	c, logs := newTestConverter(t, Options{})
	input := writeInput(t, "traffic.drc", log)
	require.NoError(t, c.Convert(input, filepath.Join(filepath.Dir(input), "out.json")))

	st := c.Stats()
	// Blank lines don't count; the banner line does.
	assert.Equal(t, 3, st.RecordsRead)
	assert.Equal(t, 2, st.RecvRecords)

	// The bad RECV line is the third non-blank line.
	entries := logs.FilterMessageSnippet("Ignoring record").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "record=3")
}

func TestNonRecvLinesIgnoredSilently(t *testing.T) {
	log := "mgen: version 5.02\n" +
		"22:55:07.000000 START\n" +
		"22:55:07.470450 SEND proto>UDP flow>1 seq>0 src>broken dst>broken\n" +
		"22:55:07.470450 RECV proto>UDP flow>1 seq>0 src>127.0.0.1/5001 dst>127.0.0.2/5000 sent>x size>1024\n"

	c, logs := newTestConverter(t, Options{})
	input := writeInput(t, "traffic.drc", log)
	require.NoError(t, c.Convert(input, filepath.Join(filepath.Dir(input), "out.json")))

	assert.Equal(t, 2, len(readOutput(t, filepath.Join(filepath.Dir(input), "out.json"))))
	assert.Empty(t, logs.FilterMessageSnippet("Ignoring record").All())

	st := c.Stats()
	assert.Equal(t, 4, st.RecordsRead)
	assert.Equal(t, 1, st.RecvRecords)
	assert.Equal(t, 0, st.Skipped())
}

func TestConvertWithFilter(t *testing.T) {
	log := "22:55:07.470450 RECV proto>UDP flow>1 seq>0 src>127.0.0.1/5001 dst>127.0.0.2/5000 sent>x size>1024\n" +
		"22:55:08.470981 RECV proto>TCP flow>2 seq>0 src>127.0.0.1/5001 dst>127.0.0.3/5000 sent>x size>1024\n"

	c, _ := newTestConverter(t, Options{Filter: `Proto() == "UDP"`})
	input := writeInput(t, "traffic.drc", log)
	output := filepath.Join(filepath.Dir(input), "out.json")
	require.NoError(t, c.Convert(input, output))

	records := readOutput(t, output)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"mgen.127-0-0-2"}, records[0].Imports)

	st := c.Stats()
	assert.Equal(t, 1, st.FilteredOut)
	assert.Equal(t, 1, st.Accumulated)
}

func TestNewConverterBadFilter(t *testing.T) {
	_, err := NewConverter(Options{Filter: "Proto() =="})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidFilter)
}

func TestDeriveOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"traffic.drc", "traffic.json"},
		{"/data/run1/traffic.log", "/data/run1/traffic.json"},
		{"traffic", "traffic.json"},
		{"a.b.c", "a.b.json"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveOutputPath(tt.input))
		})
	}
}

func TestIdempotentPairAccumulation(t *testing.T) {
	// The same (A, B) pair repeated many times yields exactly one import.
	c, _ := newTestConverter(t, Options{})
	line := "22:55:07.470450 RECV proto>UDP flow>1 seq>0 src>10.0.0.1/5001 dst>10.0.0.2/5000 sent>x size>1024"
	for i := 0; i < 50; i++ {
		c.ProcessLine(line)
	}

	records := c.Export()
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Size)
	assert.Equal(t, 50, c.Stats().Accumulated)
}

func TestSelfLoopEndToEnd(t *testing.T) {
	c, _ := newTestConverter(t, Options{})
	c.ProcessLine("22:55:07.470450 RECV proto>UDP flow>1 seq>0 src>127.0.0.1/5001 dst>127.0.0.1/5000 sent>x size>1024")

	records := c.Export()
	require.Len(t, records, 1)
	assert.Equal(t, NodeRecord{
		Name: "mgen.127-0-0-1", Size: 1, Imports: []string{"mgen.127-0-0-1"},
	}, records[0])
}
