package engine

import "fmt"

// Stats tracks per-run pipeline counters. The zero value is ready to use.
type Stats struct {
	// RecordsRead counts non-blank input lines, valid or not; it is the
	// record index reported in diagnostics.
	RecordsRead int
	// RecvRecords counts lines whose second token was RECV.
	RecvRecords int
	// Accumulated counts RECV records that reached the graph.
	Accumulated int
	// SkippedField counts RECV records rejected for a missing src or dst tag.
	SkippedField int
	// SkippedAddress counts RECV records rejected for an invalid IP address.
	SkippedAddress int
	// FilteredOut counts valid RECV records excluded by the record filter.
	FilteredOut int
}

// Skipped returns the total number of rejected RECV records.
func (s Stats) Skipped() int {
	return s.SkippedField + s.SkippedAddress
}

// Summary renders a one-line run report for the console.
func (s Stats) Summary() string {
	return fmt.Sprintf("%d records read, %d RECV, %d accumulated, %d skipped (%d missing field, %d bad address), %d filtered out",
		s.RecordsRead, s.RecvRecords, s.Accumulated, s.Skipped(), s.SkippedField, s.SkippedAddress, s.FilteredOut)
}
