package main

import "time"

// Status records the outcome of a lyrics lookup for a table row
type Status string

const (
	StatusPending        Status = "pending"
	StatusFound          Status = "found"
	StatusNotFound       Status = "not_found"
	StatusTransportError Status = "transport_error"
	StatusFormatError    Status = "format_error"
	StatusSkipped        Status = "skipped"
)

// ParseStatus maps a persisted status string back to a Status. Unknown values
// are treated as pending so that a row is never silently dropped.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusFound, StatusNotFound, StatusTransportError, StatusFormatError, StatusSkipped:
		return Status(s)
	default:
		return StatusPending
	}
}

// LyricsQuery identifies a song on the lyrics site
type LyricsQuery struct {
	Artist string
	Title  string
}

// LyricsResult is the outcome of a single extraction call. Anything other
// than StatusFound is an absence: the caller stores an empty string.
type LyricsResult struct {
	URL       string
	Text      string
	Status    Status
	Err       error
	FetchedAt time.Time
}

// Found reports whether the result carries lyrics
func (r *LyricsResult) Found() bool {
	return r != nil && r.Status == StatusFound && r.Text != ""
}

// Row is one track of the lyrics table
type Row struct {
	Index  string
	Artist string
	Album  string
	Title  string
	Lyrics string
	Status Status
}

// Pending reports whether the row still needs a lookup. A row holding an
// intentional empty string (skipped, not found) is not pending.
func (r Row) Pending() bool {
	return r.Status == StatusPending || r.Status == ""
}

// Table is the persisted discography, in file order
type Table struct {
	HasIndex bool
	Rows     []Row
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	rows := make([]Row, len(t.Rows))
	copy(rows, t.Rows)
	return &Table{HasIndex: t.HasIndex, Rows: rows}
}

// ProcessingResult tracks the outcome of processing each row
type ProcessingResult struct {
	Row    int
	Title  string
	URL    string
	Status Status
	Error  error
}
