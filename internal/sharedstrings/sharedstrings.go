// Package sharedstrings is the Shared String Table (C5): an index-addressed
// table of strings, populated by streaming xl/sharedStrings.xml once in
// Build. This module's Batch calls Build before scanning a worksheet
// whenever the workbook has that part, not on the first cell of type "s".
package sharedstrings

import (
	"fmt"
	"io"

	"github.com/wbreader/xlsxstream/internal/xmlevents"
)

// Table holds every string loaded from one pass over xl/sharedStrings.xml.
// Once built, it is immutable for the life of the call that built it (spec
// §3's shared-string-table invariant).
type Table struct {
	strings []string
}

// Error wraps a parse failure encountered while streaming
// xl/sharedStrings.xml.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sharedstrings: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("sharedstrings: %s", e.Msg)
}
func (e *Error) Unwrap() error { return e.Err }

// Build streams r — the full contents of xl/sharedStrings.xml — and
// returns the populated table. Each "si" element's concatenated descendant
// "t" text (flattening any rich-text "r" runs) becomes one entry, in
// document order, so the result is addressable by the same 0-based index
// cells of type "s" reference.
func Build(r io.Reader) (*Table, error) {
	p := xmlevents.New(r)
	t := &Table{}

	// Skip forward to the <sst> root's first <si> child; anything else
	// (the <sst> start tag itself, its count/uniqueCount attrs) is ignored.
	for {
		ev, err := p.Next()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, &Error{Msg: "scan for sst", Err: err}
		}
		if ev.Kind != xmlevents.StartTag {
			continue
		}
		switch ev.Name {
		case "sst":
			continue
		case "si":
			text, err := p.ReadText()
			if err != nil {
				return nil, &Error{Msg: "read si text", Err: err}
			}
			t.strings = append(t.strings, text)
		default:
			if err := p.SkipSubtree(); err != nil {
				return nil, &Error{Msg: "skip unexpected element", Err: err}
			}
		}
	}
}

// Get returns the string at idx. ok is false if idx is out of range.
func (t *Table) Get(idx int) (string, bool) {
	if t == nil || idx < 0 || idx >= len(t.strings) {
		return "", false
	}
	return t.strings[idx], true
}

// Len returns the number of strings loaded.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.strings)
}
