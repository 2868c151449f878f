// Package extractor is the Sheet Row Extractor (C6), the heart of the
// system. It scans one worksheet part's XML, assembles rows from "c"
// elements keyed by their "r" cell reference, and returns a half-open row
// window [start, start+count), driving the Yield Scheduler (C7) between
// rows.
package extractor

import (
	"fmt"
	"io"
	"strconv"

	"github.com/wbreader/xlsxstream/internal/colref"
	"github.com/wbreader/xlsxstream/internal/sharedstrings"
	"github.com/wbreader/xlsxstream/internal/xmlevents"
	"github.com/wbreader/xlsxstream/internal/yield"
)

// CellKind is the closed tagged variant spec §3 requires for a cell value.
// Exhaustiveness of the switch over CellKind at every call site is the
// correctness check the design notes (§9) call for.
type CellKind int

const (
	Empty CellKind = iota
	Number
	Boolean
	Text
	ErrorValue
)

// Cell is one resolved cell value. Only the field matching Kind is
// meaningful.
type Cell struct {
	Kind   CellKind
	Number float64
	Bool   bool
	Text   string // holds Text and ErrorValue payloads (error strings keep their leading '#')
	Style  int    // the "s" attribute of the <c> element; -1 if absent
}

// Row is a 0-based-column-indexed sequence of cells. Its length equals one
// plus the maximum column index of a non-Empty cell, or 0 if the row has no
// non-Empty cells (spec §3 invariant); it is never padded to a
// workbook-wide width.
type Row []Cell

// Result is the half-open row window spec §4.6 defines.
type Result struct {
	Rows     []Row
	Start    uint64
	Returned uint32
	Done     bool
}

// MalformedSheetError reports a structural invariant violation: a
// non-monotonic row ordinal, or a cell referencing an unpopulated
// shared-string index.
type MalformedSheetError struct{ Msg string }

func (e *MalformedSheetError) Error() string { return "malformed sheet: " + e.Msg }

// MissingSharedStringsError reports a cell of type "s" with no
// sharedStrings part available to resolve it against.
type MissingSharedStringsError struct{}

func (e *MissingSharedStringsError) Error() string {
	return "cell references shared string but no shared strings table is available"
}

// XMLError wraps a failure surfaced by the underlying XML pull parser.
type XMLError struct{ Err error }

func (e *XMLError) Error() string { return fmt.Sprintf("worksheet xml: %v", e.Err) }
func (e *XMLError) Unwrap() error { return e.Err }

// TruncatedError reports that the worksheet byte stream ended while
// sheetData was still open — short of the payload length the archive
// directory promised.
type TruncatedError struct{}

func (e *TruncatedError) Error() string { return "worksheet stream truncated before sheetData end" }

// Batch scans r — the full byte stream of one worksheet part — and returns
// up to count rows starting at the 0-based row ordinal start. sst may be
// nil when the workbook has no shared-strings part; a cell of type "s" is
// then a MissingSharedStringsError. sched drives cooperative yielding
// between rows (see package yield); pass yield.New(0, 0, nil) for defaults.
func Batch(r io.Reader, sst *sharedstrings.Table, start uint64, count uint32, sched *yield.Scheduler) (Result, error) {
	if count == 0 {
		return Result{}, fmt.Errorf("extractor: count must be > 0")
	}

	if sched != nil {
		r = &countingReader{r: r, sched: sched}
	}
	p := xmlevents.New(r)
	if err := seekSheetData(p); err != nil {
		return Result{}, err
	}

	res := Result{Start: start}
	var nextOrdinal uint64
	end := start + uint64(count)

	for {
		ev, err := p.Next()
		if err == io.EOF {
			// The stream ended while sheetData was still open (its EndTag
			// would otherwise have been seen below): the payload was cut
			// short of what the archive directory promised.
			return Result{}, &TruncatedError{}
		}
		if err != nil {
			return Result{}, &XMLError{Err: err}
		}

		switch {
		case ev.Kind == xmlevents.EndTag && ev.Name == "sheetData":
			res.Done = true
			return res, nil

		case ev.Kind == xmlevents.StartTag && ev.Name == "row":
			ordinal := nextOrdinal
			if rAttr, ok := ev.Attr("r"); ok {
				r, perr := strconv.ParseUint(rAttr, 10, 64)
				if perr != nil || r == 0 {
					return Result{}, &MalformedSheetError{Msg: fmt.Sprintf("row has invalid r attribute %q", rAttr)}
				}
				ordinal = r - 1
				if ordinal < nextOrdinal {
					return Result{}, &MalformedSheetError{Msg: fmt.Sprintf("row r=%d is not greater than a previous row", r)}
				}
			}

			// Materialise (or count past) any gap rows implied by a jump in
			// the declared ordinal, per spec step 4: only the rows that
			// actually fall in the requested window are emitted.
			for nextOrdinal < ordinal {
				if nextOrdinal >= start && nextOrdinal < end {
					res.Rows = append(res.Rows, Row{})
					res.Returned++
					if uint64(res.Returned) == uint64(count) {
						return res, nil
					}
				}
				nextOrdinal++
			}

			if ordinal < start || ordinal >= end {
				// Outside the window: consume the row element without
				// building any cells.
				if err := p.SkipSubtree(); err != nil {
					return Result{}, &XMLError{Err: err}
				}
			} else {
				row, err := readRow(p, sst)
				if err != nil {
					return Result{}, err
				}
				res.Rows = append(res.Rows, row)
				res.Returned++
			}
			nextOrdinal = ordinal + 1
			if sched != nil {
				sched.Row()
			}
			if uint64(res.Returned) == uint64(count) {
				return res, nil
			}

		case ev.Kind == xmlevents.StartTag:
			// Anything else directly under sheetData that isn't "row" is
			// not part of the grammar subset this scanner recognises;
			// discard it without materialising.
			if err := p.SkipSubtree(); err != nil {
				return Result{}, &XMLError{Err: err}
			}
		}
	}
}

// countingReader drives the Yield Scheduler's byte cadence (spec §4.7:
// "at least once every 256 KiB of inflate output"), which the row cadence
// alone doesn't cover for a worksheet with very wide rows.
type countingReader struct {
	r     io.Reader
	sched *yield.Scheduler
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.sched.Bytes(n)
	}
	return n, err
}

// seekSheetData advances p until the sheetData start tag is reached,
// discarding all preceding content (spec §4.6 step 3).
func seekSheetData(p *xmlevents.Parser) error {
	for {
		ev, err := p.Next()
		if err == io.EOF {
			return &MalformedSheetError{Msg: "no sheetData element found"}
		}
		if err != nil {
			return &XMLError{Err: err}
		}
		if ev.Kind == xmlevents.StartTag && ev.Name == "sheetData" {
			return nil
		}
		// Only skip elements that are siblings of sheetData under the root
		// worksheet element (sheetPr, dimension, sheetViews, cols, ...).
		// The root worksheet element itself is also a StartTag here and
		// must be descended into, never skipped, or sheetData — and every
		// row in it — would be discarded along with it.
		if ev.Kind == xmlevents.StartTag && p.Depth() > 1 {
			if err := p.SkipSubtree(); err != nil {
				return &XMLError{Err: err}
			}
		}
	}
}

// readRow consumes one "row" element's children — having already consumed
// its StartTag — up to and including its EndTag, and returns the
// assembled, gap-filled, max-width-trimmed Row.
func readRow(p *xmlevents.Parser, sst *sharedstrings.Table) (Row, error) {
	cells := make(map[int]Cell)
	maxNonEmptyCol := -1
	prevCol := -1

	for {
		ev, err := p.Next()
		if err == io.EOF {
			return nil, &TruncatedError{}
		}
		if err != nil {
			return nil, &XMLError{Err: err}
		}
		if ev.Kind == xmlevents.EndTag && ev.Name == "row" {
			break
		}
		if ev.Kind != xmlevents.StartTag || ev.Name != "c" {
			continue
		}

		col := prevCol + 1
		if rAttr, ok := ev.Attr("r"); ok {
			letters, _ := colref.SplitRef(rAttr)
			if decoded := colref.Decode(letters); decoded >= 0 {
				col = decoded
			}
		}
		prevCol = col

		cell, err := readCell(p, ev, sst)
		if err != nil {
			return nil, err
		}
		cells[col] = cell // duplicate "r" within a row: the last one wins
	}

	// Measured after assembly, so a later duplicate that is Empty does not
	// leave the row wider than its last non-Empty cell.
	maxNonEmptyCol = -1
	for col, cell := range cells {
		if cell.Kind != Empty && col > maxNonEmptyCol {
			maxNonEmptyCol = col
		}
	}
	if maxNonEmptyCol < 0 {
		return Row{}, nil
	}
	row := make(Row, maxNonEmptyCol+1)
	for i := range row {
		row[i] = Cell{Style: -1}
	}
	for col, cell := range cells {
		if col <= maxNonEmptyCol {
			row[col] = cell
		}
	}
	return row, nil
}

// readCell consumes one "c" element's children — having already consumed
// its StartTag start — up to and including its EndTag, and resolves its
// typed value per spec §4.6 step 5.
func readCell(p *xmlevents.Parser, start xmlevents.Event, sst *sharedstrings.Table) (Cell, error) {
	cellType, _ := start.Attr("t")
	style := -1
	if sAttr, ok := start.Attr("s"); ok {
		if n, err := strconv.Atoi(sAttr); err == nil {
			style = n
		}
	}

	var rawValue string
	haveValue := false
	var inlineText string
	haveInline := false

	for {
		ev, err := p.Next()
		if err == io.EOF {
			return Cell{}, &TruncatedError{}
		}
		if err != nil {
			return Cell{}, &XMLError{Err: err}
		}
		if ev.Kind == xmlevents.EndTag && ev.Name == "c" {
			break
		}
		if ev.Kind != xmlevents.StartTag {
			continue
		}
		switch ev.Name {
		case "v":
			text, err := p.ReadText()
			if err != nil {
				return Cell{}, &XMLError{Err: err}
			}
			rawValue = text
			haveValue = true
		case "is":
			text, err := p.ReadText()
			if err != nil {
				return Cell{}, &XMLError{Err: err}
			}
			inlineText = text
			haveInline = true
		default:
			// "f" (cached formula text) and anything else this grammar
			// subset doesn't interpret.
			if err := p.SkipSubtree(); err != nil {
				return Cell{}, &XMLError{Err: err}
			}
		}
	}

	switch cellType {
	case "inlineStr":
		if !haveInline {
			return Cell{Kind: Empty, Style: style}, nil
		}
		return Cell{Kind: Text, Text: inlineText, Style: style}, nil
	case "str":
		if !haveValue {
			return Cell{Kind: Empty, Style: style}, nil
		}
		return Cell{Kind: Text, Text: rawValue, Style: style}, nil
	case "s":
		if !haveValue {
			return Cell{Kind: Empty, Style: style}, nil
		}
		idx, err := strconv.Atoi(rawValue)
		if err != nil {
			return Cell{Kind: ErrorValue, Text: "#NUM", Style: style}, nil
		}
		if sst == nil {
			return Cell{}, &MissingSharedStringsError{}
		}
		s, ok := sst.Get(idx)
		if !ok {
			return Cell{}, &MalformedSheetError{Msg: fmt.Sprintf("shared string index %d out of range (table has %d entries)", idx, sst.Len())}
		}
		return Cell{Kind: Text, Text: s, Style: style}, nil
	case "b":
		if !haveValue {
			return Cell{Kind: Empty, Style: style}, nil
		}
		switch rawValue {
		case "1":
			return Cell{Kind: Boolean, Bool: true, Style: style}, nil
		case "0":
			return Cell{Kind: Boolean, Bool: false, Style: style}, nil
		default:
			return Cell{Kind: ErrorValue, Text: "#BOOL", Style: style}, nil
		}
	case "e":
		if !haveValue {
			return Cell{Kind: Empty, Style: style}, nil
		}
		return Cell{Kind: ErrorValue, Text: rawValue, Style: style}, nil
	case "", "n":
		if !haveValue {
			return Cell{Kind: Empty, Style: style}, nil
		}
		f, err := strconv.ParseFloat(rawValue, 64)
		if err != nil {
			return Cell{Kind: ErrorValue, Text: "#NUM", Style: style}, nil
		}
		return Cell{Kind: Number, Number: f, Style: style}, nil
	default:
		// Unknown cell type: surfaced as Text of the raw v content.
		if !haveValue {
			return Cell{Kind: Empty, Style: style}, nil
		}
		return Cell{Kind: Text, Text: rawValue, Style: style}, nil
	}
}
