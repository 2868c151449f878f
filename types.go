package xlsxstream

import "github.com/wbreader/xlsxstream/internal/extractor"

// CellKind is the closed tagged variant a Cell carries. At the package
// boundary (spec §6) a cell is one of: null, a float64, a bool, or a
// string — ErrorValue is encoded as a string prefixed '#' rather than as a
// distinct wire kind, but is kept distinct here so callers can branch on it
// without a string-prefix check.
type CellKind = extractor.CellKind

const (
	Empty      = extractor.Empty
	Number     = extractor.Number
	Boolean    = extractor.Boolean
	Text       = extractor.Text
	ErrorValue = extractor.ErrorValue
)

// Cell is one resolved worksheet cell value.
type Cell = extractor.Cell

// Row is a 0-based-column-indexed sequence of cells, trimmed to one past
// its last non-empty cell (spec §3).
type Row = extractor.Row

// BatchResult is the half-open row window returned by Batch.
type BatchResult struct {
	// Rows holds up to Count rows starting at Start.
	Rows []Row
	// Start is the 0-based row ordinal the window begins at.
	Start uint64
	// Returned is the number of rows actually materialised (<= the
	// requested count).
	Returned uint32
	// Done is true iff the extractor reached end-of-sheet before filling
	// count.
	Done bool
}

// Visibility is a worksheet's tab visibility state.
type Visibility int

const (
	// VisibilityVisible means the sheet tab is shown normally.
	VisibilityVisible Visibility = iota
	// VisibilityHidden means the sheet is hidden but user-unhideable.
	VisibilityHidden
	// VisibilityVeryHidden means the sheet is hidden and only reachable
	// programmatically (VBA or direct package access), not via Excel's UI.
	VisibilityVeryHidden
)

// SheetInfo describes one worksheet in workbook declaration order.
type SheetInfo struct {
	Name       string
	ID         uint32
	Visibility Visibility
}

// AsCellValue returns the cell's value at the external boundary: nil,
// float64, bool, or string (error values are strings, already carrying
// their leading '#').
func AsCellValue(c Cell) any {
	switch c.Kind {
	case Number:
		return c.Number
	case Boolean:
		return c.Bool
	case Text, ErrorValue:
		return c.Text
	default:
		return nil
	}
}
