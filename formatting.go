package xlsxstream

import (
	"github.com/wbreader/xlsxstream/internal/ziparchive"
	"github.com/wbreader/xlsxstream/numfmt"
	"github.com/wbreader/xlsxstream/styles"
)

// StyleTable resolves a worksheet's optional xl/styles.xml number-format
// metadata. It is a separate extension from [Batch] (spec §9's design
// notes: styles are orthogonal to cell extraction, so this package never
// loads them unless the caller asks) — cells carry only their raw typed
// value plus a style index; rendering a display string is opt-in.
type StyleTable struct {
	table    styles.StyleTable
	date1904 bool
}

// ParseStyles loads buf's xl/styles.xml and workbook date system, returning
// a StyleTable usable with [StyleTable.FormatCell] and [StyleTable.IsDate].
// It returns a table with no entries (every index reports "General", not a
// date) when the workbook has no styles part.
func ParseStyles(buf []byte) (*StyleTable, error) {
	ar, err := openArchive(buf)
	if err != nil {
		return nil, err
	}
	idx, err := buildIndex(ar)
	if err != nil {
		return nil, err
	}
	return parseStylesFrom(ar, idx.StylesPath, idx.Date1904)
}

func parseStylesFrom(ar *ziparchive.Archive, path string, date1904 bool) (*StyleTable, error) {
	if path == "" {
		return &StyleTable{date1904: date1904}, nil
	}
	rc, err := ar.Open(path)
	if err != nil {
		return nil, translateZipErr(err)
	}
	defer rc.Close()
	st, err := styles.Build(rc)
	if err != nil {
		return nil, wrapf(MalformedXML, err, "%v", err)
	}
	return &StyleTable{table: st, date1904: date1904}, nil
}

// IsDate reports whether cell c's style index represents a date or
// datetime number format.
func (st *StyleTable) IsDate(c Cell) bool {
	return st.table.IsDate(c.Style)
}

// FormatCell renders cell c's raw value as Excel would display it,
// resolving its number format from the style index c carries. Numeric
// cells under a date/datetime format are converted with the same serial
// arithmetic [ConvertDateEx] uses (internal/xldate), under this table's
// workbook date system, and rendered through the same
// token-by-token engine as numeric formats.
func (st *StyleTable) FormatCell(c Cell) string {
	return numfmt.FormatValue(AsCellValue(c), st.table.NumFmtID(c.Style), st.table.FmtStr(c.Style), st.date1904)
}
