// Package workbookindex is the Workbook Index (C4). It reads
// xl/workbook.xml and xl/_rels/workbook.xml.rels to build the ordered
// sheet list, and locates the optional shared-strings and styles parts via
// the same relationships file.
//
// xl/workbook.xml and its .rels file are small, fixed-shape documents —
// spec §3's ownership note explicitly calls rebuilding them on every call
// "acceptable because the directory parse is cheap relative to inflate".
// Unlike the worksheet scan (C6) and the shared-string table (C5), which
// must stream because they can be arbitrarily large, this component
// decodes both parts fully with encoding/xml.Unmarshal into plain structs —
// the same approach the teacher takes for its own .rels parsing, and the
// one isaacnfairplay-xml_readers' ReadWorkbook uses for workbook.xml.
package workbookindex

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/wbreader/xlsxstream/internal/rels"
	"github.com/wbreader/xlsxstream/internal/ziparchive"
)

// Visibility mirrors the sheet-tab visibility states ECMA-376 defines for
// the "state" attribute of a <sheet> element.
type Visibility int

const (
	Visible Visibility = iota
	Hidden
	VeryHidden
)

// Sheet is one entry in the workbook's declared sheet order.
type Sheet struct {
	Name       string
	ID         uint32
	RelID      string
	PartPath   string // fully-resolved archive path, e.g. "xl/worksheets/sheet1.xml"
	Visibility Visibility
}

// Index is the parsed result: the ordered sheet list plus the resolved
// paths of the optional shared-strings and styles parts.
type Index struct {
	Sheets            []Sheet
	SharedStringsPath string // "" if absent
	StylesPath        string // "" if absent
	Date1904          bool   // workbookPr date1904 attribute, false if absent
}

// MissingPartError reports that a required archive part could not be found.
type MissingPartError struct{ Part string }

func (e *MissingPartError) Error() string { return fmt.Sprintf("missing part %q", e.Part) }

// MalformedError reports that workbook.xml or its relationships could not
// be parsed into a sheet list.
type MalformedError struct {
	Msg string
	Err error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed workbook: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("malformed workbook: %s", e.Msg)
}
func (e *MalformedError) Unwrap() error { return e.Err }

type xmlWorkbook struct {
	WorkbookPr struct {
		Date1904 bool `xml:"date1904,attr"`
	} `xml:"workbookPr"`
	Sheets struct {
		Sheet []xmlSheet `xml:"sheet"`
	} `xml:"sheets"`
}

type xmlSheet struct {
	Name  string `xml:"name,attr"`
	ID    uint32 `xml:"sheetId,attr"`
	RID   string `xml:"id,attr"` // local name of r:id once namespace-stripped by encoding/xml
	State string `xml:"state,attr"`
}

// Build parses xl/workbook.xml and xl/_rels/workbook.xml.rels from ar.
func Build(ar *ziparchive.Archive) (*Index, error) {
	wbData, err := readAll(ar, "xl/workbook.xml")
	if err != nil {
		return nil, err
	}

	relsData, err := readAll(ar, "xl/_rels/workbook.xml.rels")
	if err != nil {
		return nil, err
	}
	relTable, err := rels.Parse(relsData)
	if err != nil {
		return nil, &MalformedError{Msg: "parse workbook rels", Err: err}
	}

	var wb xmlWorkbook
	if err := xml.Unmarshal(wbData, &wb); err != nil {
		return nil, &MalformedError{Msg: "parse workbook.xml", Err: err}
	}

	idx := &Index{Date1904: wb.WorkbookPr.Date1904}
	for _, s := range wb.Sheets.Sheet {
		target, ok := relTable.Target(s.RID)
		if !ok {
			return nil, &MalformedError{Msg: fmt.Sprintf("sheet %q: no relationship for r:id %q", s.Name, s.RID)}
		}
		idx.Sheets = append(idx.Sheets, Sheet{
			Name:       s.Name,
			ID:         s.ID,
			RelID:      s.RID,
			PartPath:   rels.ResolvePartPath("xl", target),
			Visibility: parseVisibility(s.State),
		})
	}

	if target, ok := relTable.TargetByType("sharedStrings"); ok {
		idx.SharedStringsPath = rels.ResolvePartPath("xl", target)
	}
	if target, ok := relTable.TargetByType("styles"); ok {
		idx.StylesPath = rels.ResolvePartPath("xl", target)
	}

	return idx, nil
}

// SheetByName returns the sheet with the exact (case-sensitive) name, per
// spec §3's entry-lookup convention.
func (idx *Index) SheetByName(name string) (Sheet, bool) {
	for _, s := range idx.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

func parseVisibility(state string) Visibility {
	switch state {
	case "hidden":
		return Hidden
	case "veryHidden":
		return VeryHidden
	default:
		return Visible
	}
}

func readAll(ar *ziparchive.Archive, part string) ([]byte, error) {
	rc, err := ar.Open(part)
	if err != nil {
		return nil, &MissingPartError{Part: part}
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &MalformedError{Msg: fmt.Sprintf("read %q", part), Err: err}
	}
	return data, nil
}
