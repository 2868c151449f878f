package workbookindex

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/wbreader/xlsxstream/internal/ziparchive"
)

func buildArchive(t *testing.T, files map[string]string) *ziparchive.Archive {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	ar, err := ziparchive.Open(buf.Bytes())
	if err != nil {
		t.Fatalf("ziparchive.Open: %v", err)
	}
	return ar
}

const testWorkbookXML = `<?xml version="1.0"?>
<workbook xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <workbookPr date1904="true"/>
  <sheets>
    <sheet name="Data" sheetId="1" r:id="rId1"/>
    <sheet name="Secret" sheetId="2" state="veryHidden" r:id="rId2"/>
  </sheets>
</workbook>`

const testRelsXML = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet2.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings" Target="sharedStrings.xml"/>
</Relationships>`

func TestBuild(t *testing.T) {
	ar := buildArchive(t, map[string]string{
		"xl/workbook.xml":            testWorkbookXML,
		"xl/_rels/workbook.xml.rels": testRelsXML,
	})

	idx, err := Build(ar)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !idx.Date1904 {
		t.Error("Date1904 = false, want true")
	}
	if idx.StylesPath != "" {
		t.Errorf("StylesPath = %q, want \"\" (no styles relationship declared)", idx.StylesPath)
	}
	if idx.SharedStringsPath != "xl/sharedStrings.xml" {
		t.Errorf("SharedStringsPath = %q, want xl/sharedStrings.xml", idx.SharedStringsPath)
	}
	if len(idx.Sheets) != 2 {
		t.Fatalf("len(Sheets) = %d, want 2", len(idx.Sheets))
	}
	if idx.Sheets[0].PartPath != "xl/worksheets/sheet1.xml" {
		t.Errorf("Sheets[0].PartPath = %q", idx.Sheets[0].PartPath)
	}
	if idx.Sheets[1].Visibility != VeryHidden {
		t.Errorf("Sheets[1].Visibility = %v, want VeryHidden", idx.Sheets[1].Visibility)
	}

	sheet, ok := idx.SheetByName("Data")
	if !ok || sheet.ID != 1 {
		t.Errorf("SheetByName(\"Data\") = %+v, %v", sheet, ok)
	}
	if _, ok := idx.SheetByName("data"); ok {
		t.Error("SheetByName is case-insensitive, want exact match only")
	}
}

func TestBuildMissingWorkbookPart(t *testing.T) {
	ar := buildArchive(t, map[string]string{"unrelated.txt": "x"})
	_, err := Build(ar)
	if _, ok := err.(*MissingPartError); !ok {
		t.Fatalf("err = %v (%T), want *MissingPartError", err, err)
	}
}
