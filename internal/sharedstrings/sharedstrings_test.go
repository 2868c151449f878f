package sharedstrings

import (
	"strings"
	"testing"
)

func TestBuildFlattensRichTextRuns(t *testing.T) {
	doc := `<?xml version="1.0"?>
<sst count="2" uniqueCount="2">
  <si><t>plain</t></si>
  <si><r><t>rich</t></r><r><t>-text</t></r></si>
</sst>`

	table, err := Build(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	if s, ok := table.Get(0); !ok || s != "plain" {
		t.Errorf("Get(0) = %q, %v, want \"plain\", true", s, ok)
	}
	if s, ok := table.Get(1); !ok || s != "rich-text" {
		t.Errorf("Get(1) = %q, %v, want \"rich-text\", true", s, ok)
	}
}

func TestGetOutOfRange(t *testing.T) {
	table, err := Build(strings.NewReader(`<sst></sst>`))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := table.Get(0); ok {
		t.Errorf("Get(0) on empty table returned ok=true")
	}
	if table.Len() != 0 {
		t.Errorf("Len() = %d, want 0", table.Len())
	}
}

func TestGetOnNilTable(t *testing.T) {
	var table *Table
	if _, ok := table.Get(0); ok {
		t.Errorf("Get on nil table returned ok=true")
	}
	if table.Len() != 0 {
		t.Errorf("Len() on nil table = %d, want 0", table.Len())
	}
}
