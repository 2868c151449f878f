// Package rels parses OOXML relationship XML files (.rels).
//
// It keeps .rels parsing in its own package, apart from workbookindex (its
// only caller in this module), the same split the teacher made when it
// factored this package out of workbook/ and worksheet/. Adapted here to
// also expose each
// relationship's Type, since workbookindex needs it to locate the optional
// sharedStrings/styles parts by relationship type rather than by a
// hard-coded target path.
package rels

import (
	"encoding/xml"
	"fmt"
)

// Relationships is the root element of a .rels XML document.
type Relationships struct {
	Relationships []Relationship `xml:"Relationship"`
}

// Relationship is one entry in a .rels XML document.
type Relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// Table is a parsed .rels file, addressable by relationship ID or by type
// suffix (the part after the last '/' of the Type URI, e.g.
// "sharedStrings", "styles", "worksheet").
type Table struct {
	byID   map[string]Relationship
	byType map[string][]Relationship
}

// Parse parses the raw bytes of a .rels XML file.
func Parse(data []byte) (*Table, error) {
	var r Relationships
	if err := xml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse rels XML: %w", err)
	}
	t := &Table{
		byID:   make(map[string]Relationship, len(r.Relationships)),
		byType: make(map[string][]Relationship),
	}
	for _, rel := range r.Relationships {
		t.byID[rel.ID] = rel
		suffix := typeSuffix(rel.Type)
		t.byType[suffix] = append(t.byType[suffix], rel)
	}
	return t, nil
}

// Target returns the target path for a relationship ID.
func (t *Table) Target(id string) (string, bool) {
	rel, ok := t.byID[id]
	return rel.Target, ok
}

// TargetByType returns the target path of the first relationship whose Type
// URI ends in the given suffix (e.g. "sharedStrings"). ok is false if no
// such relationship exists.
func (t *Table) TargetByType(suffix string) (string, bool) {
	rels := t.byType[suffix]
	if len(rels) == 0 {
		return "", false
	}
	return rels[0].Target, true
}

func typeSuffix(typeURI string) string {
	i := len(typeURI) - 1
	for i >= 0 && typeURI[i] != '/' {
		i--
	}
	return typeURI[i+1:]
}

// ResolvePartPath resolves a relationship target (as found in a .rels file
// rooted at xl/_rels/ or xl/worksheets/_rels/) to a full archive part path.
// Absolute targets (leading '/') are used as-is with the slash stripped;
// relative targets are resolved against base (e.g. "xl").
func ResolvePartPath(base, target string) string {
	if len(target) > 0 && target[0] == '/' {
		return target[1:]
	}
	if base == "" {
		return target
	}
	return base + "/" + target
}
