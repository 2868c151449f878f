package extractor

import (
	"strings"
	"testing"

	"github.com/wbreader/xlsxstream/internal/yield"
)

func batchString(t *testing.T, doc string, start uint64, count uint32) (Result, error) {
	t.Helper()
	return Batch(strings.NewReader(doc), nil, start, count, yield.New(0, 0, nil))
}

func TestBatchNonMonotonicRowRejected(t *testing.T) {
	doc := `<worksheet><sheetData>
		<row r="2"><c r="A2"><v>5</v></c></row>
		<row r="1"><c r="A1"><v>1</v></c></row>
	</sheetData></worksheet>`

	_, err := batchString(t, doc, 0, 10)
	if _, ok := err.(*MalformedSheetError); !ok {
		t.Fatalf("err = %v (%T), want *MalformedSheetError", err, err)
	}
}

func TestBatchGapRowsFilled(t *testing.T) {
	doc := `<worksheet><sheetData>
		<row r="1"><c r="A1"><v>10</v></c></row>
		<row r="3"><c r="A3"><v>30</v></c></row>
	</sheetData></worksheet>`

	res, err := batchString(t, doc, 0, 10)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(res.Rows) != 3 {
		t.Fatalf("got %d rows, want 3 (ordinals 0,1,2)", len(res.Rows))
	}
	if len(res.Rows[1]) != 0 {
		t.Errorf("Rows[1] = %+v, want empty gap row", res.Rows[1])
	}
	if res.Rows[0][0].Number != 10 || res.Rows[2][0].Number != 30 {
		t.Errorf("Rows[0]/Rows[2] = %+v / %+v", res.Rows[0], res.Rows[2])
	}
	if !res.Done {
		t.Errorf("Done = false, want true")
	}
}

func TestBatchTruncatedStream(t *testing.T) {
	// Cut short mid-sheetData: no closing tags at all.
	doc := `<worksheet><sheetData><row r="1"><c r="A1"><v>1</v>`

	_, err := batchString(t, doc, 0, 10)
	if _, ok := err.(*XMLError); !ok {
		if _, ok := err.(*TruncatedError); !ok {
			t.Fatalf("err = %v (%T), want *TruncatedError or *XMLError", err, err)
		}
	}
}

func TestBatchMissingSharedStringsTable(t *testing.T) {
	doc := `<worksheet><sheetData>
		<row r="1"><c r="A1" t="s"><v>0</v></c></row>
	</sheetData></worksheet>`

	_, err := batchString(t, doc, 0, 10)
	if _, ok := err.(*MissingSharedStringsError); !ok {
		t.Fatalf("err = %v (%T), want *MissingSharedStringsError", err, err)
	}
}

func TestBatchDuplicateCellLastWins(t *testing.T) {
	doc := `<worksheet><sheetData>
		<row r="1"><c r="A1"><v>1</v></c><c r="A1"><v>2</v></c></row>
	</sheetData></worksheet>`

	res, err := batchString(t, doc, 0, 10)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if res.Rows[0][0].Number != 2 {
		t.Errorf("Rows[0][0] = %+v, want Number=2 (last duplicate wins)", res.Rows[0][0])
	}
}

func TestBatchCountZero(t *testing.T) {
	_, err := Batch(strings.NewReader("<worksheet><sheetData></sheetData></worksheet>"), nil, 0, 0, nil)
	if err == nil {
		t.Fatal("expected an error for count == 0")
	}
}
