package xlsxstream_test

import (
	"errors"
	"testing"

	"github.com/wbreader/xlsxstream"
)

func TestListSheets(t *testing.T) {
	buf := buildFixture(t)

	sheets, err := xlsxstream.ListSheets(buf)
	if err != nil {
		t.Fatalf("ListSheets: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("got %d sheets, want 2", len(sheets))
	}
	if sheets[0].Name != "Sheet1" || sheets[0].Visibility != xlsxstream.VisibilityVisible {
		t.Errorf("sheets[0] = %+v, want Sheet1/Visible", sheets[0])
	}
	if sheets[1].Name != "Hidden" || sheets[1].Visibility != xlsxstream.VisibilityHidden {
		t.Errorf("sheets[1] = %+v, want Hidden/Hidden", sheets[1])
	}

	names, err := xlsxstream.ListSheetNames(buf)
	if err != nil {
		t.Fatalf("ListSheetNames: %v", err)
	}
	want := []string{"Sheet1", "Hidden"}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("names[%d] = %q, want %q", i, names[i], n)
		}
	}
}

func TestBatchFullWindow(t *testing.T) {
	buf := buildFixture(t)

	res, err := xlsxstream.Batch(buf, "Sheet1", 0, 10)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if !res.Done {
		t.Errorf("Done = false, want true (sheetData is exhausted well before count=10)")
	}
	if res.Returned != 5 {
		t.Fatalf("Returned = %d, want 5 (ordinals 0..4: rows r=1,2,4,5 plus the r=3 gap)", res.Returned)
	}
}

func TestBatchRowContents(t *testing.T) {
	buf := buildFixture(t)

	res, err := xlsxstream.Batch(buf, "Sheet1", 0, 100)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	// Ordinals: r=1->0 (header), r=2->1 (Alice/42), the missing r=3->2
	// (empty gap row), r=4->3 (boolean/number), r=5->4 (shared string plus
	// cached formula string).
	if len(res.Rows) != 5 {
		t.Fatalf("got %d rows, want 5 (ordinals 0..4)", len(res.Rows))
	}

	header := res.Rows[0]
	if len(header) != 2 || xlsxstream.AsCellValue(header[0]) != "Name" || xlsxstream.AsCellValue(header[1]) != "Score" {
		t.Errorf("header row = %+v", header)
	}

	dataRow := res.Rows[1]
	if xlsxstream.AsCellValue(dataRow[0]) != "Alice" {
		t.Errorf("dataRow[0] = %v, want Alice", xlsxstream.AsCellValue(dataRow[0]))
	}
	if v, ok := xlsxstream.AsCellValue(dataRow[1]).(float64); !ok || v != 42 {
		t.Errorf("dataRow[1] = %v, want 42", xlsxstream.AsCellValue(dataRow[1]))
	}

	gapRow := res.Rows[2]
	if len(gapRow) != 0 {
		t.Errorf("gapRow = %+v, want empty (no row element for ordinal 2)", gapRow)
	}

	boolRow := res.Rows[3]
	if b, ok := xlsxstream.AsCellValue(boolRow[0]).(bool); !ok || !b {
		t.Errorf("boolRow[0] = %v, want true", xlsxstream.AsCellValue(boolRow[0]))
	}
	if v, ok := xlsxstream.AsCellValue(boolRow[1]).(float64); !ok || v != 7 {
		t.Errorf("boolRow[1] = %v, want 7", xlsxstream.AsCellValue(boolRow[1]))
	}

	lastRow := res.Rows[4]
	if xlsxstream.AsCellValue(lastRow[0]) != "Bob" {
		t.Errorf("lastRow[0] = %v, want Bob (rich-text runs flattened)", xlsxstream.AsCellValue(lastRow[0]))
	}
	if xlsxstream.AsCellValue(lastRow[1]) != "49" {
		t.Errorf("lastRow[1] = %v, want \"49\" (cached formula string)", xlsxstream.AsCellValue(lastRow[1]))
	}
}

func TestBatchPartialWindow(t *testing.T) {
	buf := buildFixture(t)

	res, err := xlsxstream.Batch(buf, "Sheet1", 1, 2)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if res.Returned != 2 {
		t.Fatalf("Returned = %d, want 2", res.Returned)
	}
	if res.Done {
		t.Errorf("Done = true, want false (rows remain after this window)")
	}
	if res.Start != 1 {
		t.Errorf("Start = %d, want 1", res.Start)
	}
	if xlsxstream.AsCellValue(res.Rows[0][0]) != "Alice" {
		t.Errorf("Rows[0][0] = %v, want Alice", xlsxstream.AsCellValue(res.Rows[0][0]))
	}
}

func TestBatchUnknownSheet(t *testing.T) {
	buf := buildFixture(t)

	_, err := xlsxstream.Batch(buf, "NoSuchSheet", 0, 1)
	if err == nil {
		t.Fatal("expected an error for an unknown sheet name")
	}
	var xerr *xlsxstream.Error
	if !errors.As(err, &xerr) || xerr.Kind != xlsxstream.InvalidArgument {
		t.Errorf("err = %v, want Kind=InvalidArgument", err)
	}
}

func TestBatchZeroCount(t *testing.T) {
	buf := buildFixture(t)

	_, err := xlsxstream.Batch(buf, "Sheet1", 0, 0)
	var xerr *xlsxstream.Error
	if !errors.As(err, &xerr) || xerr.Kind != xlsxstream.InvalidArgument {
		t.Errorf("err = %v, want Kind=InvalidArgument", err)
	}
}

func TestBatchMalformedArchive(t *testing.T) {
	_, err := xlsxstream.Batch([]byte("not a zip file, but long enough to pass the size check"), "Sheet1", 0, 1)
	var xerr *xlsxstream.Error
	if !errors.As(err, &xerr) || xerr.Kind != xlsxstream.MalformedArchive {
		t.Errorf("err = %v, want Kind=MalformedArchive", err)
	}
}

func TestSessionReusesStateAcrossBatches(t *testing.T) {
	buf := buildFixture(t)

	sess, err := xlsxstream.OpenSession(buf)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	defer sess.Close()

	first := sess.ID()
	if second := sess.ID(); first != second {
		t.Errorf("Session.ID() not stable across calls")
	}

	sheets := sess.ListSheets()
	if len(sheets) != 2 {
		t.Fatalf("got %d sheets, want 2", len(sheets))
	}

	res1, err := sess.Batch("Sheet1", 0, 2)
	if err != nil {
		t.Fatalf("Batch 1: %v", err)
	}
	res2, err := sess.Batch("Sheet1", 2, 3)
	if err != nil {
		t.Fatalf("Batch 2: %v", err)
	}
	// Ordinals 2..4 fill count=3 exactly, so the window is full before the
	// sheetData end tag is read: Done stays false.
	if res2.Done {
		t.Errorf("Batch 2 Done = true, want false (window filled by the last row)")
	}
	if xlsxstream.AsCellValue(res1.Rows[0][0]) != "Name" {
		t.Errorf("res1.Rows[0][0] = %v, want Name", xlsxstream.AsCellValue(res1.Rows[0][0]))
	}
}

func TestYieldOptionsAreAccepted(t *testing.T) {
	buf := buildFixture(t)

	calls := 0
	_, err := xlsxstream.Batch(buf, "Sheet1", 0, 100,
		xlsxstream.WithYieldEvery(1),
		xlsxstream.WithYieldFunc(func() { calls++ }),
		xlsxstream.WithCRCVerification(),
	)
	if err != nil {
		t.Fatalf("Batch with options: %v", err)
	}
	if calls == 0 {
		t.Errorf("custom yield func was never called despite WithYieldEvery(1)")
	}
}

func TestParseStylesFormatCell(t *testing.T) {
	buf := buildFixture(t)

	res, err := xlsxstream.Batch(buf, "Sheet1", 1, 1)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	scoreCell := res.Rows[0][1]

	st, err := xlsxstream.ParseStyles(buf)
	if err != nil {
		t.Fatalf("ParseStyles: %v", err)
	}
	// scoreCell carries no "s" attribute in the fixture, so its style index
	// is -1 — out of range, and FormatCell falls back to General rendering.
	if got := st.FormatCell(scoreCell); got != "42" {
		t.Errorf("FormatCell(scoreCell) = %q, want \"42\"", got)
	}
}
