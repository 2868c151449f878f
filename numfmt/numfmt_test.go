package numfmt

import "testing"

func TestFormatValueGeneral(t *testing.T) {
	if got := FormatValue(42.0, 0, "", false); got != "42" {
		t.Errorf("General(42.0) = %q, want 42", got)
	}
	if got := FormatValue(2.5, 0, "", false); got != "2.5" {
		t.Errorf("General(2.5) = %q, want 2.5", got)
	}
}

func TestFormatValueBuiltInNumber(t *testing.T) {
	if got := FormatValue(1234.5, 2, "", false); got != "1234.50" {
		t.Errorf("numFmtId 2 (0.00) on 1234.5 = %q, want 1234.50", got)
	}
	if got := FormatValue(1234567.0, 3, "", false); got != "1,234,567" {
		t.Errorf("numFmtId 3 (#,##0) on 1234567 = %q, want 1,234,567", got)
	}
	if got := FormatValue(0.5, 9, "", false); got != "50%" {
		t.Errorf("numFmtId 9 (0%%) on 0.5 = %q, want 50%%", got)
	}
}

func TestFormatValueCustomFormat(t *testing.T) {
	if got := FormatValue(3.0, 164, "0.00", false); got != "3.00" {
		t.Errorf("custom format 0.00 on 3.0 = %q, want 3.00", got)
	}
}

func TestFormatValueBuiltInDate(t *testing.T) {
	// numFmtId 14 is a built-in short-date format; serial 1 is 1900-01-01
	// under the 1900 date system.
	got := FormatValue(1.0, 14, "", false)
	if got == "" || got == "1" {
		t.Errorf("FormatValue(1.0, 14, ...) = %q, want a rendered date, not the raw serial", got)
	}
}

func TestFormatValueTimeOnlyFormatRendersAsTime(t *testing.T) {
	// numFmtId 20 (h:mm) has no calendar date component but must still
	// render through the date/time path rather than as a plain number —
	// this is the StyleTable.IsDate / FormatCell consistency the style-id
	// scan in the styles package exists to guarantee.
	got := FormatValue(0.5, 20, "", false) // 0.5 day == 12:00
	if got != "12:00" {
		t.Errorf("FormatValue(0.5, 20, ...) = %q, want 12:00", got)
	}
}

func TestFormatValueNonNumeric(t *testing.T) {
	if got := FormatValue(nil, 0, "", false); got != "" {
		t.Errorf("FormatValue(nil, ...) = %q, want empty string", got)
	}
	if got := FormatValue("already text", 0, "", false); got != "already text" {
		t.Errorf("FormatValue(string, ...) = %q, want passthrough", got)
	}
	if got := FormatValue(true, 0, "", false); got != "TRUE" {
		t.Errorf("FormatValue(true, ...) = %q, want TRUE", got)
	}
	if got := FormatValue(false, 0, "", false); got != "FALSE" {
		t.Errorf("FormatValue(false, ...) = %q, want FALSE", got)
	}
}

func TestFormatValueDate1904(t *testing.T) {
	// Serial 0 is 1904-01-01 under the 1904 system and 1900-01-01 under
	// the 1900 system (xldate.SerialToTime's branch for intPart==0) — the
	// two systems must diverge here.
	got1900 := FormatValue(0.0, 14, "", false)
	got1904 := FormatValue(0.0, 14, "", true)
	if got1900 == got1904 {
		t.Errorf("serial 0 rendered identically under both date systems: %q", got1900)
	}
}
