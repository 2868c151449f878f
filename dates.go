// Excel date serial conversion and number-format date detection. The
// serial-to-calendar arithmetic itself lives in internal/xldate, shared
// with the numfmt rendering engine so there is one implementation instead
// of two that can drift apart.
package xlsxstream

import (
	"fmt"
	"math"
	"time"

	"github.com/wbreader/xlsxstream/internal/xldate"
	"github.com/wbreader/xlsxstream/styles"
)

// ConvertDate converts an Excel date serial number to a [time.Time] value
// under the 1900 date system.
//
// Excel represents dates as the number of days since 1900-01-00, with the
// fractional part representing the time of day. Lotus 1-2-3 incorrectly
// treated 1900 as a leap year, so Excel perpetuates the bug: serial 60 is
// treated as 1900-02-29 (which never existed). This function handles the
// three resulting branches exactly as pyxlsb does:
//
//   - serial == 0  → midnight on 1900-01-01
//   - serial >= 61 → subtract one day to compensate for the phantom leap day
//   - 1 ≤ serial ≤ 60 → no compensation (serial 60 yields 1900-03-01)
func ConvertDate(date float64) (time.Time, error) {
	// Excel dates only reach serial 2,958,465 (year 9999-12-31). The constant
	// below is the exclusive upper bound (one above the last valid serial).
	const maxSerial = 2_958_466
	if err := checkSerialRange(date, maxSerial, "ConvertDate"); err != nil {
		return time.Time{}, err
	}
	t, err := xldate.SerialToTime(date, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("xlsxstream: ConvertDate: %w", err)
	}
	return t, nil
}

// ConvertDateEx converts an Excel date serial number to a [time.Time] value,
// respecting the workbook's date system.
//
// Pass the workbook's date1904 flag (from xl/workbook.xml's workbookPr
// element, see [ParseStyles] callers). When date1904 is false the function
// is identical to [ConvertDate] (1900 date system). When true:
//   - Serial 0 corresponds to 1904-01-01.
//   - Serials increase by one day per unit, with no phantom leap-day
//     correction (the Lotus 1-2-3 bug does not apply to the 1904 system).
func ConvertDateEx(date float64, date1904 bool) (time.Time, error) {
	if !date1904 {
		return ConvertDate(date)
	}
	// In the 1904 system the maximum representable date is the same calendar
	// day as in the 1900 system, offset by 1462 days (4 years including the
	// 1904 leap year).
	const maxSerial = 2_958_466 - 1462
	if err := checkSerialRange(date, maxSerial, "ConvertDateEx"); err != nil {
		return time.Time{}, err
	}
	t, err := xldate.SerialToTime(date, true)
	if err != nil {
		return time.Time{}, fmt.Errorf("xlsxstream: ConvertDateEx: %w", err)
	}
	return t, nil
}

// checkSerialRange validates date against the bounds ConvertDate/
// ConvertDateEx enforce before handing off to xldate, so the caller-facing
// error carries the entry point's own name.
func checkSerialRange(date float64, maxSerial float64, fn string) error {
	if math.IsNaN(date) || math.IsInf(date, 0) {
		return fmt.Errorf("xlsxstream: %s: invalid value %v", fn, date)
	}
	if date < 0 {
		return fmt.Errorf("xlsxstream: %s: negative serial %v not supported", fn, date)
	}
	if date >= maxSerial {
		return fmt.Errorf("xlsxstream: %s: serial %v out of range (must be below %v)", fn, date, maxSerial)
	}
	return nil
}

// IsDateFormat reports whether a number-format ID (and optional custom
// format string) represents a date or datetime format.
//
// id is the numFmtId stored in a cellXfs entry of xl/styles.xml. For
// built-in formats (id < 164) formatStr is ignored; for custom formats
// (id >= 164) formatStr must be the formatCode read from the matching
// numFmt element.
//
// Built-in date/time IDs follow ECMA-376 §18.8.30: 14-17, 22, 27-36, 45-47,
// 50-58. Built-in time-only IDs 18-21 (h:mm AM/PM, h:mm:ss AM/PM, h:mm,
// h:mm:ss) are intentionally excluded here since they carry no calendar
// date component; [StyleTable.IsDate] includes them since rendering needs
// the broader set.
func IsDateFormat(id int, formatStr string) bool {
	switch {
	case id >= 14 && id <= 17:
		return true
	case id == 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	if id < 164 {
		return false
	}
	return styles.ScanCustomFormatForDateTokens(formatStr)
}
