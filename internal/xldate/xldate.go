// Package xldate is the single implementation of Excel's date-serial
// arithmetic, shared by the public ConvertDate/ConvertDateEx entry points
// and the numfmt rendering engine's date/time token path. It used to be
// duplicated between the two call sites with two subtly different
// rounding strategies; this package exists so there is exactly one
// serial-to-calendar conversion in the tree.
package xldate

import (
	"fmt"
	"math"
	"time"
)

// SerialToTime converts an Excel date serial (days since the epoch, with
// the fractional part giving the time of day) into a time.Time, under
// either the 1900 or 1904 date system.
//
// The 1900 system perpetuates the Lotus 1-2-3 bug that treats 1900 as a
// leap year: serial 60 is the nonexistent 1900-02-29, and every serial
// from 61 onward is compensated by subtracting a day. The 1904 system has
// no such correction.
func SerialToTime(serial float64, date1904 bool) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, fmt.Errorf("xldate: invalid serial %v", serial)
	}
	if serial < 0 {
		return time.Time{}, fmt.Errorf("xldate: negative serial %v not supported", serial)
	}

	secs, dayRollover := secondsOfDay(serial)
	intPart := int(serial) + dayRollover

	if date1904 {
		base := time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
		return base.Add(time.Duration(intPart)*24*time.Hour + time.Duration(secs)*time.Second), nil
	}

	base := time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	switch {
	case intPart == 0:
		return time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(secs) * time.Second), nil
	case intPart >= 61:
		return base.Add(time.Duration(intPart-1)*24*time.Hour + time.Duration(secs)*time.Second), nil
	default:
		return base.Add(time.Duration(intPart)*24*time.Hour + time.Duration(secs)*time.Second), nil
	}
}

// secondsOfDay converts the fractional-day part of an Excel serial into a
// whole-second count within the day (0-86399), plus a rollover flag set
// when rounding pushes the result past the following midnight.
func secondsOfDay(serial float64) (secs int64, dayRollover int) {
	const epsilon = 1e-9 // absorbs floating-point drift in the fractional part
	fracDay := (serial - math.Trunc(serial)) + epsilon

	durNanos := time.Duration(fracDay * float64(24*time.Hour))
	whole := int64(durNanos / time.Second)
	if int(durNanos%time.Second) > 500_000_000 {
		whole++
	}
	if whole < 0 {
		whole = 0
	}
	return whole % 86400, int(whole / 86400)
}
