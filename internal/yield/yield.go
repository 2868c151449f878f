// Package yield is the Yield Scheduler (C7): a cooperative suspension
// primitive the Sheet Row Extractor calls between rows and between large
// inflate chunks so a single-threaded host gets a chance to run other work.
//
// The teacher expresses "hand control back to the caller between units of
// work" as a Go 1.22 range-over-func iterator — worksheet.Worksheet.Rows
// returns a func(yield func([]Cell) bool) that calls the caller-supplied
// yield once per row. That shape already *is* a cooperative scheduler: the
// caller decides whether to keep pulling by the bool it returns. The
// row-batch extractor (extractor.Batch) does not use that idiom: it returns
// a whole Result in one call. This package instead supplies an actual
// suspension call at a fixed cadence, which extractor.Batch invokes while
// it scans. runtime.Gosched() is the idiomatic Go
// reading of "yield-now" in a single-threaded, cooperatively scheduled host
// — it is literally a no-op in most Go runtimes, but under GOOS=js/wasm
// (the compilation target spec §6's "host runtime's linear memory" phrasing
// describes) it is exactly the primitive that lets the browser's event loop
// interleave with a long-running Go computation.
package yield

import "runtime"

// DefaultRowInterval and DefaultByteInterval match spec §4.7's recommended
// cadence: yield at least once every 64 rows, and at least once every
// 256 KiB of inflate output.
const (
	DefaultRowInterval  = 64
	DefaultByteInterval = 256 * 1024
)

// Func is the suspension primitive itself. A Scheduler built by New with a
// nil Func calls runtime.Gosched; hosts that offer a real suspend/resume channel (e.g. a
// WASM binding awaiting a JS Promise) can substitute their own.
type Func func()

// Scheduler tracks progress since the last yield and calls out at the
// configured cadence. It is not safe for concurrent use — each Batch call
// owns its own Scheduler, matching spec §5's "no synchronisation required"
// model.
type Scheduler struct {
	rowInterval  int
	byteInterval int64
	fn           Func

	rowsSince  int
	bytesSince int64
}

// New builds a Scheduler. A zero rowInterval/byteInterval falls back to the
// package defaults; a nil fn falls back to runtime.Gosched.
func New(rowInterval int, byteInterval int64, fn Func) *Scheduler {
	if rowInterval <= 0 {
		rowInterval = DefaultRowInterval
	}
	if byteInterval <= 0 {
		byteInterval = DefaultByteInterval
	}
	if fn == nil {
		fn = runtime.Gosched
	}
	return &Scheduler{rowInterval: rowInterval, byteInterval: byteInterval, fn: fn}
}

// Row registers that one more row was processed, yielding if the row
// cadence has been reached.
func (s *Scheduler) Row() {
	s.rowsSince++
	if s.rowsSince >= s.rowInterval {
		s.fn()
		s.rowsSince = 0
	}
}

// Bytes registers n more bytes of inflate output, yielding if the byte
// cadence has been reached. Used by the worksheet scanner between inflate
// pumps for very wide rows.
func (s *Scheduler) Bytes(n int) {
	s.bytesSince += int64(n)
	if s.bytesSince >= s.byteInterval {
		s.fn()
		s.bytesSince = 0
	}
}
