// Package xlsxstream is a streaming reader for XLSX (Office Open XML
// spreadsheet) workbook archives. Given the raw bytes of such an archive,
// it enumerates the worksheets it contains and extracts bounded,
// contiguous row windows from one worksheet at a time as cell-value
// matrices — without materialising the whole workbook in memory, and
// without holding a single long-running pass over the archive's central
// directory across calls.
//
// # Quick start
//
//	sheets, err := xlsxstream.ListSheetNames(buf)
//	if err != nil { ... }
//
//	result, err := xlsxstream.Batch(buf, sheets[0], 0, 100)
//	if err != nil { ... }
//	for _, row := range result.Rows {
//	    for _, cell := range row {
//	        fmt.Println(xlsxstream.AsCellValue(cell))
//	    }
//	}
//
// Every call above rebuilds the archive's central directory, workbook
// index, and (whenever the workbook has a shared-strings part) the
// shared-string table from scratch. Batch builds that table before the
// worksheet scan starts, whether or not any cell in the requested window
// is of type "s". This is deliberate, per spec §3's ownership model: the
// directory parse is cheap relative to inflating worksheet data, so the
// simplicity of "every call is self-contained" outweighs the cost of
// reparsing it. Callers issuing many batches against the same immutable
// buffer can instead use [OpenSession] to cache that state across calls.
//
// # Writing, styles, and dates
//
// This package never writes workbooks, never interprets formulas, charts,
// pivots, or drawings, and never rejects an archive for carrying them — it
// simply never looks. Cell values of numeric type are returned as the raw
// float64 serial Excel stores; date/time rendering requires consulting the
// styles part yourself, e.g. via the optional [ParseStyles] /
// [StyleTable.FormatCell] extension, together with [ConvertDate] or
// [ConvertDateEx].
package xlsxstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/wbreader/xlsxstream/internal/extractor"
	"github.com/wbreader/xlsxstream/internal/sharedstrings"
	"github.com/wbreader/xlsxstream/internal/workbookindex"
	"github.com/wbreader/xlsxstream/internal/yield"
	"github.com/wbreader/xlsxstream/internal/ziparchive"
)

// Version is the current version of the xlsxstream library.
const Version = "1.0.0"

// Option configures a Batch call's cooperative-yielding and integrity
// behaviour. The zero value of every option is "use spec §4.7's
// recommended defaults".
type Option func(*batchConfig)

type batchConfig struct {
	rowInterval  int
	byteInterval int64
	yieldFunc    yield.Func
	verifyCRC    bool
}

// WithYieldEvery overrides the row cadence (spec §4.7 recommends 64) at
// which the Yield Scheduler suspends the extraction task.
func WithYieldEvery(rows int) Option {
	return func(c *batchConfig) { c.rowInterval = rows }
}

// WithYieldBytes overrides the inflate-output byte cadence (spec §4.7
// recommends 256 KiB) at which the Yield Scheduler suspends for very wide
// rows.
func WithYieldBytes(n int64) Option {
	return func(c *batchConfig) { c.byteInterval = n }
}

// WithYieldFunc overrides the suspension primitive itself. The default
// calls runtime.Gosched; a host binding with a real suspend/resume channel
// can substitute its own callback here.
func WithYieldFunc(fn func()) Option {
	return func(c *batchConfig) { c.yieldFunc = fn }
}

// WithCRCVerification turns on CRC-32 checking of the worksheet entry's
// decompressed bytes against the value recorded in the archive directory.
// It is off by default (spec §4.2: "optional and disabled by default for
// the hot path").
func WithCRCVerification() Option {
	return func(c *batchConfig) { c.verifyCRC = true }
}

// ListSheets returns every worksheet in workbook declaration order, with
// visibility metadata. It is idempotent and independent of any prior Batch
// call (spec §8 invariant 4): every call rebuilds the workbook index from
// the archive bytes passed in.
func ListSheets(buf []byte) ([]SheetInfo, error) {
	ar, err := openArchive(buf)
	if err != nil {
		return nil, err
	}
	idx, err := buildIndex(ar)
	if err != nil {
		return nil, err
	}
	return sheetInfos(idx), nil
}

// ListSheetNames is a convenience wrapper over ListSheets returning just
// the ordered sheet names, matching spec §6's minimal list_sheets contract.
func ListSheetNames(buf []byte) ([]string, error) {
	sheets, err := ListSheets(buf)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	return names, nil
}

// Batch extracts up to count rows of the named sheet, starting at the
// 0-based row ordinal start. count must be > 0. The returned BatchResult's
// Done flag is true iff the worksheet's sheetData was exhausted before
// count rows were filled.
func Batch(buf []byte, sheetName string, start uint64, count uint32, opts ...Option) (BatchResult, error) {
	if count == 0 {
		return BatchResult{}, newErr(InvalidArgument, "count must be > 0", nil)
	}

	ar, err := openArchive(buf)
	if err != nil {
		return BatchResult{}, err
	}
	idx, err := buildIndex(ar)
	if err != nil {
		return BatchResult{}, err
	}
	sheet, ok := idx.SheetByName(sheetName)
	if !ok {
		return BatchResult{}, newErr(InvalidArgument, fmt.Sprintf("unknown sheet %q", sheetName), nil)
	}

	var sst *sharedstrings.Table
	if idx.SharedStringsPath != "" {
		sst, err = openSharedStrings(ar, idx.SharedStringsPath)
		if err != nil {
			return BatchResult{}, err
		}
	}

	return runBatch(ar, sheet.PartPath, sst, start, count, opts)
}

// ── shared plumbing between Batch and Session ───────────────────────────

func openArchive(buf []byte) (*ziparchive.Archive, error) {
	if len(buf) < 22 { // minimum possible EOCD-only archive size
		return nil, newErr(InvalidArgument, "buffer too small to be a ZIP archive", nil)
	}
	ar, err := ziparchive.Open(buf)
	if err != nil {
		return nil, translateZipErr(err)
	}
	return ar, nil
}

func buildIndex(ar *ziparchive.Archive) (*workbookindex.Index, error) {
	idx, err := workbookindex.Build(ar)
	if err != nil {
		return nil, translateIndexErr(err)
	}
	return idx, nil
}

func openSharedStrings(ar *ziparchive.Archive, path string) (*sharedstrings.Table, error) {
	rc, err := ar.Open(path)
	if err != nil {
		return nil, translateZipErr(err)
	}
	defer rc.Close()
	sst, err := sharedstrings.Build(rc)
	if err != nil {
		var ie *ziparchive.InflateError
		if errors.As(err, &ie) {
			return nil, newPartErr(Inflate, ie.Part, "DEFLATE stream corrupt", ie)
		}
		return nil, wrapf(MalformedXML, err, "shared strings: %v", err)
	}
	return sst, nil
}

func runBatch(ar *ziparchive.Archive, partPath string, sst *sharedstrings.Table, start uint64, count uint32, opts []Option) (BatchResult, error) {
	cfg := batchConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	var rc io.ReadCloser
	var err error
	if cfg.verifyCRC {
		rc, err = ar.OpenVerified(partPath)
	} else {
		rc, err = ar.Open(partPath)
	}
	if err != nil {
		return BatchResult{}, translateZipErr(err)
	}
	defer rc.Close()

	sched := yield.New(cfg.rowInterval, cfg.byteInterval, yield.Func(cfg.yieldFunc))
	res, err := extractor.Batch(rc, sst, start, count, sched)
	if err != nil {
		return BatchResult{}, translateExtractorErr(err)
	}
	if cfg.verifyCRC {
		// The scan stops at the end of sheetData, or earlier once the window
		// is full; read the rest of the entry so the CRC check at EOF runs.
		if _, err := io.Copy(io.Discard, rc); err != nil {
			return BatchResult{}, translateZipErr(err)
		}
	}
	return BatchResult{Rows: res.Rows, Start: res.Start, Returned: res.Returned, Done: res.Done}, nil
}

func sheetInfos(idx *workbookindex.Index) []SheetInfo {
	out := make([]SheetInfo, len(idx.Sheets))
	for i, s := range idx.Sheets {
		out[i] = SheetInfo{Name: s.Name, ID: s.ID, Visibility: Visibility(s.Visibility)}
	}
	return out
}

// ── error translation ────────────────────────────────────────────────────
//
// Each internal package raises its own plain error types so it has no
// dependency on this package's Error/Kind. These functions are the single
// place that maps them onto the public taxonomy from spec §7.

func translateZipErr(err error) error {
	var ie *ziparchive.InflateError
	if errors.As(err, &ie) {
		return newPartErr(Inflate, ie.Part, "DEFLATE stream corrupt", ie)
	}
	switch e := err.(type) {
	case *ziparchive.MalformedArchiveError:
		return wrapf(MalformedArchive, e, "%v", e)
	case *ziparchive.UnsupportedMethodError:
		return wrapf(UnsupportedMethod, e, "%v", e)
	case *ziparchive.UnsupportedFeatureError:
		return wrapf(UnsupportedFeature, e, "%v", e)
	case *ziparchive.MissingPartError:
		return newPartErr(MissingPart, e.Part, "not found in archive", e)
	case *ziparchive.TruncatedError:
		return wrapf(Truncated, e, "%v", e)
	case *ziparchive.CRCMismatchError:
		return wrapf(Truncated, e, "%v", e)
	default:
		return wrapf(MalformedArchive, err, "%v", err)
	}
}

func translateIndexErr(err error) error {
	var ie *ziparchive.InflateError
	if errors.As(err, &ie) {
		return newPartErr(Inflate, ie.Part, "DEFLATE stream corrupt", ie)
	}
	switch e := err.(type) {
	case *workbookindex.MissingPartError:
		return newPartErr(MissingPart, e.Part, "not found in archive", e)
	case *workbookindex.MalformedError:
		return wrapf(MalformedWorkbook, e, "%v", e)
	default:
		return wrapf(MalformedWorkbook, err, "%v", err)
	}
}

func translateExtractorErr(err error) error {
	var ie *ziparchive.InflateError
	if errors.As(err, &ie) {
		return newPartErr(Inflate, ie.Part, "DEFLATE stream corrupt", ie)
	}
	switch e := err.(type) {
	case *extractor.MalformedSheetError:
		return wrapf(MalformedSheet, e, "%v", e)
	case *extractor.MissingSharedStringsError:
		return wrapf(MissingSharedStrings, e, "%v", e)
	case *extractor.TruncatedError:
		return wrapf(Truncated, e, "%v", e)
	case *extractor.XMLError:
		return wrapf(MalformedXML, e, "%v", e)
	default:
		return wrapf(MalformedSheet, err, "%v", err)
	}
}
