package xlsxstream

import (
	"github.com/google/uuid"

	"github.com/wbreader/xlsxstream/internal/sharedstrings"
	"github.com/wbreader/xlsxstream/internal/workbookindex"
	"github.com/wbreader/xlsxstream/internal/ziparchive"
)

// Session is the opaque-handle extension spec §9's design notes permit:
// "an implementer MAY extend with an opaque session handle that caches the
// shared-string table and central directory across batches keyed by buffer
// identity, provided the buffer is immutable." OpenSession parses the
// archive directory and workbook index once; repeated Batch calls against
// the same Session reuse them. The shared-string table, when the workbook
// has one, is built by the first Batch call (whether or not that window
// references it) and reused by later ones.
//
// The caller must not mutate buf for the Session's lifetime. Session is not
// safe for concurrent use: each goroutine needing concurrent access should
// open its own Session over the same buffer, matching spec §5's "no
// synchronisation required, each call owns its own parser/inflater" model.
type Session struct {
	id  uuid.UUID
	buf []byte
	ar  *ziparchive.Archive
	idx *workbookindex.Index
	sst *sharedstrings.Table
	st  *StyleTable
}

// OpenSession parses buf's archive directory and workbook index once,
// returning a handle that amortises that cost across many Batch calls.
func OpenSession(buf []byte) (*Session, error) {
	ar, err := openArchive(buf)
	if err != nil {
		return nil, err
	}
	idx, err := buildIndex(ar)
	if err != nil {
		return nil, err
	}
	return &Session{id: uuid.New(), buf: buf, ar: ar, idx: idx}, nil
}

// ID returns the session's opaque identity token, stable for its lifetime.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// ListSheets returns the cached sheet list; it never re-reads the archive.
func (s *Session) ListSheets() []SheetInfo {
	return sheetInfos(s.idx)
}

// Batch is identical to the package-level Batch, except it reuses this
// Session's cached workbook index and — once built by the first Batch
// call — its shared-string table, instead of rebuilding them from buf.
func (s *Session) Batch(sheetName string, start uint64, count uint32, opts ...Option) (BatchResult, error) {
	if count == 0 {
		return BatchResult{}, newErr(InvalidArgument, "count must be > 0", nil)
	}
	sheet, ok := s.idx.SheetByName(sheetName)
	if !ok {
		return BatchResult{}, newErr(InvalidArgument, "unknown sheet \""+sheetName+"\"", nil)
	}

	if s.sst == nil && s.idx.SharedStringsPath != "" {
		sst, err := openSharedStrings(s.ar, s.idx.SharedStringsPath)
		if err != nil {
			return BatchResult{}, err
		}
		s.sst = sst
	}

	return runBatch(s.ar, sheet.PartPath, s.sst, start, count, opts)
}

// Styles returns this Session's cached StyleTable, parsing xl/styles.xml on
// first reference.
func (s *Session) Styles() (*StyleTable, error) {
	if s.st == nil {
		st, err := parseStylesFrom(s.ar, s.idx.StylesPath, s.idx.Date1904)
		if err != nil {
			return nil, err
		}
		s.st = st
	}
	return s.st, nil
}

// Close releases the Session's reference to buf and its cached state. It
// is always safe to call and never fails — there are no OS handles to
// release, since the archive lives entirely in the caller-supplied buffer.
func (s *Session) Close() error {
	s.buf = nil
	s.ar = nil
	s.idx = nil
	s.sst = nil
	s.st = nil
	return nil
}
