// Package ziparchive is the Archive Directory Reader (C1) and Entry Byte
// Stream (C2) of the streaming XLSX extractor. It reads the ZIP central
// directory of an in-memory archive and exposes each entry as a lazily
// decompressed byte stream, without materialising the whole archive.
//
// The central-directory walk, end-of-central-directory search, ZIP64 size
// extension, and local-header reparsing described by spec §4.1 are all
// already implemented — correctly and defensively — by the standard
// library's archive/zip, which is also what the teacher package uses for
// its own ZIP container. Rather than duplicate that logic by hand, this
// package wraps archive/zip and layers the narrower contract C1/C2 need on
// top of it: named-entry lookup, upfront feature validation (so a single
// encrypted entry fails the whole archive rather than surfacing lazily deep
// in a call stack), and a registered github.com/klauspost/compress/flate
// decompressor so the DEFLATE hot path — the inflater spec §4.2 calls out
// as needing small, poll-friendly output chunks — runs through a faster,
// still fully streaming implementation than compress/flate.
package ziparchive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"hash/crc32"
	"io"
	"sync"

	kflate "github.com/klauspost/compress/flate"
)

var registerDecompressor sync.Once

func useFastInflate() {
	registerDecompressor.Do(func() {
		zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
			return kflate.NewReader(r)
		})
	})
}

// Entry describes one archive member, mirroring the attributes spec §3
// names: name, compression method, compressed/uncompressed sizes, and CRC.
type Entry struct {
	Name             string
	Method           uint16
	CompressedSize   uint64
	UncompressedSize uint64
	CRC32            uint32
}

// Archive is a parsed ZIP central directory plus a handle to the backing
// buffer used to stream entry contents on demand.
type Archive struct {
	zr      *zip.Reader
	byName  map[string]*zip.File
	entries []Entry
}

// Open parses buf's ZIP central directory, validating every entry up front
// (method, encryption flag) so a single bad entry fails the whole archive
// rather than surfacing lazily when some unrelated part is opened. Errors
// are plain Go errors; xlsxstream.go translates them into this module's
// Error taxonomy so this package stays independent of that type.
func Open(buf []byte) (*Archive, error) {
	useFastInflate()

	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, &MalformedArchiveError{Err: err}
	}

	ar := &Archive{
		zr:     zr,
		byName: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		// General-purpose bit flag 0 marks the entry as encrypted (spec §4.1).
		if f.Flags&0x1 != 0 {
			return nil, &UnsupportedFeatureError{Reason: fmt.Sprintf("entry %q is encrypted", f.Name)}
		}
		method := f.Method
		if method != zip.Store && method != zip.Deflate {
			return nil, &UnsupportedMethodError{Name: f.Name, Method: method}
		}
		ar.byName[f.Name] = f
		ar.entries = append(ar.entries, Entry{
			Name:             f.Name,
			Method:           method,
			CompressedSize:   f.CompressedSize64,
			UncompressedSize: f.UncompressedSize64,
			CRC32:            f.CRC32,
		})
	}
	return ar, nil
}

// Entries returns metadata for every archive member, in central-directory
// order.
func (a *Archive) Entries() []Entry {
	return a.entries
}

// Has reports whether an entry with the exact (case-sensitive) name exists.
func (a *Archive) Has(name string) bool {
	_, ok := a.byName[name]
	return ok
}

// Open returns a lazily-decompressing reader over the named entry's
// uncompressed contents. The reader must be closed by the caller. A lookup
// miss returns *MissingPartError.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	f, ok := a.byName[name]
	if !ok {
		return nil, &MissingPartError{Part: name}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &TruncatedError{Part: name, Err: err}
	}
	return wrapInflate(rc, name, f.Method), nil
}

// OpenVerified is like Open but wraps the stream in a CRC-32 check that
// fails at EOF if the running checksum does not match the entry's recorded
// CRC. CRC verification is optional and off the hot path by default (spec
// §4.2); call this only when a caller explicitly asks for integrity
// checking.
func (a *Archive) OpenVerified(name string) (io.ReadCloser, error) {
	f, ok := a.byName[name]
	if !ok {
		return nil, &MissingPartError{Part: name}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &TruncatedError{Part: name, Err: err}
	}
	rc = wrapInflate(rc, name, f.Method)
	return &crcReader{rc: rc, want: f.CRC32, sum: crc32.NewIEEE(), part: name}, nil
}

// wrapInflate wraps rc so that a mid-stream read failure on a DEFLATE entry
// surfaces as *InflateError rather than a bare error from the underlying
// decompressor, matching Entry/Method so callers only see InflateError for
// entries actually using DEFLATE.
func wrapInflate(rc io.ReadCloser, name string, method uint16) io.ReadCloser {
	if method != zip.Deflate {
		return rc
	}
	return &inflateErrReader{rc: rc, part: name}
}

type inflateErrReader struct {
	rc   io.ReadCloser
	part string
}

func (r *inflateErrReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if err != nil && err != io.EOF {
		return n, &InflateError{Part: r.part, Err: err}
	}
	return n, err
}

func (r *inflateErrReader) Close() error { return r.rc.Close() }

type crcReader struct {
	rc   io.ReadCloser
	sum  interface{ Write([]byte) (int, error) }
	want uint32
	part string
	eof  bool
}

func (c *crcReader) Read(p []byte) (int, error) {
	n, err := c.rc.Read(p)
	if n > 0 {
		_, _ = c.sum.Write(p[:n])
	}
	if err == io.EOF && !c.eof {
		c.eof = true
		if h, ok := c.sum.(interface{ Sum32() uint32 }); ok {
			if h.Sum32() != c.want {
				return n, &CRCMismatchError{Part: c.part, Want: c.want, Got: h.Sum32()}
			}
		}
	}
	return n, err
}

func (c *crcReader) Close() error {
	return c.rc.Close()
}

// ── error types ──────────────────────────────────────────────────────────
//
// These are plain, unexported-detail-free error types (not this module's
// public xlsxstream.Error) so that ziparchive has no dependency on the root
// package; xlsxstream.go maps each one to the right Kind.

type MalformedArchiveError struct{ Err error }

func (e *MalformedArchiveError) Error() string { return fmt.Sprintf("malformed archive: %v", e.Err) }
func (e *MalformedArchiveError) Unwrap() error { return e.Err }

type UnsupportedMethodError struct {
	Name   string
	Method uint16
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("entry %q uses unsupported compression method %d", e.Name, e.Method)
}

type UnsupportedFeatureError struct{ Reason string }

func (e *UnsupportedFeatureError) Error() string { return e.Reason }

type MissingPartError struct{ Part string }

func (e *MissingPartError) Error() string { return fmt.Sprintf("missing part %q", e.Part) }

type TruncatedError struct {
	Part string
	Err  error
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated entry %q: %v", e.Part, e.Err)
}
func (e *TruncatedError) Unwrap() error { return e.Err }

type CRCMismatchError struct {
	Part      string
	Want, Got uint32
}

func (e *CRCMismatchError) Error() string {
	return fmt.Sprintf("entry %q: CRC-32 mismatch: want %08x, got %08x", e.Part, e.Want, e.Got)
}

// InflateError means a DEFLATE-compressed entry's compressed bytes could not
// be decoded — a corrupt or truncated compressed stream, as distinct from a
// truncated read of the compressed bytes themselves (TruncatedError).
type InflateError struct {
	Part string
	Err  error
}

func (e *InflateError) Error() string {
	return fmt.Sprintf("entry %q: inflate failed: %v", e.Part, e.Err)
}
func (e *InflateError) Unwrap() error { return e.Err }
