package xlsxstream

import "fmt"

// Kind classifies an Error's failure mode. Every operation in this package
// fails with exactly one Kind — nothing is retried internally and no error
// is silently swallowed.
type Kind int

const (
	// MalformedArchive means the EOCD record is missing, the central
	// directory is truncated, or a ZIP signature is wrong.
	MalformedArchive Kind = iota
	// UnsupportedMethod means an archive entry uses a compression method
	// other than STORED (0) or DEFLATE (8).
	UnsupportedMethod
	// UnsupportedFeature means an archive entry is encrypted, or uses a
	// ZIP64 feature beyond plain size extension.
	UnsupportedFeature
	// MissingPart means a required part (e.g. xl/workbook.xml) is absent.
	MissingPart
	// MalformedWorkbook means xl/workbook.xml or its relationships could
	// not be parsed into a sheet list.
	MalformedWorkbook
	// MalformedXML means the XML pull parser rejected its input.
	MalformedXML
	// MalformedSheet means a structural invariant of the worksheet grammar
	// was violated (e.g. non-monotonic row ordinals).
	MalformedSheet
	// MissingSharedStrings means a cell of type "s" was found but the
	// workbook carries no xl/sharedStrings.xml part.
	MissingSharedStrings
	// Inflate means the DEFLATE stream backing an archive entry is corrupt.
	Inflate
	// Truncated means a byte stream ended before its expected payload
	// length was reached.
	Truncated
	// InvalidArgument means the caller passed count == 0, an unknown sheet
	// name, or a buffer too small to be a ZIP archive.
	InvalidArgument
)

// String returns the Kind's name, used by Error.Error and in tests.
func (k Kind) String() string {
	switch k {
	case MalformedArchive:
		return "MalformedArchive"
	case UnsupportedMethod:
		return "UnsupportedMethod"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case MissingPart:
		return "MissingPart"
	case MalformedWorkbook:
		return "MalformedWorkbook"
	case MalformedXML:
		return "MalformedXml"
	case MalformedSheet:
		return "MalformedSheet"
	case MissingSharedStrings:
		return "MissingSharedStrings"
	case Inflate:
		return "Inflate"
	case Truncated:
		return "Truncated"
	case InvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// Error is the single failure type this package returns. Part carries the
// archive part path when the failure is part-specific (e.g. MissingPart);
// it is empty otherwise.
type Error struct {
	Kind Kind
	Part string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("xlsxstream: %s(%q): %s", e.Kind, e.Part, e.Msg)
	}
	return fmt.Sprintf("xlsxstream: %s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the underlying cause, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, &xlsxstream.Error{Kind: xlsxstream.MalformedSheet}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

func newPartErr(kind Kind, part, msg string, cause error) *Error {
	return &Error{Kind: kind, Part: part, Msg: msg, Err: cause}
}

func wrapf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}
