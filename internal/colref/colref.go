// Package colref decodes and encodes the column-letter / cell-reference
// notation used throughout OOXML worksheet XML (e.g. "B7", "AA1").
package colref

import "strings"

// SplitRef splits a cell reference such as "B7" into its column-letter
// prefix ("B") and row-number suffix ("7"). It does not validate either
// part; callers decode the column with Decode and parse the row themselves.
func SplitRef(ref string) (letters, digits string) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		i++
	}
	return ref[:i], ref[i:]
}

// Decode converts a column-letter string (A, B, ..., Z, AA, AB, ...) into a
// 0-based column index. An empty string decodes to -1, signalling "no
// column letters present" to callers that fall back to sequential
// assignment.
func Decode(letters string) int {
	if letters == "" {
		return -1
	}
	n := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		if c < 'A' || c > 'Z' {
			return -1
		}
		n = n*26 + int(c-'A') + 1
	}
	return n - 1
}

// Encode converts a 0-based column index into its column-letter string
// (0 → "A", 25 → "Z", 26 → "AA", ...). Negative indices encode as "".
func Encode(col int) string {
	if col < 0 {
		return ""
	}
	var b strings.Builder
	n := col + 1
	var letters []byte
	for n > 0 {
		n--
		letters = append(letters, byte('A'+n%26))
		n /= 26
	}
	for i := len(letters) - 1; i >= 0; i-- {
		b.WriteByte(letters[i])
	}
	return b.String()
}
