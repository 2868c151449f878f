package colref

import "testing"

func TestDecodeEncodeRoundTrip(t *testing.T) {
	cases := []struct {
		letters string
		col     int
	}{
		{"A", 0},
		{"Z", 25},
		{"AA", 26},
		{"AB", 27},
		{"AZ", 51},
		{"BA", 52},
		{"ZZ", 701},
		{"AAA", 702},
	}
	for _, c := range cases {
		if got := Decode(c.letters); got != c.col {
			t.Errorf("Decode(%q) = %d, want %d", c.letters, got, c.col)
		}
		if got := Encode(c.col); got != c.letters {
			t.Errorf("Encode(%d) = %q, want %q", c.col, got, c.letters)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	if got := Decode(""); got != -1 {
		t.Errorf("Decode(\"\") = %d, want -1", got)
	}
	if got := Decode("a1"); got != -1 {
		t.Errorf("Decode(\"a1\") = %d, want -1 (lowercase rejected)", got)
	}
}

func TestEncodeNegative(t *testing.T) {
	if got := Encode(-1); got != "" {
		t.Errorf("Encode(-1) = %q, want \"\"", got)
	}
}

func TestSplitRef(t *testing.T) {
	cases := []struct {
		ref     string
		letters string
		digits  string
	}{
		{"B7", "B", "7"},
		{"AA123", "AA", "123"},
		{"A1", "A", "1"},
	}
	for _, c := range cases {
		letters, digits := SplitRef(c.ref)
		if letters != c.letters || digits != c.digits {
			t.Errorf("SplitRef(%q) = (%q, %q), want (%q, %q)", c.ref, letters, digits, c.letters, c.digits)
		}
	}
}
