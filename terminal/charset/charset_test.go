package charset

import "testing"

func TestLookup(t *testing.T) {
	cases := []struct {
		final uint8
		want  Charset
	}{
		{'B', ASCII},
		{'A', British},
		{'0', DECSpecialGraphics},
		{'2', DECSpecialGraphics},
		{'Z', ASCII}, // unrecognized final falls back to ASCII
	}
	for _, tc := range cases {
		if got := Lookup(tc.final); got != tc.want {
			t.Errorf("Lookup(%q) = %v, want %v", tc.final, got, tc.want)
		}
	}
}

func TestTranslate_ASCII(t *testing.T) {
	if got := Translate(ASCII, 'a'); got != 'a' {
		t.Errorf("ASCII should pass runes through unchanged, got %q", got)
	}
}

func TestTranslate_British(t *testing.T) {
	if got := Translate(British, '#'); got != '£' {
		t.Errorf("British '#' should map to '£', got %q", got)
	}
	if got := Translate(British, 'a'); got != 'a' {
		t.Errorf("British should leave unrelated runes unchanged, got %q", got)
	}
}

func TestTranslate_DECSpecialGraphics(t *testing.T) {
	if got := Translate(DECSpecialGraphics, 'q'); got != '─' {
		t.Errorf("DEC special graphics 'q' should map to '─', got %q", got)
	}
	if got := Translate(DECSpecialGraphics, 'x'); got != '│' {
		t.Errorf("DEC special graphics 'x' should map to '│', got %q", got)
	}
	if got := Translate(DECSpecialGraphics, '!'); got != '!' {
		t.Errorf("DEC special graphics has no mapping outside 0x5F-0x7E, want passthrough, got %q", got)
	}
}
