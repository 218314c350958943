package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 10: 10, 500: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
	if LimitWithBuffer(10) != 11 {
		t.Fatalf("expected buffer of one")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	token := EncodeCursor(48)
	if token == "" {
		t.Fatal("expected non-empty cursor")
	}
	offset, err := ParseCursor(token)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if offset != 48 {
		t.Fatalf("expected offset 48, got %d", offset)
	}

	if EncodeCursor(0) != "" {
		t.Fatal("first page should not need a cursor")
	}
	if offset, err := ParseCursor(""); err != nil || offset != 0 {
		t.Fatalf("expected empty cursor to be offset 0, got %d %v", offset, err)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"!!!", "eDox", EncodeCursor(5)[:2]} {
		if _, err := ParseCursor(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
