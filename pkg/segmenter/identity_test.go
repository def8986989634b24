package segmenter

import "testing"

func TestObjectID_KnownDigests(t *testing.T) {
	// SHA-1 reference vectors; the anchorless input is the URL alone.
	tests := []struct {
		url  string
		want string
	}{
		{"", "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{"abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
	}
	for _, tt := range tests {
		if got := ObjectID(tt.url, nil, 0); got != tt.want {
			t.Errorf("ObjectID(%q, nil, 0) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestObjectID_PositionIgnoredWithoutAnchor(t *testing.T) {
	url := "https://docs.example.com/guide/"
	if ObjectID(url, nil, 3) != ObjectID(url, nil, 9) {
		t.Error("anchorless objectID changed with position")
	}
}

func TestObjectID_AnchorAndPositionDistinguish(t *testing.T) {
	url := "https://docs.example.com/guide/"
	anchor := "install"

	plain := ObjectID(url, nil, 2)
	anchored := ObjectID(url, &anchor, 2)
	if plain == anchored {
		t.Error("anchored and anchorless objectIDs collide")
	}
	if anchored != ObjectID(url, &anchor, 2) {
		t.Error("objectID is not deterministic")
	}
	if anchored == ObjectID(url, &anchor, 3) {
		t.Error("anchored objectID ignored position")
	}

	other := "setup"
	if anchored == ObjectID(url, &other, 2) {
		t.Error("objectID ignored the anchor text")
	}
}

func TestObjectID_HexShape(t *testing.T) {
	got := ObjectID("https://docs.example.com/", nil, 0)
	if len(got) != 40 {
		t.Fatalf("ObjectID length = %d, want 40 hex chars", len(got))
	}
	for _, r := range got {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Fatalf("ObjectID contains non-hex rune %q", r)
		}
	}
}
