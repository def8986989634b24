package hierarchy

import "testing"

func activeLevels(s Snapshot) []int {
	var levels []int
	for l, text := range s.Levels {
		if text != nil {
			levels = append(levels, l)
		}
	}
	return levels
}

func TestNewTracker_SeedsTitle(t *testing.T) {
	tr := NewTracker("Guide")

	s := tr.Snapshot()
	if s.Levels[0] == nil || *s.Levels[0] != "Guide" {
		t.Fatalf("Snapshot().Levels[0] = %v, want \"Guide\"", s.Levels[0])
	}
	if s.Depth != 0 {
		t.Errorf("Snapshot().Depth = %d, want 0", s.Depth)
	}
	if s.Anchor != nil {
		t.Errorf("Snapshot().Anchor = %q, want nil", *s.Anchor)
	}
}

func TestObserve_EvictsDeeperAndEqualFrames(t *testing.T) {
	tr := NewTracker("Guide")
	tr.Observe(1, "Intro", "intro")
	tr.Observe(2, "Setup", "setup")
	tr.Observe(3, "Linux", "linux")

	got := activeLevels(tr.Snapshot())
	want := []int{0, 1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("active levels = %v, want %v", got, want)
	}

	// A new h2 closes the previous h2 and its h3 subtree.
	tr.Observe(2, "Usage", "usage")

	s := tr.Snapshot()
	got = activeLevels(s)
	want = []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("active levels after re-observe = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("active levels after re-observe = %v, want %v", got, want)
		}
	}
	if *s.Levels[2] != "Usage" {
		t.Errorf("Levels[2] = %q, want %q", *s.Levels[2], "Usage")
	}
	if s.Depth != 2 {
		t.Errorf("Depth = %d, want 2", s.Depth)
	}
}

func TestObserve_IgnoresOutOfRangeLevels(t *testing.T) {
	tr := NewTracker("Guide")
	tr.Observe(0, "nope", "")
	tr.Observe(7, "nope", "")

	s := tr.Snapshot()
	if *s.Levels[0] != "Guide" {
		t.Errorf("Levels[0] = %q, want %q", *s.Levels[0], "Guide")
	}
	if got := len(activeLevels(s)); got != 1 {
		t.Errorf("active level count = %d, want 1", got)
	}
}

func TestSnapshot_AnchorIsDeepestWithID(t *testing.T) {
	tr := NewTracker("Guide")
	tr.Observe(1, "Intro", "intro")
	tr.Observe(2, "Details", "") // rendered without an id

	s := tr.Snapshot()
	if s.Depth != 2 {
		t.Errorf("Depth = %d, want 2", s.Depth)
	}
	if s.Anchor == nil || *s.Anchor != "intro" {
		t.Fatalf("Anchor = %v, want \"intro\"", s.Anchor)
	}

	tr.Observe(3, "More", "more")
	if s2 := tr.Snapshot(); s2.Anchor == nil || *s2.Anchor != "more" {
		t.Fatalf("Anchor = %v, want \"more\"", s2.Anchor)
	}
}

func TestSnapshot_DoesNotAliasTrackerState(t *testing.T) {
	tr := NewTracker("Guide")
	tr.Observe(1, "Intro", "intro")

	before := tr.Snapshot()
	tr.Observe(1, "Changed", "changed")

	if *before.Levels[1] != "Intro" {
		t.Errorf("earlier snapshot Levels[1] = %q, want %q", *before.Levels[1], "Intro")
	}
	if *before.Anchor != "intro" {
		t.Errorf("earlier snapshot Anchor = %q, want %q", *before.Anchor, "intro")
	}
}
