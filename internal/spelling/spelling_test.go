package spelling

import (
	"testing"

	"github.com/kingrea/harpist/internal/harp"
)

func pcs(values ...int) []harp.PitchClass {
	out := make([]harp.PitchClass, len(values))
	for i, v := range values {
		out[i] = harp.PitchClass(v)
	}
	return out
}

func notes(names ...string) []harp.Note {
	out := make([]harp.Note, len(names))
	for i, n := range names {
		out[i] = harp.MustParseNote(n)
	}
	return out
}

// assertRealizes checks that h plays every requested pitch class and nothing else.
func assertRealizes(t *testing.T, h harp.Harp, want []harp.PitchClass) {
	t.Helper()
	got := map[harp.PitchClass]bool{}
	for _, n := range h.Notes() {
		got[n.PitchClass()] = true
	}
	for _, pc := range want {
		if !got[pc] {
			t.Fatalf("%s does not play pitch class %d", h, pc)
		}
	}
	if len(h.Notes()) != len(want) {
		t.Fatalf("%s sets %d pedals for %d pitch classes", h, len(h.Notes()), len(want))
	}
}

func TestChordCounts(t *testing.T) {
	cases := []struct {
		name string
		free []harp.PitchClass
		want int
	}{
		{"five pitch classes", pcs(0, 3, 5, 7, 9), 10},
		{"three independent pairs", pcs(0, 3, 7), 8},
		{"single", pcs(1), 1},
		{"empty beat", nil, 1},
		{"G and A claimed, G sharp impossible", pcs(11, 0, 1), 0},
		{"duplicates collapse", pcs(1, 1, 13), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Chord(Beat{Free: tc.free})
			if len(got) != tc.want {
				t.Fatalf("Chord(%v) returned %d spellings, want %d", tc.free, len(got), tc.want)
			}
			seen := map[harp.Harp]bool{}
			for _, h := range got {
				if seen[h] {
					t.Fatalf("duplicate spelling %s", h)
				}
				seen[h] = true
			}
		})
	}
}

func TestChordSpellingsAreValid(t *testing.T) {
	want := pcs(0, 3, 5, 7, 9)
	for _, h := range Chord(Beat{Free: want}) {
		assertRealizes(t, h, want)
	}
}

func TestChordKeepsFixedNotes(t *testing.T) {
	// With C♭ fixed, pitch class 4 can only be B♯.
	got := Chord(Beat{Fixed: notes("Cb"), Free: pcs(4)})
	if len(got) != 1 {
		t.Fatalf("expected one spelling, got %d", len(got))
	}
	if got[0].Get(harp.C) != harp.Flat || got[0].Get(harp.B) != harp.Sharp {
		t.Fatalf("unexpected spelling %s", got[0])
	}
}

func TestChordRejectsConflictingFixedNotes(t *testing.T) {
	if got := Chord(Beat{Fixed: notes("Eb", "E")}); got != nil {
		t.Fatalf("E♭ and E♮ together should be unplayable, got %v", got)
	}
	if got := Chord(Beat{Fixed: notes("Eb", "Eb")}); len(got) != 1 {
		t.Fatalf("a repeated fixed note is still one spelling, got %d", len(got))
	}
}

func TestChordSkipsPitchesSoundedByFixedNotes(t *testing.T) {
	got := Chord(Beat{Fixed: notes("Eb"), Free: pcs(7)})
	if len(got) != 1 || len(got[0].Notes()) != 1 {
		t.Fatalf("free E♭ alongside fixed E♭ should add nothing, got %v", got)
	}
}

func TestEnumerateIsProduct(t *testing.T) {
	beats := []Beat{
		{Free: pcs(0, 3, 7)},
		{Free: pcs(1)},
		{},
		{Free: pcs(2, 9)},
	}
	want := 8 * 1 * 1 * 4
	if Count(beats) != want {
		t.Fatalf("Count = %d, want %d", Count(beats), want)
	}
	n := 0
	seen := map[string]bool{}
	for s := range Enumerate(beats) {
		n++
		if len(s) != len(beats) {
			t.Fatalf("spelling has %d beats", len(s))
		}
		key := ""
		for _, h := range s {
			key += h.String()
		}
		if seen[key] {
			t.Fatalf("duplicate spelling %s", key)
		}
		seen[key] = true
	}
	if n != want {
		t.Fatalf("Enumerate yielded %d, want %d", n, want)
	}
}

func TestEnumerateEmptyWhenAnyBeatImpossible(t *testing.T) {
	beats := []Beat{{Free: pcs(0)}, {Free: pcs(11, 0, 1)}, {Free: pcs(2)}}
	for range Enumerate(beats) {
		t.Fatalf("expected no spellings")
	}
	if Count(beats) != 0 {
		t.Fatalf("Count should be 0")
	}
	if _, bad := Chords(beats); bad != 1 {
		t.Fatalf("first bad beat = %d, want 1", bad)
	}
}

func TestEnumerateStopsEarly(t *testing.T) {
	beats := []Beat{{Free: pcs(0, 3, 5, 7, 9)}, {Free: pcs(0, 3, 5, 7, 9)}}
	n := 0
	for range Enumerate(beats) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("iteration did not stop, n=%d", n)
	}
}

func TestAssignOrderPlacesSingleSpellingsFirst(t *testing.T) {
	if len(assignOrder) != 12 {
		t.Fatalf("assign order covers %d pitch classes", len(assignOrder))
	}
	want := []harp.PitchClass{1, 6, 11, 0, 2, 3, 4, 5, 7, 8, 9, 10}
	for i, pc := range want {
		if assignOrder[i] != pc {
			t.Fatalf("assign order = %v, want %v", assignOrder, want)
		}
	}
}
