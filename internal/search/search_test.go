package search

import (
	"testing"

	"github.com/kingrea/harpist/internal/cost"
	"github.com/kingrea/harpist/internal/harp"
)

func chord(notes ...string) harp.Harp {
	var h harp.Harp
	for _, n := range notes {
		h.Set(harp.MustParseNote(n))
	}
	return h
}

func TestSingleChange(t *testing.T) {
	p := Spelling(harp.Filled(harp.Natural), harp.Harp{}, []harp.Harp{chord("C#")}, false)
	paths, ok := Search(cost.DefaultWeights(), p, Options{})
	if !ok {
		t.Fatalf("expected a path")
	}
	if len(paths) != 1 {
		t.Fatalf("expected one path, got %d", len(paths))
	}
	path := paths[0]
	if path.Cost != cost.DefaultPedalCost {
		t.Fatalf("cost = %d, want %d", path.Cost, cost.DefaultPedalCost)
	}
	if len(path.States) != 3 || len(path.Steps) != 2 || len(path.Choices) != 1 {
		t.Fatalf("unexpected shape: %d states, %d steps, %d choices", len(path.States), len(path.Steps), len(path.Choices))
	}
	if got := path.Steps[0].String(); got != "C♯ | -" {
		t.Fatalf("first step = %q", got)
	}
	if !path.Steps[1].Empty() {
		t.Fatalf("settle step should be empty, got %s", path.Steps[1])
	}
	if path.Final().Get(harp.C) != harp.Sharp {
		t.Fatalf("final pedals %s", path.Final())
	}
}

func TestStartsOnlyEnumerateRequiredSlots(t *testing.T) {
	p := Problem{
		Start:   chord("Cb"),
		End:     chord("A"),
		Targets: [][]harp.Harp{{chord("Eb")}, {chord("Eb", "C")}},
	}
	starts := p.Starts()
	// E and A are needed and unset; C is already committed.
	if len(starts) != 9 {
		t.Fatalf("expected 9 start states, got %d", len(starts))
	}
	for _, s := range starts {
		if s.Pedals.Get(harp.C) != harp.Flat {
			t.Fatalf("committed pedal changed: %s", s.Pedals)
		}
		for _, n := range []harp.Name{harp.D, harp.B, harp.F, harp.G} {
			if s.Pedals.Get(n) != harp.Unset {
				t.Fatalf("untouched pedal %s was set: %s", n, s.Pedals)
			}
		}
		if s.Pedals.Get(harp.E) == harp.Unset || s.Pedals.Get(harp.A) == harp.Unset {
			t.Fatalf("required pedal left unset: %s", s.Pedals)
		}
	}
}

func TestSearchFindsStartPosition(t *testing.T) {
	p := Spelling(harp.Harp{}, harp.Harp{}, []harp.Harp{chord("Eb")}, false)
	paths, ok := Search(cost.DefaultWeights(), p, Options{})
	if !ok || len(paths) != 1 {
		t.Fatalf("expected one path, got %d (ok=%v)", len(paths), ok)
	}
	if paths[0].Cost != 0 {
		t.Fatalf("presetting E♭ should be free, cost %d", paths[0].Cost)
	}
	if paths[0].Start().Get(harp.E) != harp.Flat {
		t.Fatalf("start = %s", paths[0].Start())
	}
}

func TestSearchReturnsEveryTie(t *testing.T) {
	p := Problem{Targets: [][]harp.Harp{{chord("Eb"), chord("D#")}}}
	paths, ok := Search(cost.DefaultWeights(), p, Options{})
	if !ok {
		t.Fatalf("expected paths")
	}
	// E♭ with D♭ or D♮, or D♯ with E♮ or E♯. D♯ with E♭ doubles a string.
	if len(paths) != 4 {
		for _, path := range paths {
			t.Logf("start %s choice %v cost %d", path.Start(), path.Choices, path.Cost)
		}
		t.Fatalf("expected 4 tied paths, got %d", len(paths))
	}
	byChoice := map[int]int{}
	seen := map[harp.Harp]bool{}
	for _, path := range paths {
		if path.Cost != 0 {
			t.Fatalf("tied path costs %d", path.Cost)
		}
		if seen[path.Start()] {
			t.Fatalf("duplicate start %s", path.Start())
		}
		seen[path.Start()] = true
		byChoice[path.Choices[0]]++
	}
	if byChoice[0] != 2 || byChoice[1] != 2 {
		t.Fatalf("unexpected choice split %v", byChoice)
	}

	capped, _ := Search(cost.DefaultWeights(), p, Options{MaxPaths: 1})
	if len(capped) != 1 {
		t.Fatalf("MaxPaths ignored: %d paths", len(capped))
	}
}

func TestDoubleChangeNeedsRelaxedSearch(t *testing.T) {
	start := harp.Filled(harp.Natural)
	spelling := []harp.Harp{chord("E#", "G#")}
	if _, ok := Search(cost.DefaultWeights(), Spelling(start, harp.Harp{}, spelling, false), Options{}); ok {
		t.Fatalf("one foot cannot move two pedals at once")
	}
	paths, ok := Search(cost.DefaultWeights(), Spelling(start, harp.Harp{}, spelling, true), Options{})
	if !ok || len(paths) != 1 {
		t.Fatalf("relaxed search should find one path, got %d", len(paths))
	}
	// Two pedals, one extra change on the same foot, E♯ doubling F on both
	// the beat and the settle.
	want := uint(2*cost.DefaultPedalCost + cost.DefaultDoubleChangeCost + 2*cost.DefaultDoubleStringCost)
	if paths[0].Cost != want {
		t.Fatalf("cost = %d, want %d", paths[0].Cost, want)
	}
	if got := len(paths[0].Steps[0].Right); got != 2 {
		t.Fatalf("expected both changes on the first beat, got %d", got)
	}
}

func TestEarlyChangePreparesCrowdedBeat(t *testing.T) {
	start := harp.Filled(harp.Natural)
	spelling := []harp.Harp{chord("C"), chord("E#", "G#")}
	for _, relaxed := range []bool{false, true} {
		paths, ok := Search(cost.DefaultWeights(), Spelling(start, harp.Harp{}, spelling, relaxed), Options{})
		if !ok || len(paths) != 1 {
			t.Fatalf("relaxed=%v: expected one path, got %d", relaxed, len(paths))
		}
		path := paths[0]
		// G♯ early, then E♯ while the right foot is still hot from G.
		want := uint(cost.DefaultPedalCost + cost.DefaultEarlyChangeCost +
			cost.DefaultPedalCost + cost.DefaultQuickChangeCost*3 + cost.DefaultDoubleStringCost +
			cost.DefaultDoubleStringCost)
		if path.Cost != want {
			t.Fatalf("relaxed=%v: cost = %d, want %d", relaxed, path.Cost, want)
		}
		first := path.Steps[0]
		if !first.Early[harp.Right] || len(first.Right) != 1 || first.Right[0] != harp.MustParseNote("G#") {
			t.Fatalf("relaxed=%v: first step = %s", relaxed, first)
		}
		if got := path.Steps[1].String(); got != "- | E♯" {
			t.Fatalf("relaxed=%v: second step = %q", relaxed, got)
		}
		if !path.States[1].Early[harp.Slot(harp.G)] {
			t.Fatalf("G should be marked early after the first beat")
		}
		if path.States[2].Early[harp.Slot(harp.G)] {
			t.Fatalf("G should no longer be early once a beat needs it")
		}
	}
}

func TestEarlyMarkedPedalCannotMoveAgain(t *testing.T) {
	s := State{Pedals: harp.Filled(harp.Natural)}
	s.Early[harp.Slot(harp.G)] = true
	for _, m := range footMoves(s, chord("C"), harp.Right, false, true) {
		if m.early == harp.Slot(harp.G) {
			t.Fatalf("early-marked pedal offered again: %v", m.notes)
		}
	}
	moves := footMoves(s, chord("C"), harp.Right, false, true)
	// Rest, plus E, F and A to two other positions each.
	if len(moves) != 1+3*2 {
		t.Fatalf("expected 7 moves, got %d", len(moves))
	}
	if got := footMoves(s, chord("C"), harp.Right, false, false); len(got) != 1 {
		t.Fatalf("without early moves the foot can only rest, got %d", len(got))
	}
}

func TestHeuristicNeverExceedsEdgeCost(t *testing.T) {
	w := cost.DefaultWeights()
	p := Problem{
		Targets: [][]harp.Harp{
			{chord("C", "Eb"), chord("B#", "D#")},
			{chord("E#", "G#"), chord("F", "Ab")},
			{chord("Cb", "B")},
		},
		End:     chord("A"),
		Relaxed: true,
	}
	frontier := p.Starts()
	for depth := 0; depth < 2; depth++ {
		var next []State
		for _, s := range frontier {
			h := p.heuristic(w, s)
			for _, e := range p.successors(w, s) {
				if h > e.cost {
					t.Fatalf("heuristic %d exceeds edge cost %d from %s", h, e.cost, s.Pedals)
				}
				next = append(next, e.to)
			}
		}
		if len(next) > 2000 {
			next = next[:2000]
		}
		frontier = next
	}
}

func TestMaxExpansionsTruncates(t *testing.T) {
	p := Spelling(harp.Filled(harp.Natural), harp.Harp{}, []harp.Harp{chord("C#"), chord("Eb"), chord("G#")}, false)
	_, stats, ok := SearchFrom(cost.DefaultWeights(), p, p.Starts(), Options{MaxExpansions: 1})
	if ok || !stats.Truncated {
		t.Fatalf("expected a truncated search, ok=%v stats=%+v", ok, stats)
	}
}

func TestNoTargetsMeansNoPath(t *testing.T) {
	p := Problem{Start: harp.Filled(harp.Natural), Targets: [][]harp.Harp{{}}}
	if _, ok := Search(cost.DefaultWeights(), p, Options{}); ok {
		t.Fatalf("a beat without options cannot be played")
	}
}
