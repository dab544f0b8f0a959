// Package spelling enumerates the enharmonic spellings of a passage. A
// spelling chooses, for every beat, which pedal plays each required pitch so
// that no pedal is asked for two accidentals at once.
package spelling

import (
	"iter"
	"math"
	"slices"

	"github.com/kingrea/harpist/internal/harp"
)

// Beat is one simultaneous sonority. Fixed notes keep the spelling they were
// written with; Free pitch classes may be spelled either way.
type Beat struct {
	Fixed []harp.Note       `json:"fixed,omitempty"`
	Free  []harp.PitchClass `json:"free,omitempty"`
}

// Rest reports whether the beat requires no pitches.
func (b Beat) Rest() bool {
	return len(b.Fixed) == 0 && len(b.Free) == 0
}

// nameSet is a bitmask of pedal names already claimed within a chord.
type nameSet uint8

func (s nameSet) has(n harp.Name) bool { return s&(1<<n) != 0 }

func (s nameSet) with(n harp.Name) nameSet { return s | 1<<n }

// Single-spelling pitch classes go first so they claim their pedals before
// the flexible ones branch.
var assignOrder = func() []harp.PitchClass {
	order := make([]harp.PitchClass, 0, 12)
	for _, unique := range []bool{true, false} {
		for pc := harp.PitchClass(0); pc < 12; pc++ {
			if pc.Unique() == unique {
				order = append(order, pc)
			}
		}
	}
	return order
}()

// Chord returns every way to spell one beat, each as a harp with exactly the
// beat's pedals set. It returns nil when the chord cannot be played.
func Chord(b Beat) []harp.Harp {
	var base harp.Harp
	var used nameSet
	var sounding [12]bool
	for _, n := range b.Fixed {
		slot := harp.Slot(n.Name)
		if base[slot] != harp.Unset && base[slot] != n.Accidental {
			return nil
		}
		base[slot] = n.Accidental
		used = used.with(n.Name)
		sounding[n.PitchClass()] = true
	}
	var requested [12]bool
	for _, pc := range b.Free {
		requested[pc%12] = true
	}
	pcs := make([]harp.PitchClass, 0, len(b.Free))
	for _, pc := range assignOrder {
		// A pitch a fixed note already sounds needs no second string.
		if requested[pc] && !sounding[pc] {
			pcs = append(pcs, pc)
		}
	}
	if !feasible(pcs, used) {
		return nil
	}
	var out []harp.Harp
	assign(pcs, used, base, func(h harp.Harp) {
		out = append(out, h)
	})
	return out
}

// assign branches once per viable spelling of the first pitch class and
// recurses into the rest with that pedal claimed. Branches whose remaining
// pitch classes have nowhere left to go are cut before they are expanded.
func assign(pcs []harp.PitchClass, used nameSet, acc harp.Harp, emit func(harp.Harp)) {
	if len(pcs) == 0 {
		emit(acc)
		return
	}
	rest := pcs[1:]
	for _, n := range viablePedals(pcs[0], used) {
		claimed := used.with(n.Name)
		if !feasible(rest, claimed) {
			continue
		}
		next := acc
		next.Set(n)
		assign(rest, claimed, next, emit)
	}
}

// viablePedals lists the spellings of pc whose pedal is still free.
func viablePedals(pc harp.PitchClass, used nameSet) []harp.Note {
	notes := pc.Notes()
	out := notes[:0]
	for _, n := range notes {
		if !used.has(n.Name) {
			out = append(out, n)
		}
	}
	return out
}

func feasible(pcs []harp.PitchClass, used nameSet) bool {
	for _, pc := range pcs {
		if len(viablePedals(pc, used)) == 0 {
			return false
		}
	}
	return true
}

// Chords spells every beat independently. The second result is the index of
// the first unplayable beat, or -1 when every beat has a spelling.
func Chords(beats []Beat) ([][]harp.Harp, int) {
	out := make([][]harp.Harp, len(beats))
	for i, b := range beats {
		out[i] = Chord(b)
		if len(out[i]) == 0 {
			return nil, i
		}
	}
	return out, -1
}

// Enumerate yields every full spelling of the passage, one harp per beat, in
// depth-first order. Pedal claims reset at each beat boundary. Nothing is
// yielded when some beat cannot be spelled. Each yielded slice is fresh.
func Enumerate(beats []Beat) iter.Seq[[]harp.Harp] {
	return func(yield func([]harp.Harp) bool) {
		chords, bad := Chords(beats)
		if bad >= 0 {
			return
		}
		path := make([]harp.Harp, len(beats))
		var walk func(i int) bool
		walk = func(i int) bool {
			if i == len(chords) {
				return yield(slices.Clone(path))
			}
			for _, h := range chords[i] {
				path[i] = h
				if !walk(i + 1) {
					return false
				}
			}
			return true
		}
		walk(0)
	}
}

// Count returns how many spellings Enumerate would yield, saturating at
// math.MaxInt.
func Count(beats []Beat) int {
	total := 1
	for _, b := range beats {
		n := len(Chord(b))
		if n == 0 {
			return 0
		}
		if total > math.MaxInt/n {
			total = math.MaxInt
			continue
		}
		total *= n
	}
	return total
}
