// Package search finds the cheapest sequences of pedal changes that play a
// passage. The passage is a list of beats, each with one or more acceptable
// pedal targets; the search returns every schedule that ties for the minimum
// cost under the cost model.
package search

import (
	"github.com/kingrea/harpist/internal/cost"
	"github.com/kingrea/harpist/internal/harp"
)

// Problem describes one search.
type Problem struct {
	// Start holds the pedals the player has committed to before the first
	// beat. Unset slots are free to choose.
	Start harp.Harp
	// End holds the pedals required after the last beat.
	End harp.Harp
	// Targets lists, for every beat, the spellings that may be played there.
	Targets [][]harp.Harp
	// Relaxed lets one foot change several pedals on the same beat.
	Relaxed bool
}

// Spelling returns a problem with exactly one target per beat.
func Spelling(start, end harp.Harp, spelling []harp.Harp, relaxed bool) Problem {
	targets := make([][]harp.Harp, len(spelling))
	for i, h := range spelling {
		targets[i] = []harp.Harp{h}
	}
	return Problem{Start: start, End: end, Targets: targets, Relaxed: relaxed}
}

// Beats returns the number of beats in the passage.
func (p *Problem) Beats() int {
	return len(p.Targets)
}

func (p *Problem) targets(beat int) []harp.Harp {
	switch {
	case beat < len(p.Targets):
		return p.Targets[beat]
	case beat == len(p.Targets):
		return []harp.Harp{p.End}
	}
	return nil
}

func (p *Problem) terminal(s State) bool {
	return s.Beat > len(p.Targets)
}

// Required returns the slots some beat or the end position needs set.
func (p *Problem) Required() harp.Harp {
	var out harp.Harp
	mark := func(h harp.Harp) {
		for i, a := range h {
			if a != harp.Unset {
				out[i] = harp.Natural
			}
		}
	}
	for _, options := range p.Targets {
		for _, h := range options {
			mark(h)
		}
	}
	mark(p.End)
	return out
}

// Starts lists the possible opening states. Every slot Start leaves unset but
// the passage needs is tried in all three positions; slots the passage never
// touches stay unset.
func (p *Problem) Starts() []State {
	required := p.Required()
	out := []harp.Harp{p.Start}
	for i := range p.Start {
		if p.Start[i] != harp.Unset || required[i] == harp.Unset {
			continue
		}
		grown := make([]harp.Harp, 0, len(out)*len(harp.Accidentals))
		for _, h := range out {
			for _, a := range harp.Accidentals {
				h[i] = a
				grown = append(grown, h)
			}
		}
		out = grown
	}
	states := make([]State, len(out))
	for i, h := range out {
		states[i] = State{Pedals: h}
	}
	return states
}

// Options bounds a search.
type Options struct {
	// MaxExpansions stops the search after this many state expansions. Zero
	// means unbounded.
	MaxExpansions int
	// MaxPaths caps how many tied paths are reconstructed. Zero means all.
	MaxPaths int
}

// Stats reports what a search did.
type Stats struct {
	Starts    int
	Expanded  int
	Reopened  int
	Truncated bool
}

// Search runs the problem from every opening state.
func Search(w cost.Weights, p Problem, opts Options) ([]Path, bool) {
	paths, _, ok := SearchFrom(w, p, p.Starts(), opts)
	return paths, ok
}

// SearchFrom runs the problem from the given opening states and returns every
// path whose cost equals the cheapest one found. The boolean is false when no
// state reaches the end.
func SearchFrom(w cost.Weights, p Problem, starts []State, opts Options) ([]Path, Stats, bool) {
	b := newBag(w, &p)
	stats := b.run(starts, opts.MaxExpansions)
	if !b.solved {
		return nil, stats, false
	}
	return b.paths(opts.MaxPaths), stats, true
}
