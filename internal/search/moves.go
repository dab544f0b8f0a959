package search

import (
	"github.com/kingrea/harpist/internal/cost"
	"github.com/kingrea/harpist/internal/harp"
)

// move is what one foot does on one beat.
type move struct {
	notes []harp.Note
	// early is the slot moved ahead of time, or -1.
	early int
}

// edge is one successor of a state.
type edge struct {
	to     State
	choice int
	step   Step
	cost   uint
}

// footMoves lists what foot f may do to play target from s. A single forced
// change is the only option. Several forced changes are a dead end unless the
// problem is relaxed, in which case they all happen together. With nothing
// forced the foot may rest, or, when allowEarly is set, move a pedal the
// target does not care about to either other position.
func footMoves(s State, target harp.Harp, f harp.Foot, relaxed, allowEarly bool) []move {
	forced := s.Pedals.Changes(target, f)
	switch {
	case len(forced) == 1:
		return []move{{notes: forced, early: -1}}
	case len(forced) > 1:
		if !relaxed {
			return nil
		}
		return []move{{notes: forced, early: -1}}
	}
	out := []move{{early: -1}}
	if !allowEarly {
		return out
	}
	lo, hi := f.Slots()
	for i := lo; i < hi; i++ {
		if s.Pedals[i] == harp.Unset || target[i] != harp.Unset || s.Early[i] {
			continue
		}
		for _, a := range harp.Accidentals {
			if a == s.Pedals[i] {
				continue
			}
			n := harp.Note{Name: harp.SlotName(i), Accidental: a}
			out = append(out, move{notes: []harp.Note{n}, early: i})
		}
	}
	return out
}

// apply plays target from s with the given foot moves.
func apply(w cost.Weights, s State, target harp.Harp, left, right move) (State, uint) {
	next := s.Pedals
	early := s.Early
	for i, a := range target {
		if a == harp.Unset {
			continue
		}
		next[i] = a
		early[i] = false
	}
	for _, m := range [2]move{left, right} {
		if m.early >= 0 {
			next.Set(m.notes[0])
			early[m.early] = true
		}
	}
	c := cost.Transition(w, s.Pedals, next,
		[2]cost.Memory{s.Left, s.Right},
		[2]bool{left.early >= 0, right.early >= 0})
	return State{
		Pedals: next,
		Left:   s.Left.Next(w, left.notes),
		Right:  s.Right.Next(w, right.notes),
		Beat:   s.Beat + 1,
		Early:  early,
	}, c
}

// successors expands s over every target option for its beat.
func (p *Problem) successors(w cost.Weights, s State) []edge {
	targets := p.targets(s.Beat)
	// Nothing follows the final settle, so an early move there is wasted.
	allowEarly := s.Beat < len(p.Targets)
	var out []edge
	for choice, target := range targets {
		left := footMoves(s, target, harp.Left, p.Relaxed, allowEarly)
		if len(left) == 0 {
			continue
		}
		right := footMoves(s, target, harp.Right, p.Relaxed, allowEarly)
		for _, l := range left {
			for _, r := range right {
				to, c := apply(w, s, target, l, r)
				out = append(out, edge{
					to:     to,
					choice: choice,
					step:   Step{Left: l.notes, Right: r.notes, Early: [2]bool{l.early >= 0, r.early >= 0}},
					cost:   c,
				})
			}
		}
	}
	return out
}

// heuristic is the cheapest single-beat lower bound over the options for the
// state's next beat, and zero once the state is terminal.
func (p *Problem) heuristic(w cost.Weights, s State) uint {
	targets := p.targets(s.Beat)
	if len(targets) == 0 {
		return 0
	}
	best := cost.Heuristic(w, s.Pedals, targets[0])
	for _, t := range targets[1:] {
		if h := cost.Heuristic(w, s.Pedals, t); h < best {
			best = h
		}
	}
	return best
}
