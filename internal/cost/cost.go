package cost

import "github.com/kingrea/harpist/internal/harp"

// Heuristic is a lower bound on the cost of reaching target from pedals: one
// PedalCost for every set pedal that still has to move, plus the double and
// crossed string penalties target itself carries. It ignores early, quick and
// double-change charges, all of which only add cost.
func Heuristic(w Weights, pedals, target harp.Harp) uint {
	out := w.PedalCost * uint(pedals.DiffAll(target))
	out += w.DoubleStringCost * uint(target.NumSame())
	out += w.CrossStringCost * uint(target.NumCrossed())
	return out
}

// FootCost is the charge for one foot on one beat beyond the flat pedal cost:
// the early penalty, the quick-change surcharge for moving while the foot's
// memory is hot, and the double-change penalty when a relaxed search lets the
// foot move several pedals at once.
func FootCost(w Weights, mem Memory, moved []harp.Note, early bool) uint {
	if len(moved) == 0 {
		return 0
	}
	var out uint
	if early {
		out += w.EarlyChangeCost
	}
	if len(moved) > 1 {
		out += w.DoubleChangeCost * uint(len(moved)-1)
	}
	for _, n := range moved {
		out += mem.Surcharge(w, n)
	}
	return out
}

// Transition is the exact cost of one beat that moves from pedals to next,
// given what each foot remembers and which of its moves were early.
func Transition(w Weights, pedals, next harp.Harp, mem [2]Memory, early [2]bool) uint {
	out := Heuristic(w, pedals, next)
	for _, f := range harp.Feet {
		out += FootCost(w, mem[f], pedals.Changes(next, f), early[f])
	}
	return out
}
