package search

import (
	"strings"

	"github.com/kingrea/harpist/internal/cost"
	"github.com/kingrea/harpist/internal/harp"
)

// State is one node of the search graph: the pedals after Beat-1 beats have
// been played, what each foot remembers, and which pedals were moved early and
// are still waiting for the beat that needs them. State is comparable and is
// used directly as a map key.
type State struct {
	Pedals harp.Harp
	Left   cost.Memory
	Right  cost.Memory
	Beat   int
	Early  [harp.NumPedals]bool
}

// Memory returns the memory of one foot.
func (s State) Memory(f harp.Foot) cost.Memory {
	if f == harp.Left {
		return s.Left
	}
	return s.Right
}

// Step is the set of pedal changes made by each foot on one beat.
type Step struct {
	Left  []harp.Note `json:"left,omitempty"`
	Right []harp.Note `json:"right,omitempty"`
	// Early marks a foot whose change prepares a later beat.
	Early [2]bool `json:"early"`
}

// Foot returns the changes one foot made.
func (s Step) Foot(f harp.Foot) []harp.Note {
	if f == harp.Left {
		return s.Left
	}
	return s.Right
}

// Len counts the pedals that moved.
func (s Step) Len() int {
	return len(s.Left) + len(s.Right)
}

// Empty reports whether neither foot moved.
func (s Step) Empty() bool {
	return s.Len() == 0
}

// Notes returns every change, left foot first.
func (s Step) Notes() []harp.Note {
	out := make([]harp.Note, 0, s.Len())
	out = append(out, s.Left...)
	return append(out, s.Right...)
}

// String renders the step as "C♯ | A♭", with early changes in parentheses
// and "-" for a foot that did nothing.
func (s Step) String() string {
	parts := make([]string, 0, 2)
	for _, f := range harp.Feet {
		notes := s.Foot(f)
		if len(notes) == 0 {
			parts = append(parts, "-")
			continue
		}
		names := make([]string, len(notes))
		for i, n := range notes {
			names[i] = n.String()
		}
		text := strings.Join(names, " ")
		if s.Early[f] {
			text = "(" + text + ")"
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " | ")
}

// Path is one minimum-cost route through the search graph. States runs from
// the start state to the terminal state, Steps[i] moves States[i] to
// States[i+1], and Choices[i] is the index of the target option that was
// played on beat i.
type Path struct {
	States  []State
	Choices []int
	Steps   []Step
	Cost    uint
}

// Start returns the pedals the path begins with.
func (p Path) Start() harp.Harp {
	if len(p.States) == 0 {
		return harp.Harp{}
	}
	return p.States[0].Pedals
}

// Final returns the pedals at the end of the path.
func (p Path) Final() harp.Harp {
	if len(p.States) == 0 {
		return harp.Harp{}
	}
	return p.States[len(p.States)-1].Pedals
}
