package cost

import "github.com/kingrea/harpist/internal/harp"

// Memory is what a foot remembers about its most recent pedal change: the
// note it moved to, the quick-change surcharge still owed if it moves again,
// and how many idle beats have passed. The zero value is an empty memory.
// Memory is comparable so search states can be used as map keys.
type Memory struct {
	Note harp.Note
	Cost uint
	Age  uint
	Set  bool
}

// Remember returns the memory of a foot that just moved to note.
func Remember(w Weights, note harp.Note) Memory {
	if w.QuickChangeCost == 0 {
		return Memory{}
	}
	return Memory{Note: note, Cost: w.QuickChangeCost, Set: true}
}

// Hot reports whether a move now would still pay a quick-change surcharge.
func (m Memory) Hot() bool {
	return m.Set && m.Cost > 0
}

// Advance ages the memory by one idle beat. The surcharge shrinks by
// QuickChangeDecay, never below zero, and the memory clears once the surcharge
// is gone or ForgetAfter beats have passed.
func (m Memory) Advance(w Weights) Memory {
	if !m.Set {
		return m
	}
	m.Cost = saturatingSub(m.Cost, w.QuickChangeDecay)
	m.Age++
	if m.Cost == 0 || (w.ForgetAfter > 0 && m.Age >= w.ForgetAfter) {
		return Memory{}
	}
	return m
}

// Next returns the memory after a beat on which the foot moved the given
// pedals, or stayed idle when moved is empty.
func (m Memory) Next(w Weights, moved []harp.Note) Memory {
	if len(moved) == 0 {
		return m.Advance(w)
	}
	return Remember(w, moved[len(moved)-1])
}

// Surcharge is the quick-change penalty for moving to next while the memory
// is hot, scaled by how far the foot travels between pedals.
func (m Memory) Surcharge(w Weights, next harp.Note) uint {
	if !m.Hot() || m.Note == next {
		return 0
	}
	return m.Cost * (1 + w.PedalDistanceCost*Distance(m.Note.Name, next.Name))
}

// Distance is the number of pedals between two names in mechanical order.
func Distance(a, b harp.Name) uint {
	i, j := harp.Slot(a), harp.Slot(b)
	if i > j {
		return uint(i - j)
	}
	return uint(j - i)
}

func saturatingSub(a, b uint) uint {
	if b >= a {
		return 0
	}
	return a - b
}
