// Package harp models the seven pedals of a concert harp: which note names
// they control, which foot operates them, and how pedal settings combine.
package harp

import (
	"fmt"
	"strings"
)

// NumPedals is the number of pedals on the instrument.
const NumPedals = 7

// Harp holds one accidental per pedal, indexed in mechanical order
// D C B | E F G A. Unset slots are pedals whose position is not determined.
type Harp [NumPedals]Accidental

var slotNames = [NumPedals]Name{D, C, B, E, F, G, A}

// Slot returns the mechanical index of the pedal for a note name.
func Slot(n Name) int {
	switch n {
	case D:
		return 0
	case C:
		return 1
	case B:
		return 2
	case E:
		return 3
	case F:
		return 4
	case G:
		return 5
	case A:
		return 6
	}
	panic(fmt.Sprintf("harp: invalid name %d", uint8(n)))
}

// SlotName returns the note name controlled by pedal i.
func SlotName(i int) Name {
	if i < 0 || i >= NumPedals {
		panic(fmt.Sprintf("harp: invalid pedal index %d", i))
	}
	return slotNames[i]
}

// Foot is one of the harpist's two feet.
type Foot uint8

const (
	Left Foot = iota
	Right
)

// Feet lists both feet, left first.
var Feet = [2]Foot{Left, Right}

// Slots returns the half-open slot range the foot operates.
func (f Foot) Slots() (lo, hi int) {
	if f == Left {
		return 0, 3
	}
	return 3, NumPedals
}

func (f Foot) String() string {
	if f == Left {
		return "left"
	}
	return "right"
}

// FootOf returns the foot that operates the pedal for a name.
func FootOf(n Name) Foot {
	if Slot(n) < 3 {
		return Left
	}
	return Right
}

// FromNotes builds a harp with the given notes set and everything else unset.
func FromNotes(notes ...Note) Harp {
	var h Harp
	for _, n := range notes {
		h.Set(n)
	}
	return h
}

// Filled returns a harp with every pedal in the same position.
func Filled(a Accidental) Harp {
	var h Harp
	for i := range h {
		h[i] = a
	}
	return h
}

// Set moves the pedal for the note's name to the note's accidental.
func (h *Harp) Set(n Note) {
	if n.Accidental == Unset {
		panic(fmt.Sprintf("harp: cannot set %s to an unset accidental", n.Name))
	}
	h[Slot(n.Name)] = n.Accidental
}

// Get returns the position of the pedal for a name.
func (h Harp) Get(n Name) Accidental {
	return h[Slot(n)]
}

// Note returns the note pedal i currently plays, or false if it is unset.
func (h Harp) Note(i int) (Note, bool) {
	name := SlotName(i)
	if h[i] == Unset {
		return Note{}, false
	}
	return Note{Name: name, Accidental: h[i]}, true
}

// Update layers overlay on top of h: set slots of overlay win.
func (h Harp) Update(overlay Harp) Harp {
	out := h
	for i, a := range overlay {
		if a != Unset {
			out[i] = a
		}
	}
	return out
}

// Fold applies every overlay to h in order.
func (h Harp) Fold(overlays ...Harp) Harp {
	out := h
	for _, o := range overlays {
		out = out.Update(o)
	}
	return out
}

// Resolve fills every unset slot with a.
func (h Harp) Resolve(a Accidental) Harp {
	return Filled(a).Update(h)
}

// Complete reports whether every pedal is set.
func (h Harp) Complete() bool {
	for _, a := range h {
		if a == Unset {
			return false
		}
	}
	return true
}

// Empty reports whether no pedal is set.
func (h Harp) Empty() bool {
	return h == Harp{}
}

// Diff counts the foot's slots where both harps are set and disagree.
func (h Harp) Diff(other Harp, f Foot) int {
	lo, hi := f.Slots()
	n := 0
	for i := lo; i < hi; i++ {
		if h[i] != Unset && other[i] != Unset && h[i] != other[i] {
			n++
		}
	}
	return n
}

// DiffAll counts disagreeing set slots on both feet.
func (h Harp) DiffAll(other Harp) int {
	return h.Diff(other, Left) + h.Diff(other, Right)
}

// Changes returns the notes of other that differ from h on the foot's slots,
// counting only slots set in both.
func (h Harp) Changes(other Harp, f Foot) []Note {
	lo, hi := f.Slots()
	var out []Note
	for i := lo; i < hi; i++ {
		if h[i] != Unset && other[i] != Unset && h[i] != other[i] {
			out = append(out, Note{Name: SlotName(i), Accidental: other[i]})
		}
	}
	return out
}

// Notes returns every set pedal as a note, in mechanical order.
func (h Harp) Notes() []Note {
	out := make([]Note, 0, NumPedals)
	for i := range h {
		if n, ok := h.Note(i); ok {
			out = append(out, n)
		}
	}
	return out
}

// NumSame counts double strings: resolved pitches that share a pitch class
// with another resolved pitch.
func (h Harp) NumSame() int {
	var seen [12]bool
	total, distinct := 0, 0
	for _, n := range h.Notes() {
		total++
		pc := n.PitchClass()
		if !seen[pc] {
			seen[pc] = true
			distinct++
		}
	}
	return total - distinct
}

// NumCrossed counts the two awkward neighbouring settings: C♭ with B♯, and
// E♯ with F♭.
func (h Harp) NumCrossed() int {
	n := 0
	if h[1] == Flat && h[2] == Sharp {
		n++
	}
	if h[3] == Sharp && h[4] == Flat {
		n++
	}
	return n
}

// String renders the pedal diagram, e.g. "^-v|~^^^".
func (h Harp) String() string {
	var b strings.Builder
	for i, a := range h {
		if i == 3 {
			b.WriteByte('|')
		}
		b.WriteByte(a.Symbol())
	}
	return b.String()
}

// ParseDiagram reads a diagram written as three symbols, a bar, and four
// symbols: ^ flat, - natural, v sharp, ~ unset.
func ParseDiagram(s string) (Harp, error) {
	var h Harp
	trimmed := strings.TrimSpace(s)
	if len(trimmed) != NumPedals+1 || trimmed[3] != '|' {
		return h, fmt.Errorf("harp: diagram %q must look like ^^^|^^^^", s)
	}
	slot := 0
	for i := 0; i < len(trimmed); i++ {
		if i == 3 {
			continue
		}
		a, ok := symbolAccidental(trimmed[i])
		if !ok {
			return h, fmt.Errorf("harp: invalid pedal symbol %q in %q", trimmed[i], s)
		}
		h[slot] = a
		slot++
	}
	return h, nil
}

// MarshalText encodes the harp as its diagram.
func (h Harp) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes a diagram.
func (h *Harp) UnmarshalText(text []byte) error {
	parsed, err := ParseDiagram(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// MustParseDiagram is ParseDiagram for literals.
func MustParseDiagram(s string) Harp {
	h, err := ParseDiagram(s)
	if err != nil {
		panic(err)
	}
	return h
}

func symbolAccidental(c byte) (Accidental, bool) {
	switch c {
	case '^':
		return Flat, true
	case '-':
		return Natural, true
	case 'v':
		return Sharp, true
	case '~':
		return Unset, true
	}
	return Unset, false
}
