package harp

import "fmt"

// PitchClass is a pitch modulo the octave. 0 is A♭, 1 is A, and so on up to
// 11 for G.
type PitchClass uint8

func nameOffset(n Name) uint8 {
	switch n {
	case A:
		return 0
	case B:
		return 2
	case C:
		return 3
	case D:
		return 5
	case E:
		return 7
	case F:
		return 8
	case G:
		return 10
	}
	panic(fmt.Sprintf("harp: invalid name %d", uint8(n)))
}

func accidentalOffset(a Accidental) uint8 {
	switch a {
	case Flat:
		return 0
	case Natural:
		return 1
	case Sharp:
		return 2
	}
	panic("harp: note has no accidental")
}

// PitchClass returns the sounding pitch class of the note.
func (n Note) PitchClass() PitchClass {
	return PitchClass((nameOffset(n.Name) + accidentalOffset(n.Accidental)) % 12)
}

var spellings = [12][]Note{
	{{G, Sharp}, {A, Flat}},
	{{A, Natural}},
	{{A, Sharp}, {B, Flat}},
	{{C, Flat}, {B, Natural}},
	{{B, Sharp}, {C, Natural}},
	{{C, Sharp}, {D, Flat}},
	{{D, Natural}},
	{{D, Sharp}, {E, Flat}},
	{{F, Flat}, {E, Natural}},
	{{E, Sharp}, {F, Natural}},
	{{F, Sharp}, {G, Flat}},
	{{G, Natural}},
}

// Notes returns every spelling of the pitch class a harp can play. Pitch
// classes 1, 6 and 11 have one spelling, the rest have two.
func (pc PitchClass) Notes() []Note {
	src := spellings[pc%12]
	out := make([]Note, len(src))
	copy(out, src)
	return out
}

// Note returns the preferred spelling: natural when possible, flat otherwise.
func (pc PitchClass) Note() Note {
	src := spellings[pc%12]
	return src[len(src)-1]
}

// Unique reports whether the pitch class has only one spelling.
func (pc PitchClass) Unique() bool {
	return len(spellings[pc%12]) == 1
}

func (pc PitchClass) String() string {
	return pc.Note().String()
}

// PitchClassFromMIDI converts a MIDI key number to a pitch class.
func PitchClassFromMIDI(key uint8) PitchClass {
	return PitchClass((uint16(key) + 4) % 12)
}
