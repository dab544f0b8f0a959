package harp

import (
	"fmt"
	"strings"
)

// Name is a note letter. Each name is controlled by exactly one pedal.
type Name uint8

const (
	A Name = iota
	B
	C
	D
	E
	F
	G
)

// Names lists every note name in alphabetical order.
var Names = [7]Name{A, B, C, D, E, F, G}

func (n Name) String() string {
	if n > G {
		return fmt.Sprintf("Name(%d)", uint8(n))
	}
	return string(rune('A' + n))
}

// Accidental is the position of a pedal. The zero value marks a pedal whose
// position is not known yet.
type Accidental uint8

const (
	Unset Accidental = iota
	Flat
	Natural
	Sharp
)

// Accidentals lists the three real pedal positions.
var Accidentals = [3]Accidental{Flat, Natural, Sharp}

func (a Accidental) String() string {
	switch a {
	case Flat:
		return "♭"
	case Natural:
		return "♮"
	case Sharp:
		return "♯"
	default:
		return ""
	}
}

// Symbol is the character used for this position in a pedal diagram.
func (a Accidental) Symbol() byte {
	switch a {
	case Flat:
		return '^'
	case Natural:
		return '-'
	case Sharp:
		return 'v'
	default:
		return '~'
	}
}

// Note is a spelled pitch: a letter name with an accidental.
type Note struct {
	Name       Name
	Accidental Accidental
}

func (n Note) String() string {
	return n.Name.String() + n.Accidental.String()
}

// ASCII renders the note with b, n and # so it survives plain-text consumers.
func (n Note) ASCII() string {
	switch n.Accidental {
	case Flat:
		return n.Name.String() + "b"
	case Sharp:
		return n.Name.String() + "#"
	default:
		return n.Name.String()
	}
}

// MarshalText encodes the note in its ASCII form.
func (n Note) MarshalText() ([]byte, error) {
	if n.Accidental == Unset {
		return nil, fmt.Errorf("harp: cannot encode %s without an accidental", n.Name)
	}
	if n.Accidental == Natural {
		return []byte(n.Name.String() + "n"), nil
	}
	return []byte(n.ASCII()), nil
}

// UnmarshalText decodes anything ParseNote accepts.
func (n *Note) UnmarshalText(text []byte) error {
	parsed, err := ParseNote(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Foot returns which foot operates the pedal for this note.
func (n Note) Foot() Foot {
	return FootOf(n.Name)
}

// ParseName reads a single note letter in either case.
func ParseName(r rune) (Name, bool) {
	switch r {
	case 'A', 'a':
		return A, true
	case 'B', 'b':
		return B, true
	case 'C', 'c':
		return C, true
	case 'D', 'd':
		return D, true
	case 'E', 'e':
		return E, true
	case 'F', 'f':
		return F, true
	case 'G', 'g':
		return G, true
	}
	return 0, false
}

// ParseAccidental reads one accidental marker.
func ParseAccidental(r rune) (Accidental, bool) {
	switch r {
	case 'b', 'f', '♭':
		return Flat, true
	case 'n', '♮':
		return Natural, true
	case 's', '#', '♯':
		return Sharp, true
	}
	return Unset, false
}

// ParseNote reads notes such as "Eb", "F#", "Gs", "Cn" or "C♭". A bare
// letter is natural.
func ParseNote(s string) (Note, error) {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) == 0 {
		return Note{}, fmt.Errorf("harp: empty note")
	}
	name, ok := ParseName(runes[0])
	if !ok {
		return Note{}, fmt.Errorf("harp: invalid note name %q", string(runes[0]))
	}
	note := Note{Name: name, Accidental: Natural}
	switch len(runes) {
	case 1:
	case 2:
		acc, ok := ParseAccidental(runes[1])
		if !ok {
			return Note{}, fmt.Errorf("harp: invalid accidental %q in %q", string(runes[1]), s)
		}
		note.Accidental = acc
	default:
		return Note{}, fmt.Errorf("harp: invalid note %q", s)
	}
	return note, nil
}

// MustParseNote is ParseNote for literals; it panics on malformed input.
func MustParseNote(s string) Note {
	n, err := ParseNote(s)
	if err != nil {
		panic(err)
	}
	return n
}
