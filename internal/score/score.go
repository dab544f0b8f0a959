// Package score reads passages for the solver: the bracketed .hrp text
// notation and Standard MIDI Files.
package score

import (
	"fmt"
	"os"
	"strings"

	"github.com/kingrea/harpist/internal/harp"
	"github.com/kingrea/harpist/internal/solve"
	"github.com/kingrea/harpist/internal/spelling"
)

// Kind says how a note request may be spelled.
type Kind uint8

const (
	// Free notes may be played with either enharmonic spelling.
	Free Kind = iota
	// Fixed notes must be played as written.
	Fixed
	// Rest requests nothing.
	Rest
)

// Request is one entry inside a beat.
type Request struct {
	Kind Kind
	Note harp.Note
}

func (r Request) String() string {
	switch r.Kind {
	case Rest:
		return "r"
	case Fixed:
		return "*" + r.Note.ASCII()
	}
	return r.Note.ASCII()
}

// Beat is everything written between one pair of brackets.
type Beat []Request

// Silent reports whether the beat sounds nothing.
func (b Beat) Silent() bool {
	for _, r := range b {
		if r.Kind != Rest {
			return false
		}
	}
	return true
}

// Spelling converts the beat to what the spelling enumerator needs.
func (b Beat) Spelling() spelling.Beat {
	var out spelling.Beat
	for _, r := range b {
		switch r.Kind {
		case Fixed:
			out.Fixed = append(out.Fixed, r.Note)
		case Free:
			out.Free = append(out.Free, r.Note.PitchClass())
		}
	}
	return out
}

// Measure is a bar of beats.
type Measure []Beat

// Score is a parsed passage. Start and End are left unset when the source
// does not give them.
type Score struct {
	Start    harp.Harp
	End      harp.Harp
	Measures []Measure
}

// Beats flattens the measures.
func (s *Score) Beats() []Beat {
	var out []Beat
	for _, m := range s.Measures {
		out = append(out, m...)
	}
	return out
}

// Input returns the passage in the form the solver takes.
func (s *Score) Input() solve.Input {
	beats := s.Beats()
	in := solve.Input{Start: s.Start, End: s.End, Beats: make([]spelling.Beat, len(beats))}
	for i, b := range beats {
		in.Beats[i] = b.Spelling()
	}
	return in
}

// Format writes the score back out in .hrp notation, one measure per line.
func (s *Score) Format() string {
	var b strings.Builder
	if !s.Start.Empty() {
		fmt.Fprintf(&b, "%s\n", s.Start)
	}
	for i, m := range s.Measures {
		if i > 0 {
			b.WriteString("| ")
		}
		for j, beat := range m {
			if j > 0 {
				b.WriteByte(' ')
			}
			parts := make([]string, len(beat))
			for k, r := range beat {
				parts[k] = r.String()
			}
			fmt.Fprintf(&b, "[%s]", strings.Join(parts, " "))
		}
		b.WriteByte('\n')
	}
	if !s.End.Empty() {
		fmt.Fprintf(&b, "%s\n", s.End)
	}
	return b.String()
}

// ReadFile parses an .hrp file.
func ReadFile(path string) (*Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("score: read %s: %w", path, err)
	}
	s, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Load reads a score, choosing the format from the file extension.
func Load(path string) (*Score, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".mid") || strings.HasSuffix(lower, ".midi") {
		return ReadMIDI(path)
	}
	return ReadFile(path)
}

// WriteFile saves the score in .hrp notation.
func WriteFile(path string, s *Score) error {
	if err := os.WriteFile(path, []byte(s.Format()), 0o644); err != nil {
		return fmt.Errorf("score: write %s: %w", path, err)
	}
	return nil
}
