// Package candidate turns search paths into complete, immutable pedal
// schedules and orders them for presentation.
package candidate

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kingrea/harpist/internal/harp"
	"github.com/kingrea/harpist/internal/search"
)

// Candidate is one way to play the passage: the opening pedal diagram, the
// spelling chosen for every beat, the changes each foot makes, and the final
// position. Pedals has one entry per beat plus the settle into the
// destination.
type Candidate struct {
	diagram     harp.Harp
	destination harp.Harp
	spelling    []harp.Harp
	pedals      []search.Step
	cost        uint
}

func (c Candidate) Diagram() harp.Harp { return c.diagram }
func (c Candidate) Destination() harp.Harp { return c.destination }
func (c Candidate) Spelling() []harp.Harp { return slices.Clone(c.spelling) }
func (c Candidate) Pedals() []search.Step { return slices.Clone(c.pedals) }
func (c Candidate) Cost() uint { return c.cost }
func (c Candidate) Beats() int { return len(c.spelling) }
func (c Candidate) Step(beat int) search.Step { return c.pedals[beat] }

// Moves counts every pedal change in the schedule.
func (c Candidate) Moves() int {
	n := 0
	for _, s := range c.pedals {
		n += s.Len()
	}
	return n
}

// Changes renders each step, one string per beat plus the settle.
func (c Candidate) Changes() []string {
	out := make([]string, len(c.pedals))
	for i, s := range c.pedals {
		out[i] = s.String()
	}
	return out
}

func (c Candidate) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cost %d  %s -> %s\n", c.cost, c.diagram, c.destination)
	for i, s := range c.pedals {
		if i < len(c.spelling) {
			fmt.Fprintf(&b, "%3d  %s  %s\n", i+1, c.spelling[i], s)
			continue
		}
		fmt.Fprintf(&b, "end  %s  %s\n", c.destination, s)
	}
	return b.String()
}

// Builder collects the parts of a candidate. Every setter must be called
// before Build.
type Builder struct {
	diagram     *harp.Harp
	destination *harp.Harp
	spelling    []harp.Harp
	pedals      []search.Step
	cost        *uint
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) SetDiagram(h harp.Harp) *Builder {
	b.diagram = &h
	return b
}

func (b *Builder) SetDestination(h harp.Harp) *Builder {
	b.destination = &h
	return b
}

func (b *Builder) SetSpelling(s []harp.Harp) *Builder {
	b.spelling = slices.Clone(s)
	if b.spelling == nil {
		b.spelling = []harp.Harp{}
	}
	return b
}

func (b *Builder) SetPedals(p []search.Step) *Builder {
	b.pedals = slices.Clone(p)
	return b
}

func (b *Builder) SetCost(c uint) *Builder {
	b.cost = &c
	return b
}

// Build returns the candidate. It panics when a part is missing or the
// pedal steps do not line up with the spelling.
func (b *Builder) Build() Candidate {
	var missing []string
	if b.diagram == nil {
		missing = append(missing, "diagram")
	}
	if b.destination == nil {
		missing = append(missing, "destination")
	}
	if b.spelling == nil {
		missing = append(missing, "spelling")
	}
	if b.pedals == nil {
		missing = append(missing, "pedals")
	}
	if b.cost == nil {
		missing = append(missing, "cost")
	}
	if len(missing) > 0 {
		panic(fmt.Sprintf("candidate: missing %s", strings.Join(missing, ", ")))
	}
	if len(b.pedals) != len(b.spelling)+1 {
		panic(fmt.Sprintf("candidate: %d pedal steps for %d beats", len(b.pedals), len(b.spelling)))
	}
	return Candidate{
		diagram:     *b.diagram,
		destination: *b.destination,
		spelling:    b.spelling,
		pedals:      b.pedals,
		cost:        *b.cost,
	}
}

// Assemble builds the candidate a search path describes. Pedals the passage
// never touches are shown flat in the diagram.
func Assemble(p search.Problem, path search.Path) Candidate {
	diagram := harp.Filled(harp.Flat).Update(path.Start())
	layers := make([]harp.Harp, len(path.States))
	for i, s := range path.States {
		layers[i] = s.Pedals
	}
	destination := diagram.Fold(layers...)
	spelling := make([]harp.Harp, len(path.Choices))
	for i, choice := range path.Choices {
		spelling[i] = p.Targets[i][choice]
	}
	return NewBuilder().
		SetDiagram(diagram).
		SetDestination(destination).
		SetSpelling(spelling).
		SetPedals(path.Steps).
		SetCost(path.Cost).
		Build()
}

// AssembleAll builds a candidate for every path.
func AssembleAll(p search.Problem, paths []search.Path) []Candidate {
	out := make([]Candidate, len(paths))
	for i, path := range paths {
		out[i] = Assemble(p, path)
	}
	return out
}

// Compare orders candidates by cost, then by spelling diagrams, then by pedal
// steps, then by opening diagram.
func Compare(a, b Candidate) int {
	if c := cmp.Compare(a.cost, b.cost); c != 0 {
		return c
	}
	if c := slices.CompareFunc(a.spelling, b.spelling, compareHarp); c != 0 {
		return c
	}
	if c := slices.CompareFunc(a.pedals, b.pedals, compareStep); c != 0 {
		return c
	}
	return compareHarp(a.diagram, b.diagram)
}

// Rank sorts candidates in place, cheapest first.
func Rank(cands []Candidate) {
	slices.SortStableFunc(cands, Compare)
}

// Dedupe drops candidates identical to an earlier one. The input must be
// ranked.
func Dedupe(cands []Candidate) []Candidate {
	return slices.CompactFunc(cands, func(a, b Candidate) bool {
		return Compare(a, b) == 0 && a.destination == b.destination
	})
}

func compareHarp(a, b harp.Harp) int {
	return slices.Compare(a[:], b[:])
}

func compareStep(a, b search.Step) int {
	if c := slices.CompareFunc(a.Left, b.Left, compareNote); c != 0 {
		return c
	}
	if c := slices.CompareFunc(a.Right, b.Right, compareNote); c != 0 {
		return c
	}
	return slices.CompareFunc(a.Early[:], b.Early[:], func(x, y bool) int {
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	})
}

func compareNote(a, b harp.Note) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.Accidental, b.Accidental)
}

type record struct {
	Diagram     harp.Harp     `json:"diagram"`
	Destination harp.Harp     `json:"destination"`
	Spelling    []harp.Harp   `json:"spelling"`
	Pedals      []search.Step `json:"pedals"`
	Cost        uint          `json:"cost"`
}

func (c Candidate) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		Diagram:     c.diagram,
		Destination: c.destination,
		Spelling:    c.spelling,
		Pedals:      c.pedals,
		Cost:        c.cost,
	})
}

func (c *Candidate) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	if r.Spelling == nil {
		r.Spelling = []harp.Harp{}
	}
	if len(r.Pedals) != len(r.Spelling)+1 {
		return fmt.Errorf("candidate: %d pedal steps for %d beats", len(r.Pedals), len(r.Spelling))
	}
	*c = Candidate{
		diagram:     r.Diagram,
		destination: r.Destination,
		spelling:    r.Spelling,
		pedals:      r.Pedals,
		cost:        r.Cost,
	}
	return nil
}

// SaveJSON writes candidates to disk, creating the parent directory.
func SaveJSON(path string, cands []Candidate) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cands, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadJSON reads candidates written by SaveJSON.
func LoadJSON(path string) ([]Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cands []Candidate
	if err := json.Unmarshal(data, &cands); err != nil {
		return nil, fmt.Errorf("candidate: parse %s: %w", path, err)
	}
	return cands, nil
}
