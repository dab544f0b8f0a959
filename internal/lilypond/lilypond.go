// Package lilypond engraves a solved passage: the spelled chords on a treble
// staff with pedal diagrams and the change for each foot written under the
// beat where it happens.
package lilypond

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kingrea/harpist/internal/candidate"
	"github.com/kingrea/harpist/internal/harp"
	"github.com/kingrea/harpist/internal/score"
	"github.com/kingrea/harpist/internal/search"
)

// Version is the LilyPond language version written at the top of documents.
const Version = "2.22.0"

// Options adjusts the document.
type Options struct {
	Title string
}

// letter order inside a chord, lowest first.
var chordOrder = [7]harp.Name{harp.C, harp.D, harp.E, harp.F, harp.G, harp.A, harp.B}

// Render writes the candidate for s as a LilyPond document.
func Render(s *score.Score, c candidate.Candidate, opts Options) (string, error) {
	beats := s.Beats()
	if len(beats) != c.Beats() {
		return "", fmt.Errorf("lilypond: score has %d beats, candidate has %d", len(beats), c.Beats())
	}
	spelling := c.Spelling()

	var music, marks strings.Builder
	meter := 0
	i := 0
	for _, m := range s.Measures {
		if len(m) != meter {
			meter = len(m)
			fmt.Fprintf(&music, "  \\time %d/4\n", meter)
		}
		music.WriteString(" ")
		marks.WriteString(" ")
		for range m {
			fmt.Fprintf(&music, " %s", chord(spelling[i]))
			marks.WriteString(" s4")
			if i == 0 {
				fmt.Fprintf(&marks, "^\\markup \\harp-pedal #%q", c.Diagram().String())
			}
			marks.WriteString(stepMarkup(c.Step(i)))
			i++
		}
		music.WriteString(" |\n")
		marks.WriteString("\n")
	}
	settle := c.Step(c.Beats())
	if !settle.Empty() {
		music.WriteString("  \\time 1/4\n  s4\n")
		marks.WriteString("  s4" + stepMarkup(settle))
	} else {
		marks.WriteString("  s4*0")
	}
	fmt.Fprintf(&marks, "^\\markup \\harp-pedal #%q\n", c.Destination().String())
	music.WriteString("  \\bar \"|.\"\n")

	var b strings.Builder
	fmt.Fprintf(&b, "\\version %q\n", Version)
	b.WriteString("\\language \"english\"\n\n")
	if opts.Title != "" {
		fmt.Fprintf(&b, "\\header {\n  title = %q\n  tagline = ##f\n}\n\n", opts.Title)
	}
	fmt.Fprintf(&b, "music = {\n%s}\n\n", music.String())
	fmt.Fprintf(&b, "pedals = {\n%s}\n\n", marks.String())
	b.WriteString("\\score {\n  <<\n    \\new Staff { \\clef treble \\music }\n    \\new Dynamics \\pedals\n  >>\n  \\layout { }\n}\n")
	return b.String(), nil
}

// chord writes one beat as a quarter-note chord, or a rest when silent.
func chord(h harp.Harp) string {
	notes := h.Notes()
	if len(notes) == 0 {
		return "r4"
	}
	slices.SortFunc(notes, func(a, b harp.Note) int {
		return slices.Index(chordOrder[:], a.Name) - slices.Index(chordOrder[:], b.Name)
	})
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = pitch(n) + "'"
	}
	if len(parts) == 1 {
		return parts[0] + "4"
	}
	return "<" + strings.Join(parts, " ") + ">4"
}

// pitch is the note name in LilyPond's English note names.
func pitch(n harp.Note) string {
	name := strings.ToLower(n.Name.String())
	switch n.Accidental {
	case harp.Flat:
		return name + "f"
	case harp.Sharp:
		return name + "s"
	}
	return name
}

// stepMarkup writes right-foot changes above and left-foot changes below,
// bracketing early ones.
func stepMarkup(s search.Step) string {
	var b strings.Builder
	if m := footMarkup(s.Right, s.Early[harp.Right]); m != "" {
		b.WriteString("^" + m)
	}
	if m := footMarkup(s.Left, s.Early[harp.Left]); m != "" {
		b.WriteString("_" + m)
	}
	return b.String()
}

func footMarkup(notes []harp.Note, early bool) string {
	if len(notes) == 0 {
		return ""
	}
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = fmt.Sprintf("\\concat { %s \\%s }", n.Name, accidentalMarkup(n.Accidental))
	}
	body := strings.Join(parts, " ")
	if early {
		body = "( " + body + " )"
	}
	return "\\markup \\line { " + body + " }"
}

func accidentalMarkup(a harp.Accidental) string {
	switch a {
	case harp.Flat:
		return "flat"
	case harp.Sharp:
		return "sharp"
	}
	return "natural"
}

// WriteFile renders the document to path, creating the parent directory.
func WriteFile(path string, s *score.Score, c candidate.Candidate, opts Options) error {
	doc, err := Render(s, c, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("lilypond: ensure dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("lilypond: write %s: %w", path, err)
	}
	return nil
}

// Compile runs the lilypond binary on a document, writing the PDF next to it.
func Compile(ctx context.Context, binary, path string) error {
	if binary == "" {
		binary = "lilypond"
	}
	dir := filepath.Dir(path)
	out := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	cmd := exec.CommandContext(ctx, binary, "--pdf", "-o", out, filepath.Base(path))
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("lilypond: %s: %w\n%s", binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}
