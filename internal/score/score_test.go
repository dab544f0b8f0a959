package score

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/kingrea/harpist/internal/harp"
)

const sample = `$ opening position
^^^|^^^^   $ everything flat
[c e g] [*Eb r]
| [a c# e] [r] |
~~~|-~~~
`

func TestParseSample(t *testing.T) {
	s, err := Parse(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Start != harp.Filled(harp.Flat) {
		t.Fatalf("start = %s", s.Start)
	}
	if s.End != harp.MustParseDiagram("~~~|-~~~") {
		t.Fatalf("end = %s", s.End)
	}
	if len(s.Measures) != 2 || len(s.Measures[0]) != 2 || len(s.Measures[1]) != 2 {
		t.Fatalf("unexpected measures %v", s.Measures)
	}
	second := s.Measures[0][1]
	if len(second) != 2 || second[0].Kind != Fixed || second[0].Note != harp.MustParseNote("Eb") || second[1].Kind != Rest {
		t.Fatalf("second beat = %v", second)
	}
	if !s.Measures[1][1].Silent() {
		t.Fatalf("rest beat should be silent")
	}

	in := s.Input()
	if len(in.Beats) != 4 {
		t.Fatalf("expected 4 beats, got %d", len(in.Beats))
	}
	first := in.Beats[0]
	if len(first.Fixed) != 0 || len(first.Free) != 3 {
		t.Fatalf("first beat = %+v", first)
	}
	if first.Free[0] != harp.MustParseNote("C").PitchClass() {
		t.Fatalf("free pitch classes = %v", first.Free)
	}
	if len(in.Beats[1].Fixed) != 1 || len(in.Beats[1].Free) != 0 {
		t.Fatalf("fixed beat = %+v", in.Beats[1])
	}
	if !in.Beats[3].Rest() {
		t.Fatalf("rest beat should need nothing: %+v", in.Beats[3])
	}
}

func TestParseNotes(t *testing.T) {
	s, err := Parse("[bb fb f As C♯ d♮ *gn]")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"Bb", "Fb", "F", "A#", "C#", "D", "G"}
	beat := s.Measures[0][0]
	if len(beat) != len(want) {
		t.Fatalf("parsed %d notes, want %d", len(beat), len(want))
	}
	for i, w := range want {
		if beat[i].Note != harp.MustParseNote(w) {
			t.Fatalf("note %d = %s, want %s", i, beat[i].Note, w)
		}
	}
	if beat[6].Kind != Fixed {
		t.Fatalf("starred note should be fixed")
	}
	if !s.Start.Empty() || !s.End.Empty() {
		t.Fatalf("diagrams should be unset when absent")
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":             "",
		"only comment":      "$ nothing here",
		"unterminated":      "[c e",
		"bad note":          "[c x]",
		"short diagram":     "^^^|^^ [c]",
		"trailing garbage":  "[c] oops",
		"star without note": "[*]",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(text); !errors.Is(err, ErrSyntax) {
				t.Fatalf("expected a syntax error, got %v", err)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	s, err := Parse(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	path := filepath.Join(t.TempDir(), "copy.hrp")
	if err := WriteFile(path, s); err != nil {
		t.Fatalf("write: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v\n%s", err, s.Format())
	}
	if !reflect.DeepEqual(s, again) {
		t.Fatalf("round trip changed the score:\n%s\n%s", s.Format(), again.Format())
	}
}

func writeMIDI(t *testing.T) []byte {
	t.Helper()
	var lead, bass smf.Track
	lead.Add(0, midi.NoteOn(0, 60, 100))
	lead.Add(0, midi.NoteOn(0, 64, 100))
	lead.Add(480, midi.NoteOff(0, 60))
	lead.Add(0, midi.NoteOff(0, 64))
	lead.Add(0, midi.NoteOn(0, 67, 100))
	lead.Add(480, midi.NoteOff(0, 67))
	lead.Close(0)

	bass.Add(480, midi.NoteOn(1, 55, 90))
	bass.Add(480, midi.NoteOff(1, 55))
	bass.Add(0, midi.NoteOn(1, 70, 90))
	bass.Add(480, midi.NoteOff(1, 70))
	bass.Close(0)

	s := smf.New()
	if err := s.Add(lead); err != nil {
		t.Fatalf("add track: %v", err)
	}
	if err := s.Add(bass); err != nil {
		t.Fatalf("add track: %v", err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("write midi: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeMIDIGroupsOnsets(t *testing.T) {
	s, err := DecodeMIDI(bytes.NewReader(writeMIDI(t)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(s.Measures) != 1 {
		t.Fatalf("expected one measure, got %d", len(s.Measures))
	}
	beats := s.Measures[0]
	want := [][]string{{"C", "E"}, {"G"}, {"Bb"}}
	if len(beats) != len(want) {
		t.Fatalf("expected %d beats, got %d: %v", len(want), len(beats), beats)
	}
	for i, notes := range want {
		if len(beats[i]) != len(notes) {
			t.Fatalf("beat %d = %v, want %v", i, beats[i], notes)
		}
		for j, n := range notes {
			if beats[i][j].Note != harp.MustParseNote(n) || beats[i][j].Kind != Free {
				t.Fatalf("beat %d note %d = %v, want %s", i, j, beats[i][j], n)
			}
		}
	}
}

func TestReadMIDIFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tune.mid")
	if err := os.WriteFile(path, writeMIDI(t), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(s.Input().Beats); got != 3 {
		t.Fatalf("expected 3 beats, got %d", got)
	}
}
