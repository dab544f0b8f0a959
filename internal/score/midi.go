package score

import (
	"fmt"
	"io"
	"slices"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/kingrea/harpist/internal/harp"
)

// ReadMIDI imports a Standard MIDI File.
func ReadMIDI(path string) (*Score, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("score: read %s: %w", path, err)
	}
	return fromSMF(s)
}

// DecodeMIDI imports a Standard MIDI File from r. Notes that start on the
// same tick, in any track or channel, form one beat of freely spelled pitch
// classes. The whole file becomes a single measure.
func DecodeMIDI(r io.Reader) (*Score, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("score: decode midi: %w", err)
	}
	return fromSMF(s)
}

func fromSMF(s *smf.SMF) (*Score, error) {
	onsets := map[uint64][]harp.PitchClass{}
	for _, track := range s.Tracks {
		var tick uint64
		for _, ev := range track {
			tick += uint64(ev.Delta)
			var ch, key, vel uint8
			if midi.Message(ev.Message).GetNoteStart(&ch, &key, &vel) {
				onsets[tick] = append(onsets[tick], harp.PitchClassFromMIDI(key))
			}
		}
	}
	if len(onsets) == 0 {
		return nil, fmt.Errorf("score: midi file has no notes")
	}
	ticks := make([]uint64, 0, len(onsets))
	for t := range onsets {
		ticks = append(ticks, t)
	}
	slices.Sort(ticks)
	m := make(Measure, 0, len(ticks))
	for _, t := range ticks {
		pcs := onsets[t]
		slices.Sort(pcs)
		pcs = slices.Compact(pcs)
		b := make(Beat, len(pcs))
		for i, pc := range pcs {
			b[i] = Request{Kind: Free, Note: pc.Note()}
		}
		m = append(m, b)
	}
	return &Score{Measures: []Measure{m}}, nil
}
