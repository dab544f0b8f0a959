package solve

import (
	"fmt"
	"strings"

	"github.com/kingrea/harpist/internal/search"
)

// Logger is the subset of logging behaviour the solver needs.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Mode selects how spellings are searched.
type Mode string

const (
	// ModeJoint runs one search in which every beat may use any of its
	// spellings, split across workers by opening position.
	ModeJoint Mode = "joint"
	// ModePerSpelling runs one search per full spelling of the passage.
	ModePerSpelling Mode = "per-spelling"
)

// ParseMode accepts the names used in configuration and on the command line.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeJoint:
		return ModeJoint, nil
	case ModePerSpelling, "per_spelling", "spelling":
		return ModePerSpelling, nil
	}
	return "", fmt.Errorf("solve: unknown mode %q", s)
}

// DefaultMaxSpellings caps per-spelling runs.
const DefaultMaxSpellings = 4096

// Option customizes solver construction.
type Option func(*Solver)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkers sets how many searches run at once. Values below one keep the
// default of one per CPU.
func WithWorkers(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithMode chooses joint or per-spelling search.
func WithMode(m Mode) Option {
	return func(s *Solver) {
		if m != "" {
			s.mode = m
		}
	}
}

// WithMaxSpellings caps the spellings tried in per-spelling mode. Zero
// removes the cap.
func WithMaxSpellings(n int) Option {
	return func(s *Solver) {
		if n >= 0 {
			s.maxSpellings = n
		}
	}
}

// WithSearchOptions bounds every individual search.
func WithSearchOptions(o search.Options) Option {
	return func(s *Solver) {
		s.searchOpts = o
	}
}

// WithRunID overrides the run identifier generator.
func WithRunID(next func() string) Option {
	return func(s *Solver) {
		if next != nil {
			s.newID = next
		}
	}
}
