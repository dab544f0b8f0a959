// Package solve drives a complete run: it spells every beat, searches for the
// cheapest pedal schedules, and assembles ranked candidates. Work is spread
// over a bounded pool of goroutines; each search owns its own state and only
// the merge of results is shared.
package solve

import (
	"context"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kingrea/harpist/internal/candidate"
	"github.com/kingrea/harpist/internal/cost"
	"github.com/kingrea/harpist/internal/harp"
	"github.com/kingrea/harpist/internal/search"
	"github.com/kingrea/harpist/internal/spelling"
)

// Input is a passage to solve.
type Input struct {
	Start harp.Harp       `json:"start"`
	End   harp.Harp       `json:"end"`
	Beats []spelling.Beat `json:"beats"`
}

// Outcome classifies a run.
type Outcome int

const (
	// Solved means at least one candidate was found.
	Solved Outcome = iota
	// NoSpelling means some beat cannot be spelled on a harp at all.
	NoSpelling
	// Unplayable means every beat can be spelled but no schedule connects them.
	Unplayable
	// Exhausted means a search hit its expansion limit. Any candidates are
	// the cheapest found before the cut-off and may miss ties or cheaper
	// spellings; with none, playability is unknown.
	Exhausted
)

func (o Outcome) String() string {
	switch o {
	case Solved:
		return "solved"
	case NoSpelling:
		return "no spelling"
	case Unplayable:
		return "unplayable"
	case Exhausted:
		return "search limit reached"
	}
	return "unknown"
}

// Result is what a run produced.
type Result struct {
	RunID      string
	Outcome    Outcome
	Candidates []candidate.Candidate
	Relaxed    bool
	// BadBeat is the first beat without a spelling when Outcome is NoSpelling.
	BadBeat int
	// Searches counts the individual searches that ran.
	Searches int
	Stats    search.Stats
}

// Cost returns the cost shared by every candidate, or zero when none exist.
func (r Result) Cost() uint {
	if len(r.Candidates) == 0 {
		return 0
	}
	return r.Candidates[0].Cost()
}

// Solver runs searches with a fixed cost model.
type Solver struct {
	weights      cost.Weights
	logger       Logger
	workers      int
	mode         Mode
	maxSpellings int
	searchOpts   search.Options
	newID        func() string
}

// New constructs a solver.
func New(w cost.Weights, opts ...Option) *Solver {
	s := &Solver{
		weights:      w,
		logger:       nopLogger{},
		workers:      runtime.NumCPU(),
		mode:         ModeJoint,
		maxSpellings: DefaultMaxSpellings,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve finds the cheapest schedules in which each foot changes at most one
// pedal per beat.
func (s *Solver) Solve(ctx context.Context, in Input) (Result, error) {
	return s.run(ctx, in, false)
}

// SolveRelaxed lets a foot change several pedals on one beat, at a cost.
func (s *Solver) SolveRelaxed(ctx context.Context, in Input) (Result, error) {
	return s.run(ctx, in, true)
}

// SolveWithFallback solves strictly and retries relaxed when the strict
// search proves no schedule exists. A search cut off by its expansion limit
// proves nothing and is returned as is.
func (s *Solver) SolveWithFallback(ctx context.Context, in Input) (Result, error) {
	res, err := s.Solve(ctx, in)
	if err != nil || res.Outcome != Unplayable {
		return res, err
	}
	s.logger.Printf("solve %s: no strict schedule, retrying relaxed", res.RunID)
	return s.SolveRelaxed(ctx, in)
}

func (s *Solver) run(ctx context.Context, in Input, relaxed bool) (Result, error) {
	res := Result{RunID: s.newID(), Relaxed: relaxed, BadBeat: -1}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	chords, bad := spelling.Chords(in.Beats)
	if bad >= 0 {
		s.logger.Printf("solve %s: beat %d has no spelling", res.RunID, bad+1)
		res.Outcome = NoSpelling
		res.BadBeat = bad
		return res, nil
	}
	s.logger.Printf("solve %s: %d beats, mode %s, relaxed %t", res.RunID, len(in.Beats), s.mode, relaxed)
	if !in.Start.Complete() {
		s.logger.Printf("solve %s: start %s leaves pedals free", res.RunID, in.Start)
	}
	if s.mode == ModePerSpelling {
		s.logger.Printf("solve %s: %d spelling(s), limit %d", res.RunID, spelling.Count(in.Beats), s.maxSpellings)
	}

	m := &merger{}
	var err error
	switch s.mode {
	case ModePerSpelling:
		err = s.perSpelling(ctx, in, relaxed, m)
	default:
		err = s.joint(ctx, in, chords, relaxed, m)
	}
	if err != nil {
		return res, err
	}

	res.Searches = m.searches
	res.Stats = m.stats
	res.Outcome = m.outcome()
	switch res.Outcome {
	case Unplayable:
		s.logger.Printf("solve %s: unplayable after %d searches", res.RunID, m.searches)
		return res, nil
	case Exhausted:
		s.logger.Printf("solve %s: expansion limit %d reached after %d searches", res.RunID, s.searchOpts.MaxExpansions, m.searches)
		if !m.found {
			return res, nil
		}
	}
	candidate.Rank(m.cands)
	cands := candidate.Dedupe(m.cands)
	if limit := s.searchOpts.MaxPaths; limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	res.Candidates = cands
	s.logger.Printf("solve %s: %d candidates at cost %d", res.RunID, len(cands), m.best)
	return res, nil
}

// joint splits the opening positions of a single multi-target problem across
// the workers.
func (s *Solver) joint(ctx context.Context, in Input, chords [][]harp.Harp, relaxed bool, m *merger) error {
	p := search.Problem{Start: in.Start, End: in.End, Targets: chords, Relaxed: relaxed}
	starts := p.Starts()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, chunk := range partition(starts, s.workers) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			paths, stats, ok := search.SearchFrom(s.weights, p, chunk, s.searchOpts)
			m.add(p, paths, stats, ok)
			return nil
		})
	}
	return g.Wait()
}

// perSpelling runs one search per full spelling.
func (s *Solver) perSpelling(ctx context.Context, in Input, relaxed bool, m *merger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	n := 0
	for sp := range spelling.Enumerate(in.Beats) {
		if s.maxSpellings > 0 && n >= s.maxSpellings {
			s.logger.Printf("solve: stopped after %d spellings", n)
			break
		}
		if gctx.Err() != nil {
			break
		}
		n++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := search.Spelling(in.Start, in.End, sp, relaxed)
			paths, stats, ok := search.SearchFrom(s.weights, p, p.Starts(), s.searchOpts)
			m.add(p, paths, stats, ok)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// partition splits starts into at most n contiguous chunks of near-equal size.
func partition(starts []search.State, n int) [][]search.State {
	if n < 1 {
		n = 1
	}
	if n > len(starts) {
		n = len(starts)
	}
	out := make([][]search.State, 0, n)
	for i := 0; i < n; i++ {
		lo := i * len(starts) / n
		hi := (i + 1) * len(starts) / n
		out = append(out, starts[lo:hi])
	}
	return out
}

// merger keeps the cheapest candidates seen across searches.
type merger struct {
	mu       sync.Mutex
	found    bool
	best     uint
	cands    []candidate.Candidate
	searches int
	stats    search.Stats
}

// outcome classifies the merged searches. A truncated search outranks a
// found schedule because the rest of the bag was never explored.
func (m *merger) outcome() Outcome {
	switch {
	case m.stats.Truncated:
		return Exhausted
	case m.found:
		return Solved
	}
	return Unplayable
}

func (m *merger) add(p search.Problem, paths []search.Path, stats search.Stats, ok bool) {
	var cands []candidate.Candidate
	if ok && len(paths) > 0 {
		cands = candidate.AssembleAll(p, paths)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++
	m.stats.Starts += stats.Starts
	m.stats.Expanded += stats.Expanded
	m.stats.Reopened += stats.Reopened
	m.stats.Truncated = m.stats.Truncated || stats.Truncated
	if len(cands) == 0 {
		return
	}
	c := paths[0].Cost
	switch {
	case !m.found || c < m.best:
		m.found = true
		m.best = c
		m.cands = cands
	case c == m.best:
		m.cands = append(m.cands, cands...)
	}
}
