package main

import (
	"strings"
	"testing"

	"github.com/kingrea/harpist/internal/candidate"
	"github.com/kingrea/harpist/internal/config"
	"github.com/kingrea/harpist/internal/harp"
	"github.com/kingrea/harpist/internal/search"
	"github.com/kingrea/harpist/internal/solve"
)

func TestKeyValueFlag(t *testing.T) {
	kv := keyValueFlag{}
	if err := kv.Set("pedal_cost=800"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set("solver.mode=per-spelling"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := kv.String(); got != "pedal_cost=800, solver.mode=per-spelling" {
		t.Fatalf("unexpected string %q", got)
	}
	for _, bad := range []string{"pedal_cost", "=3"} {
		if err := kv.Set(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg, err := config.NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	sets := keyValueFlag{"pedal_cost": "800", "solver.max_paths": "2"}
	if err := applyOverrides(cfg, sets, "per-spelling", 3, -1); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Weights().PedalCost != 800 || cfg.Project.Solver.MaxPaths != 2 || cfg.Project.Solver.Workers != 3 {
		t.Fatalf("overrides not applied: %+v", cfg.Project)
	}
	if cfg.Mode() != solve.ModePerSpelling || cfg.Project.Output.Show != 3 {
		t.Fatalf("unexpected mode or show: %+v", cfg.Project)
	}
	if err := applyOverrides(cfg, nil, "greedy", -1, -1); err == nil {
		t.Fatalf("expected an unknown mode to fail")
	}
}

func TestRenderResult(t *testing.T) {
	n := harp.MustParseNote("C#")
	start := harp.Filled(harp.Natural)
	c := candidate.NewBuilder().
		SetDiagram(start).
		SetDestination(start.Update(harp.FromNotes(n))).
		SetSpelling([]harp.Harp{harp.FromNotes(n)}).
		SetPedals([]search.Step{{Left: []harp.Note{n}}, {}}).
		SetCost(1000).
		Build()
	r := solve.Result{Outcome: solve.Solved, Candidates: []candidate.Candidate{c, c}}
	out := renderResult(r, 1)
	for _, want := range []string{"2 candidate(s) at cost 1000", "#1 · 1 move(s)", "C♯ | -", "1 more with the same cost"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	bad := renderResult(solve.Result{Outcome: solve.NoSpelling, BadBeat: 2}, 3)
	if !strings.Contains(bad, "beat 3") {
		t.Fatalf("unexpected output %q", bad)
	}
	cut := renderResult(solve.Result{Outcome: solve.Exhausted, Candidates: []candidate.Candidate{c}}, 3)
	for _, want := range []string{"Search limit reached: 1 candidate(s) at cost 1000", "solver.max_expansions", "#1 · 1 move(s)"} {
		if !strings.Contains(cut, want) {
			t.Fatalf("truncated output missing %q:\n%s", want, cut)
		}
	}
	if empty := describe(solve.Result{Outcome: solve.Exhausted}); strings.Contains(empty, "Unplayable") || !strings.Contains(empty, "before any schedule") {
		t.Fatalf("a cut-off search must not read as unplayable: %q", empty)
	}
}
