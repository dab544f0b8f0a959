package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/harpist/internal/candidate"
	"github.com/kingrea/harpist/internal/harp"
	"github.com/kingrea/harpist/internal/logging"
	"github.com/kingrea/harpist/internal/search"
	"github.com/kingrea/harpist/internal/solve"
)

func TestBrowseAndOpenCandidate(t *testing.T) {
	app := newTestApp(t)
	app = send(t, app, tea.KeyMsg{Type: tea.KeyDown})
	item, ok := app.selected()
	if !ok || item.rank != 1 {
		t.Fatalf("expected second candidate selected, got %+v", item)
	}
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.state != stateDetail {
		t.Fatalf("enter should open the candidate")
	}
	view := app.View()
	for _, want := range []string{"Candidate #2", "Cost: 2000", "D♭ | -", "HARPIST · etude.hrp"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.state != stateList {
		t.Fatalf("esc should return to the list")
	}
	if _, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Fatalf("q on the list should quit")
	}
}

func TestExportSelectedCandidate(t *testing.T) {
	logger, err := logging.Open(filepath.Join(t.TempDir(), "harpist.log"))
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer logger.Close()

	var exported []int
	fail := false
	exporter := func(rank int, c candidate.Candidate) (string, error) {
		if fail {
			return "", errors.New("disk full")
		}
		exported = append(exported, rank)
		return "out/candidate.json", nil
	}
	app := newTestApp(t, WithExporter(exporter), WithLogger(logger))
	app = send(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if len(exported) != 1 || exported[0] != 0 {
		t.Fatalf("expected first candidate exported, got %v", exported)
	}
	if !strings.Contains(app.statusMsg, "out/candidate.json") {
		t.Fatalf("status should name the export: %q", app.statusMsg)
	}
	fail = true
	app = send(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if !strings.Contains(app.statusMsg, "disk full") {
		t.Fatalf("status should report the failure: %q", app.statusMsg)
	}
	if !strings.Contains(app.View(), "LOG · harpist.log") {
		t.Fatalf("log panel missing")
	}
}

func TestEmptyResult(t *testing.T) {
	app := NewApp("empty.hrp", solve.Result{Outcome: solve.Unplayable})
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.state != stateList {
		t.Fatalf("enter without candidates must stay on the list")
	}
	if view := app.View(); !strings.Contains(view, "No candidates (unplayable)") {
		t.Fatalf("unexpected view:\n%s", view)
	}
	app = send(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if app.statusMsg != "unplayable · strict search" {
		t.Fatalf("export without candidates should do nothing, got %q", app.statusMsg)
	}
}

func TestSummaryOfTruncatedSearch(t *testing.T) {
	if got := summary(solve.Result{Outcome: solve.Exhausted}); got != "search limit reached · strict search" {
		t.Fatalf("unexpected summary %q", got)
	}
	app := newTestApp(t)
	r := app.result
	r.Outcome = solve.Exhausted
	if got := summary(r); !strings.HasPrefix(got, "search limit reached · strict search · cost ") {
		t.Fatalf("a truncated result with candidates should still report its cost, got %q", got)
	}
}

func newTestApp(t *testing.T, opts ...AppOption) *App {
	t.Helper()
	start := harp.Filled(harp.Natural)
	cSharp := harp.MustParseNote("C#")
	dFlat := harp.MustParseNote("Db")
	build := func(n harp.Note, c uint) candidate.Candidate {
		return candidate.NewBuilder().
			SetDiagram(start).
			SetDestination(start.Update(harp.FromNotes(n))).
			SetSpelling([]harp.Harp{harp.FromNotes(n)}).
			SetPedals([]search.Step{{Left: []harp.Note{n}}, {}}).
			SetCost(c).
			Build()
	}
	result := solve.Result{
		RunID:      "run-1",
		Outcome:    solve.Solved,
		Candidates: []candidate.Candidate{build(cSharp, 1000), build(dFlat, 2000)},
	}
	app := NewApp("etude.hrp", result, opts...)
	return send(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func send(t *testing.T, app *App, msg tea.Msg) *App {
	t.Helper()
	model, _ := app.Update(msg)
	next, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	return next
}
