// internal/tui/app.go
//
// Interactive browser for the candidates of a solve run.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the ranked candidates and which one is open
// 2. Update: key presses move through the list or open a candidate
// 3. View: a list pane, a detail pane, and the tail of the log
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/harpist/internal/candidate"
	"github.com/kingrea/harpist/internal/logging"
	"github.com/kingrea/harpist/internal/solve"
)

// appState represents which "screen" we're on
type appState int

const (
	stateList   appState = iota // Ranked candidates
	stateDetail                 // One candidate, beat by beat
)

// Exporter writes a candidate somewhere and returns where it went.
// rank is zero-based.
type Exporter func(rank int, c candidate.Candidate) (string, error)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogger shows the tail of the log below the panes.
func WithLogger(l *logging.Logger) AppOption {
	return func(a *App) {
		a.logger = l
	}
}

// WithExporter enables the export key.
func WithExporter(e Exporter) AppOption {
	return func(a *App) {
		if e != nil {
			a.exporter = e
		}
	}
}

// App is the browser model.
type App struct {
	state    appState
	title    string
	result   solve.Result
	logger   *logging.Logger
	exporter Exporter

	candidates list.Model
	statusMsg  string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// candidateItem implements list.Item for one ranked candidate.
type candidateItem struct {
	rank int
	c    candidate.Candidate
}

func (i candidateItem) Title() string {
	return fmt.Sprintf("#%d · cost %d · %d move(s)", i.rank+1, i.c.Cost(), i.c.Moves())
}

func (i candidateItem) Description() string {
	return fmt.Sprintf("%s → %s", i.c.Diagram(), i.c.Destination())
}

func (i candidateItem) FilterValue() string { return i.c.Diagram().String() }

// NewApp creates a browser over result. title is usually the score's file name.
func NewApp(title string, result solve.Result, opts ...AppOption) *App {
	items := make([]list.Item, len(result.Candidates))
	for i, c := range result.Candidates {
		items[i] = candidateItem{rank: i, c: c}
	}
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = fmt.Sprintf("%d candidate(s)", len(items))
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	app := &App{
		state:      stateList,
		title:      title,
		result:     result,
		candidates: menu,
		statusMsg:  summary(result),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app
}

// Run starts the program on the alternate screen and blocks until the user quits.
func Run(app *App) error {
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.candidates.SetSize(max(0, msg.Width/2-6), max(0, msg.Height-10))
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateList {
				return a, tea.Quit
			}
			a.state = stateList
			return a, nil
		case "esc":
			a.state = stateList
			return a, nil
		case "enter":
			if _, ok := a.selected(); ok {
				a.state = stateDetail
			}
			return a, nil
		case "e":
			a.export()
			return a, nil
		}
	}

	if a.state != stateList {
		return a, nil
	}
	var cmd tea.Cmd
	a.candidates, cmd = a.candidates.Update(msg)
	return a, cmd
}

func (a *App) selected() (candidateItem, bool) {
	item, ok := a.candidates.SelectedItem().(candidateItem)
	return item, ok
}

func (a *App) export() {
	item, ok := a.selected()
	if !ok {
		return
	}
	if a.exporter == nil {
		a.statusMsg = "Export is not configured."
		return
	}
	path, err := a.exporter(item.rank, item.c)
	if err != nil {
		a.statusMsg = fmt.Sprintf("⚠ export failed: %v", err)
		if a.logger != nil {
			a.logger.Error("export candidate %d: %v", item.rank+1, err)
		}
		return
	}
	a.statusMsg = fmt.Sprintf("Exported #%d to %s", item.rank+1, path)
	if a.logger != nil {
		a.logger.Info("exported candidate %d to %s", item.rank+1, path)
	}
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	leftWidth := max(30, width/2-2)
	rightWidth := width - leftWidth - 4

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⬡ HARPIST · " + a.title)

	var left string
	if len(a.result.Candidates) == 0 {
		left = fmt.Sprintf("No candidates (%s).", a.result.Outcome)
	} else {
		left = a.candidates.View()
	}
	leftBox := paneStyle.Width(leftWidth).Render(left)
	body := leftBox
	if rightWidth >= 20 {
		rightBox := paneStyle.Width(rightWidth).Render(a.renderDetail())
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	}

	sections := []string{header, body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg + "\n" + a.hints())
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

var paneStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#444444")).
	Padding(0, 1)

func (a *App) hints() string {
	if a.state == stateDetail {
		return "esc back · e export · ctrl+c quit"
	}
	return "↑/↓ move · enter open · e export · q quit"
}

// renderDetail shows the highlighted candidate beat by beat.
func (a *App) renderDetail() string {
	item, ok := a.selected()
	if !ok {
		return "Nothing selected."
	}
	c := item.c
	head := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	if a.state == stateDetail {
		head = head.Underline(true)
	}
	lines := []string{
		head.Render(fmt.Sprintf("Candidate #%d", item.rank+1)),
		fmt.Sprintf("Cost: %d · Moves: %d", c.Cost(), c.Moves()),
		fmt.Sprintf("Start: %s", c.Diagram()),
		"",
	}
	spelling := c.Spelling()
	for i, step := range c.Pedals() {
		if i < len(spelling) {
			lines = append(lines, fmt.Sprintf("%3d  %s  %s", i+1, spelling[i], step))
			continue
		}
		lines = append(lines, fmt.Sprintf("end  %s  %s", c.Destination(), step))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logger == nil {
		return ""
	}
	lines := a.logger.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logger.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return paneStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}

func summary(r solve.Result) string {
	mode := "strict"
	if r.Relaxed {
		mode = "relaxed"
	}
	if len(r.Candidates) == 0 {
		return fmt.Sprintf("%s · %s search", r.Outcome, mode)
	}
	return fmt.Sprintf("%s · %s search · cost %d · run %s", r.Outcome, mode, r.Cost(), r.RunID)
}
