package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/harpist/internal/solve"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// renderResult prints up to show candidates, each in its own box.
func renderResult(r solve.Result, show int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(describe(r)))
	b.WriteString("\n")
	n := min(show, len(r.Candidates))
	for i := 0; i < n; i++ {
		c := r.Candidates[i]
		head := fmt.Sprintf("#%d · %d move(s)", i+1, c.Moves())
		b.WriteString(boxStyle.Render(head + "\n" + strings.TrimRight(c.String(), "\n")))
		b.WriteString("\n")
	}
	if rest := len(r.Candidates) - n; rest > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("… %d more with the same cost", rest)))
		b.WriteString("\n")
	}
	return b.String()
}

func describe(r solve.Result) string {
	switch r.Outcome {
	case solve.NoSpelling:
		return fmt.Sprintf("No spelling: beat %d cannot be played on a pedal harp", r.BadBeat+1)
	case solve.Unplayable:
		mode := "strict"
		if r.Relaxed {
			mode = "relaxed"
		}
		return fmt.Sprintf("Unplayable: no pedal schedule connects the beats (%s search)", mode)
	case solve.Exhausted:
		if len(r.Candidates) == 0 {
			return "Search limit reached before any schedule was found; raise solver.max_expansions"
		}
		return fmt.Sprintf("Search limit reached: %d candidate(s) at cost %d, ties may be missing; raise solver.max_expansions", len(r.Candidates), r.Cost())
	}
	label := fmt.Sprintf("%d candidate(s) at cost %d", len(r.Candidates), r.Cost())
	if r.Relaxed {
		label += " (relaxed)"
	}
	return label
}
