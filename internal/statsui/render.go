package statsui

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/stats"
)

const (
	cardsPerRow   = 3
	cardGridWidth = 80
)

func overviewView(sessions []model.SessionAggregate, window, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	sum := stats.Summarize(sessions)
	cards := cardGrid(width,
		metricCard("Sessions", fmt.Sprintf("%d (%d done)", sum.Sessions, sum.Completed)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", sum.AvgWPM)),
		metricCard("Best WPM", fmt.Sprintf("%.1f", sum.BestWPM)),
		metricCard("Avg CPM", fmt.Sprintf("%.1f", sum.AvgCPM)),
		metricCard("Avg Acc", formatPct(sum.AvgAccuracy*100)),
	)
	curves := capture("curves", func(w io.Writer) error {
		return stats.RenderCurvesWithSize(w, sessions, window, width, plotHeight, true)
	})
	return joinSections(cards, curves)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

// cardGrid stacks cards on narrow screens and lays them out in rows of
// three otherwise.
func cardGrid(width int, cards ...string) string {
	if width < cardGridWidth {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	var rows []string
	for start := 0; start < len(cards); start += cardsPerRow {
		end := min(start+cardsPerRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// capture runs a text renderer and returns its output without trailing
// newlines, or the failure.
func capture(what string, render func(io.Writer) error) string {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Sprintf("Failed to render %s: %v", what, err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func joinSections(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// fitBlock pads or cuts s to exactly height lines of width columns.
func fitBlock(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		if pad := width - lipgloss.Width(line); pad > 0 {
			lines[i] = line + strings.Repeat(" ", pad)
		}
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
