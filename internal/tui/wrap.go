package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tecla/internal/model"
)

// cell is one rendered rune with its display width.
type cell struct {
	text  string
	width int
	space bool
}

func styledCell(r rune, style lipgloss.Style) cell {
	return cell{text: style.Render(string(r)), width: runewidth.RuneWidth(r), space: r == ' '}
}

// wordCells renders the word being typed. Typed positions show the target
// letter colored by its recorded status, letters typed past the end show
// as typed, and the cursor sits on the next position.
func wordCells(target, input []rune, status map[int]bool) []cell {
	n := max(len(target), len(input))
	out := make([]cell, 0, n+1)
	for i := 0; i < n; i++ {
		if i >= len(input) {
			style := pendingStyle
			if i == len(input) {
				style = cursorStyle
			}
			out = append(out, styledCell(target[i], style))
			continue
		}
		r := input[i]
		if i < len(target) {
			r = target[i]
		}
		style := incorrectStyle
		if status[i] {
			style = correctStyle
		}
		out = append(out, styledCell(r, style))
	}
	if len(input) >= len(target) {
		out = append(out, cell{text: cursorStyle.Render(" "), width: 1, space: true})
	}
	return out
}

// stripCells renders the word list: finished words by result, the current
// word highlighted and the rest pending.
func stripCells(words []model.Word, results []bool, current int) []cell {
	var out []cell
	for i, word := range words {
		if i > 0 {
			out = append(out, cell{text: " ", width: 1, space: true})
		}
		style := pendingStyle
		switch {
		case i < len(results) && results[i]:
			style = doneCorrectStyle
		case i < len(results):
			style = doneIncorrectStyle
		case i == current:
			style = currentWordStyle
		}
		for _, r := range word.Text {
			out = append(out, styledCell(r, style))
		}
	}
	return out
}

func joinCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.text)
	}
	return b.String()
}

func cellsWidth(cells []cell) int {
	w := 0
	for _, c := range cells {
		w += c.width
	}
	return w
}

// segment is a run of non-space cells and the spaces after it.
type segment struct {
	word []cell
	gap  []cell
}

func segments(cells []cell) []segment {
	var out []segment
	for _, c := range cells {
		if len(out) == 0 || (!c.space && len(out[len(out)-1].gap) > 0) {
			out = append(out, segment{})
		}
		last := &out[len(out)-1]
		if c.space {
			last.gap = append(last.gap, c)
		} else {
			last.word = append(last.word, c)
		}
	}
	return out
}

// wrapCells breaks cells into lines of at most width columns, preferring
// breaks between words. The spaces at a break are dropped and words wider
// than a line are split.
func wrapCells(cells []cell, width int) string {
	if width <= 0 {
		return joinCells(cells)
	}
	var lines []string
	var line []cell
	lineWidth := 0
	breakLine := func() {
		for len(line) > 0 && line[len(line)-1].space {
			line = line[:len(line)-1]
		}
		lines = append(lines, joinCells(line))
		line, lineWidth = nil, 0
	}
	for _, seg := range segments(cells) {
		if len(line) > 0 && lineWidth+cellsWidth(seg.word) > width {
			breakLine()
		}
		for _, c := range seg.word {
			if len(line) > 0 && lineWidth+c.width > width {
				breakLine()
			}
			line = append(line, c)
			lineWidth += c.width
		}
		line = append(line, seg.gap...)
		lineWidth += cellsWidth(seg.gap)
	}
	lines = append(lines, joinCells(line))
	return strings.Join(lines, "\n")
}
