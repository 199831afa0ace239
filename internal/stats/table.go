package stats

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// table is a plain-text grid. align holds one byte per column, 'r' for
// right-aligned; missing columns align left.
type table struct {
	header []string
	align  string
	rows   [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) widths() []int {
	cols := len(t.header)
	for _, row := range t.rows {
		cols = max(cols, len(row))
	}
	widths := make([]int, cols)
	for _, row := range append([][]string{t.header}, t.rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

func (t *table) lines() []string {
	widths := t.widths()
	if len(widths) == 0 {
		return nil
	}
	out := make([]string, 0, len(t.rows)+1)
	if len(t.header) > 0 {
		out = append(out, t.line(t.header, widths))
	}
	for _, row := range t.rows {
		out = append(out, t.line(row, widths))
	}
	return out
}

func (t *table) line(row []string, widths []int) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := strings.Repeat(" ", max(width-runewidth.StringWidth(cell), 0))
		if i < len(t.align) && t.align[i] == 'r' {
			cells[i] = pad + cell
		} else {
			cells[i] = cell + pad
		}
	}
	return strings.Join(cells, " ")
}

// write prints the table followed by a blank line.
func (t *table) write(w io.Writer) error {
	var b strings.Builder
	for _, line := range t.lines() {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}
