package statsui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/stats"
)

var charColumns = []table.Column{
	{Title: "Char", Width: 7},
	{Title: "Accuracy", Width: 9},
	{Title: "Avg Latency (ms)", Width: 17},
	{Title: "Correct", Width: 7},
	{Title: "Incorrect", Width: 9},
	{Title: "Total", Width: 6},
}

// charView holds the Characters table and the Char Curves selection.
type charView struct {
	table      table.Model
	selection  []string
	custom     bool
	perSession map[int64]map[string]model.CharAggregate
	err        string
}

func newCharView() charView {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(frame).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1, 0, 0)
	styles.Cell = styles.Cell.Padding(0, 1, 0, 0)
	styles.Selected = styles.Cell.Foreground(bright).Bold(true)
	return charView{table: table.New(
		table.WithColumns(charColumns),
		table.WithHeight(1),
		table.WithStyles(styles),
	)}
}

func charRows(aggs []model.CharAggregate) []table.Row {
	rows := make([]table.Row, 0, len(aggs))
	for _, r := range stats.CharRows(aggs) {
		rows = append(rows, table.Row{
			r.Label,
			fmt.Sprintf("%.2f%%", r.Accuracy*100),
			fmt.Sprintf("%.1f", r.LatencyMs),
			strconv.Itoa(r.Correct),
			strconv.Itoa(r.Incorrect),
			strconv.Itoa(r.Correct + r.Incorrect),
		})
	}
	return rows
}

// resize fits the table into height lines. The header border is not part
// of the table's own height.
func (c *charView) resize(width, height int) {
	c.table.SetWidth(width)
	c.table.SetHeight(max(height-1, 1))
	if extra := lipgloss.Height(c.table.View()) - height; extra != 0 {
		c.table.SetHeight(max(c.table.Height()-extra, 1))
	}
}

// pick sets the curve selection. An empty pick falls back to the most
// practiced characters.
func (c *charView) pick(chars []string, aggs []model.CharAggregate) {
	c.custom = len(chars) > 0
	if c.custom {
		c.selection = chars
		return
	}
	c.selection = stats.TopCharsByFrequency(aggs, topChars)
}

func (c *charView) curvesView(sessions []model.SessionAggregate, window, width int) string {
	switch {
	case len(sessions) == 0:
		return "No sessions found."
	case c.err != "":
		return "Failed to load character curves: " + c.err
	case len(c.selection) == 0:
		return "No characters selected. Press Enter to set chars."
	}
	labels := make([]string, len(c.selection))
	for i, ch := range c.selection {
		labels[i] = stats.CharLabel(ch)
	}
	curves := capture("character curves", func(w io.Writer) error {
		return stats.RenderCharCurvesWithSize(w, sessions, c.perSession, c.selection, window, width, plotHeight, true)
	})
	return mutedStyle.Render("Chars: "+strings.Join(labels, ", ")) + "\n" + curves
}

// charPicker is the modal that edits the curve selection.
type charPicker struct {
	input textinput.Model
}

func newCharPicker(selection []string, width int) *charPicker {
	in := textinput.New()
	in.Prompt = "Chars: "
	in.Placeholder = "asdfjkl;"
	in.SetValue(strings.Join(selection, ""))
	in.Width = max(10, modalInnerWidth(width)-lipgloss.Width(in.Prompt))
	return &charPicker{input: in}
}

func (p *charPicker) update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if cleaned := stripSeparators(p.input.Value()); cleaned != p.input.Value() {
		p.input.SetValue(cleaned)
	}
	return cmd
}

// chars returns the picked characters in input order.
func (p *charPicker) chars() []string {
	var out []string
	for _, r := range stripSeparators(p.input.Value()) {
		out = append(out, string(r))
	}
	return out
}

func (p *charPicker) view(width, height int) string {
	body := strings.Join([]string{
		cardValueStyle.Render("Select Characters"),
		p.input.View(),
		mutedStyle.Render("Type characters (no commas). Spaces are ignored."),
		mutedStyle.Render("Enter to apply / Esc to cancel"),
	}, "\n")
	box := modalStyle.Width(modalWidth(width)).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}

// modalInnerWidth subtracts the modal border and padding.
func modalInnerWidth(width int) int {
	return max(10, modalWidth(width)-6)
}
