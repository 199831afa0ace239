package statsui

import (
	"context"
	"io"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tecla/internal/api"
	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/stats"
)

type progressMsg struct {
	seq      int
	progress model.Progress
	err      error
}

// serverState tracks the server progress tab. Only the latest request's
// result is applied.
type serverState struct {
	fetch   ProgressFunc
	data    model.Progress
	err     string
	loaded  bool
	loading bool
	seq     int
}

func (s *serverState) request(ctx context.Context) tea.Cmd {
	if s.fetch == nil || s.loading {
		return nil
	}
	s.loading = true
	s.seq++
	seq, fetch := s.seq, s.fetch
	return func() tea.Msg {
		p, err := fetch(ctx)
		return progressMsg{seq: seq, progress: p, err: err}
	}
}

// receive reports whether msg answered the latest request.
func (s *serverState) receive(msg progressMsg) bool {
	if msg.seq != s.seq {
		return false
	}
	s.loading = false
	if msg.err != nil {
		s.err = api.Message(msg.err)
		return true
	}
	s.err, s.data, s.loaded = "", msg.progress, true
	return true
}

func (s *serverState) view(width int) string {
	switch {
	case s.fetch == nil:
		return "Not signed in. Run `tecla login` to see server progress."
	case s.loaded:
	case s.loading:
		return "Loading server progress..."
	case s.err != "":
		return errorStyle.Render("Failed to load server progress: " + s.err)
	default:
		return "Press r to load server progress."
	}

	p := s.data
	parts := []string{cardGrid(width,
		metricCard("Sessions", strconv.Itoa(p.Stats.TotalSessions)),
		metricCard("Avg Acc", formatPct(p.Stats.AvgAccuracy)),
		metricCard("Best Acc", formatPct(p.Stats.BestAccuracy)),
		metricCard("Errors", strconv.Itoa(p.Stats.TotalErrors)),
	)}
	if s.err != "" {
		parts = append(parts, errorStyle.Render("Reload failed: "+s.err))
	}
	if curves := capture("progress", func(w io.Writer) error {
		return stats.RenderProgressCurves(w, p, width, plotHeight, true)
	}); curves != "" {
		parts = append(parts, curves)
	}
	parts = append(parts, capture("progress table", func(w io.Writer) error {
		return stats.RenderProgressTable(w, p)
	}))
	return joinSections(parts...)
}
