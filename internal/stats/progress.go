package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/tecla/internal/model"
)

// ProgressSeries returns the accuracy and error series of a progress report
// in session order.
func ProgressSeries(p model.Progress) (accuracy, errors []float64) {
	accuracy = make([]float64, len(p.Sessions))
	errors = make([]float64, len(p.Sessions))
	for i, s := range p.Sessions {
		accuracy[i] = s.Accuracy
		errors[i] = float64(s.Details.Errors)
	}
	return accuracy, errors
}

// RenderProgressSummary prints the server-side totals.
func RenderProgressSummary(w io.Writer, p model.Progress) error {
	lines := []string{
		"Server Progress",
		fmt.Sprintf("Sessions: %d", p.Stats.TotalSessions),
		fmt.Sprintf("Avg Accuracy: %.2f%%", p.Stats.AvgAccuracy),
		fmt.Sprintf("Best Accuracy: %.2f%%", p.Stats.BestAccuracy),
		fmt.Sprintf("Total Errors: %d", p.Stats.TotalErrors),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderProgressCurves plots accuracy and errors per session.
func RenderProgressCurves(w io.Writer, p model.Progress, totalWidth, height int, useColor bool) error {
	if len(p.Sessions) == 0 {
		return nil
	}
	acc, errs := ProgressSeries(p)
	return Chart{
		Title: "Progress",
		Series: []Series{
			{Name: "Accuracy", Values: acc, Fixed: PercentRange},
			{Name: "Errors", Values: errs},
		},
		Width:  chartWidth(totalWidth),
		Height: height,
		Color:  useColor,
	}.Render(w)
}

// RenderProgressTable prints the per-session rows of a progress report.
func RenderProgressTable(w io.Writer, p model.Progress) error {
	if len(p.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions on the server yet.")
		return err
	}
	t := &table{header: []string{"Date", "Accuracy", "Errors", "Letters"}, align: "lrrr"}
	for _, s := range p.Sessions {
		t.add(
			s.Date,
			fmt.Sprintf("%.2f%%", s.Accuracy),
			fmt.Sprintf("%d", s.Details.Errors),
			fmt.Sprintf("%d", s.Details.Letters),
		)
	}
	return t.write(w)
}

// RenderProgress prints summary, curves and table.
func RenderProgress(w io.Writer, p model.Progress, totalWidth, height int, useColor bool) error {
	if err := RenderProgressSummary(w, p); err != nil {
		return err
	}
	if err := RenderProgressCurves(w, p, totalWidth, height, useColor); err != nil {
		return err
	}
	return RenderProgressTable(w, p)
}
