package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/tecla/internal/model"
)

const defaultCurveHeight = 10

// RenderCurves prints WPM and accuracy learning curves sized to the
// terminal.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, defaultCurveHeight, false)
}

// RenderCurvesWithSize prints learning curves for totalWidth columns.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpm, _, acc := SessionMetrics(s)
		wpms[i], accs[i] = wpm, acc*100
	}
	return Chart{
		Title: "Learning Curves",
		Series: []Series{
			{Name: "WPM", Values: MovingAverage(wpms, window)},
			{Name: "Accuracy", Values: MovingAverage(accs, window), Fixed: PercentRange},
		},
		Width:  chartWidth(totalWidth),
		Height: height,
		Color:  useColor,
	}.Render(w)
}

// RenderCharCurves prints per-character curves sized to the terminal.
func RenderCharCurves(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.CharAggregate, chars []string, window int) error {
	return RenderCharCurvesWithSize(w, sessions, perSession, chars, window, 0, defaultCurveHeight, false)
}

// RenderCharCurvesWithSize prints one accuracy and latency chart per
// character. Sessions where a character was not typed count as zero.
func RenderCharCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.CharAggregate, chars []string, window, totalWidth, height int, useColor bool) error {
	if len(chars) == 0 || len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Character Curves"); err != nil {
		return err
	}
	for _, ch := range chars {
		acc, lat := charSeries(sessions, perSession, ch)
		chart := Chart{
			Title: "Char " + ch,
			Series: []Series{
				{Name: "Accuracy", Values: MovingAverage(acc, window), Fixed: PercentRange},
				{Name: "Latency ms", Values: MovingAverage(lat, window)},
			},
			Width:  chartWidth(totalWidth),
			Height: height,
			Color:  useColor,
		}
		if err := chart.Render(w); err != nil {
			return err
		}
	}
	return nil
}

// charSeries returns accuracy in percent and mean latency of ch for each
// session.
func charSeries(sessions []model.SessionAggregate, perSession map[int64]map[string]model.CharAggregate, ch string) (acc, lat []float64) {
	acc = make([]float64, len(sessions))
	lat = make([]float64, len(sessions))
	for i, s := range sessions {
		agg, ok := perSession[s.SessionID][ch]
		if !ok {
			continue
		}
		if attempts(agg) > 0 {
			acc[i] = accuracy(agg) * 100
		}
		lat[i] = meanLatency(agg)
	}
	return acc, lat
}
