// Package stats computes typing metrics from the local history and renders
// them as text.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tecla/internal/model"
)

const sparkLevels = " .:-=+*#%@"

// SessionMetrics computes WPM from correct words, CPM from correct
// characters, and accuracy as a 0..1 fraction.
func SessionMetrics(s model.SessionAggregate) (wpm, cpm, accuracy float64) {
	if typed := s.Correct + s.Incorrect; typed > 0 {
		accuracy = float64(s.Correct) / float64(typed)
	}
	if s.DurationMs <= 0 {
		return 0, 0, accuracy
	}
	minutes := float64(s.DurationMs) / 60000
	return float64(s.CorrectWords) / minutes, float64(s.Correct) / minutes, accuracy
}

// Summary condenses a list of sessions.
type Summary struct {
	Sessions    int
	Completed   int
	AvgWPM      float64
	BestWPM     float64
	AvgCPM      float64
	AvgAccuracy float64 // 0..1
	WPM         []float64
}

// Summarize averages the metrics of sessions.
func Summarize(sessions []model.SessionAggregate) Summary {
	sum := Summary{Sessions: len(sessions), WPM: make([]float64, len(sessions))}
	if len(sessions) == 0 {
		return sum
	}
	for i, s := range sessions {
		wpm, cpm, acc := SessionMetrics(s)
		sum.WPM[i] = wpm
		sum.AvgWPM += wpm
		sum.AvgCPM += cpm
		sum.AvgAccuracy += acc
		sum.BestWPM = max(sum.BestWPM, wpm)
		if s.Completed {
			sum.Completed++
		}
	}
	n := float64(len(sessions))
	sum.AvgWPM /= n
	sum.AvgCPM /= n
	sum.AvgAccuracy /= n
	return sum
}

// MovingAverage smooths values with a trailing mean over window points.
// The first points average over what is available.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	prefix := make([]float64, len(values)+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}
	for i := range values {
		from := max(i+1-window, 0)
		out[i] = (prefix[i+1] - prefix[from]) / float64(i+1-from)
	}
	return out
}

// Sparkline renders values as one line of ASCII levels.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkLevels[len(sparkLevels)/2]), len(values))
	}
	top := float64(len(sparkLevels) - 1)
	out := make([]byte, len(values))
	for i, v := range values {
		out[i] = sparkLevels[int(math.Round((v-lo)/(hi-lo)*top))]
	}
	return string(out)
}

// RenderSummary prints the averages of sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := Summarize(sessions)
	_, err := fmt.Fprintf(w, "Summary\nSessions: %d (%d completed)\nAvg WPM: %.2f\nBest WPM: %.2f\nAvg CPM: %.2f\nAvg Accuracy: %.2f%%\nWPM trend: %s\n\n",
		s.Sessions, s.Completed, s.AvgWPM, s.BestWPM, s.AvgCPM, s.AvgAccuracy*100, Sparkline(s.WPM))
	return err
}
