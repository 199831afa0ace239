package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/tecla/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	wpm, cpm, acc := SessionMetrics(model.SessionAggregate{
		CorrectWords: 15,
		Correct:      90,
		Incorrect:    10,
		DurationMs:   30000,
	})
	if wpm != 30 {
		t.Fatalf("expected 30 wpm, got %v", wpm)
	}
	if cpm != 180 {
		t.Fatalf("expected 180 cpm, got %v", cpm)
	}
	if math.Abs(acc-0.9) > 1e-9 {
		t.Fatalf("expected 0.9 accuracy, got %v", acc)
	}
}

func TestSessionMetricsZeroDuration(t *testing.T) {
	wpm, cpm, acc := SessionMetrics(model.SessionAggregate{CorrectWords: 3, Correct: 1, Incorrect: 1})
	if wpm != 0 || cpm != 0 {
		t.Fatalf("expected zero rates, got %v %v", wpm, cpm)
	}
	if acc != 0.5 {
		t.Fatalf("expected accuracy kept, got %v", acc)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestCharRowsOrderAndLabels(t *testing.T) {
	rows := CharRows([]model.CharAggregate{
		{Char: "a", Correct: 9, Incorrect: 1, LatencySumMs: 300, LatencyCount: 3},
		{Char: " ", Correct: 1, Incorrect: 1},
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Label != "<space>" || rows[0].Accuracy != 0.5 {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[1].LatencyMs != 100 {
		t.Fatalf("unexpected latency %+v", rows[1])
	}
}

func TestCharStatsFromLetters(t *testing.T) {
	events := []model.LetterEvent{
		{Letter: "h", Position: 0, TimeTaken: 900},
		{Letter: "o", Position: 1, TimeTaken: 100},
		{Letter: "x", Position: 2, TimeTaken: 200, IsError: true},
		{Letter: "o", Position: 3, TimeTaken: 50},
	}
	got := CharStatsFromLetters(events)
	if len(got) != 3 {
		t.Fatalf("expected 3 chars, got %+v", got)
	}
	byChar := map[string]model.CharStats{}
	for _, cs := range got {
		byChar[cs.Char] = cs
	}
	if h := byChar["h"]; h.Correct != 1 || h.LatencyCount != 0 {
		t.Fatalf("unexpected h stats %+v", h)
	}
	if o := byChar["o"]; o.Correct != 2 || o.LatencySumMs != 150 || o.LatencyCount != 2 {
		t.Fatalf("unexpected o stats %+v", o)
	}
	if x := byChar["x"]; x.Incorrect != 1 {
		t.Fatalf("unexpected x stats %+v", x)
	}
	if aggs := Aggregates(got); len(aggs) != 3 || aggs[0].Char != "h" {
		t.Fatalf("unexpected aggregates %+v", aggs)
	}
}

func TestSelectWeakChars(t *testing.T) {
	weak := SelectWeakChars([]model.CharAggregate{
		{Char: "a", Correct: 10},
		{Char: "b", Correct: 1, Incorrect: 3},
		{Char: "c", Correct: 5, Incorrect: 5},
	}, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak chars, got %v", weak)
	}
	if _, ok := weak['b']; !ok {
		t.Fatalf("expected b to be weak")
	}
	if _, ok := weak['a']; ok {
		t.Fatalf("did not expect a to be weak")
	}
}

func TestRenderProgress(t *testing.T) {
	p := model.Progress{
		Stats: model.ProgressStats{AvgAccuracy: 93.5, TotalErrors: 13, BestAccuracy: 96, TotalSessions: 2},
		Sessions: []model.ProgressSession{
			{Date: "2026-10-01", Accuracy: 91, Details: model.ProgressDetail{Errors: 9, Letters: 100}},
			{Date: "2026-10-02", Accuracy: 96, Details: model.ProgressDetail{Errors: 4, Letters: 100}},
		},
	}
	var buf bytes.Buffer
	if err := RenderProgress(&buf, p, 80, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Server Progress", "Avg Accuracy: 93.50%", "Total Errors: 13", "2026-10-02", "Legend:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, []model.SessionRecord{{TotalWords: 20, WrittenWords: 5, Offline: true}}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "offline") || !strings.Contains(out, "5/20") || !strings.Contains(out, "ended early") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]model.SessionAggregate{
		{CorrectWords: 10, Correct: 50, Incorrect: 0, DurationMs: 60000, Completed: true},
		{CorrectWords: 30, Correct: 150, Incorrect: 50, DurationMs: 60000},
	})
	if sum.Sessions != 2 || sum.Completed != 1 {
		t.Fatalf("unexpected counts %+v", sum)
	}
	if sum.AvgWPM != 20 || sum.BestWPM != 30 || sum.AvgCPM != 100 {
		t.Fatalf("unexpected rates %+v", sum)
	}
	if math.Abs(sum.AvgAccuracy-0.875) > 1e-9 {
		t.Fatalf("unexpected accuracy %v", sum.AvgAccuracy)
	}
	if empty := Summarize(nil); empty.Sessions != 0 || empty.AvgWPM != 0 {
		t.Fatalf("unexpected empty summary %+v", empty)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 5, 10}); got != " +@" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3}); got != "++" {
		t.Fatalf("expected flat line, got %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	in := []float64{1, 5}
	got := MovingAverage(in, 1)
	got[0] = 9
	if in[0] != 1 {
		t.Fatalf("expected a copy")
	}
}

func TestCharSeriesMissingSessions(t *testing.T) {
	sessions := []model.SessionAggregate{{SessionID: 1}, {SessionID: 2}}
	perSession := map[int64]map[string]model.CharAggregate{
		2: {"a": {Char: "a", Correct: 3, Incorrect: 1, LatencySumMs: 300, LatencyCount: 3}},
	}
	acc, lat := charSeries(sessions, perSession, "a")
	if acc[0] != 0 || lat[0] != 0 || acc[1] != 75 || lat[1] != 100 {
		t.Fatalf("unexpected series %v %v", acc, lat)
	}
}
