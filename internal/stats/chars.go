package stats

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/verte-zerg/tecla/internal/model"
)

// CharRow is a display-ready per-character aggregate.
type CharRow struct {
	Label     string
	Accuracy  float64
	LatencyMs float64
	Correct   int
	Incorrect int
}

// CharLabel returns a printable label for a typed character.
func CharLabel(ch string) string {
	switch ch {
	case " ":
		return "<space>"
	case "\t":
		return "<tab>"
	}
	return ch
}

func meanLatency(agg model.CharAggregate) float64 {
	if agg.LatencyCount == 0 {
		return 0
	}
	return float64(agg.LatencySumMs) / float64(agg.LatencyCount)
}

// CharRows converts aggregates into rows, least accurate first.
func CharRows(aggs []model.CharAggregate) []CharRow {
	rows := make([]CharRow, len(aggs))
	for i, agg := range aggs {
		rows[i] = CharRow{
			Label:     CharLabel(agg.Char),
			Accuracy:  accuracy(agg),
			LatencyMs: meanLatency(agg),
			Correct:   agg.Correct,
			Incorrect: agg.Incorrect,
		}
	}
	slices.SortFunc(rows, func(a, b CharRow) int {
		if c := cmp.Compare(a.Accuracy, b.Accuracy); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})
	return rows
}

// RenderCharTable prints per-character aggregates.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	t := &table{header: []string{"Char", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect"}, align: "lrrrr"}
	for _, r := range CharRows(aggs) {
		t.add(r.Label,
			fmt.Sprintf("%.2f%%", r.Accuracy*100),
			fmt.Sprintf("%.1f", r.LatencyMs),
			strconv.Itoa(r.Correct),
			strconv.Itoa(r.Incorrect))
	}
	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}
	return t.write(w)
}
