package stats

import (
	"sort"

	"github.com/verte-zerg/tecla/internal/model"
)

// CharStatsFromLetters folds letter events into per-character stats.
// Letters typed at position zero carry the pause before the word and are
// left out of latency.
func CharStatsFromLetters(events []model.LetterEvent) []model.CharStats {
	byChar := map[string]*model.CharStats{}
	for _, ev := range events {
		if ev.Letter == "" {
			continue
		}
		cs, ok := byChar[ev.Letter]
		if !ok {
			cs = &model.CharStats{Char: ev.Letter}
			byChar[ev.Letter] = cs
		}
		if ev.IsError {
			cs.Incorrect++
		} else {
			cs.Correct++
		}
		if ev.Position > 0 && ev.TimeTaken > 0 {
			cs.LatencySumMs += ev.TimeTaken
			cs.LatencyCount++
		}
	}
	out := make([]model.CharStats, 0, len(byChar))
	for _, cs := range byChar {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Char < out[j].Char
	})
	return out
}

// Aggregates converts per-session stats into aggregates.
func Aggregates(chars []model.CharStats) []model.CharAggregate {
	out := make([]model.CharAggregate, len(chars))
	for i, cs := range chars {
		out[i] = model.CharAggregate(cs)
	}
	return out
}
