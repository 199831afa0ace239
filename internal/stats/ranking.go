package stats

import (
	"cmp"
	"slices"
	"strings"

	"github.com/verte-zerg/tecla/internal/model"
)

// TopCharsByFrequency returns up to n characters ordered by attempts, most
// practiced first. Ties are broken alphabetically.
func TopCharsByFrequency(aggs []model.CharAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	ranked := slices.Clone(aggs)
	slices.SortFunc(ranked, func(a, b model.CharAggregate) int {
		if c := cmp.Compare(attempts(b), attempts(a)); c != 0 {
			return c
		}
		return strings.Compare(a.Char, b.Char)
	})
	ranked = ranked[:min(n, len(ranked))]
	out := make([]string, len(ranked))
	for i, agg := range ranked {
		out[i] = agg.Char
	}
	return out
}

// SelectWeakChars returns the first rune of the top lowest-accuracy
// characters. A non-positive top selects every character.
func SelectWeakChars(aggs []model.CharAggregate, top int) map[rune]struct{} {
	weak := map[rune]struct{}{}
	ranked := slices.Clone(aggs)
	slices.SortFunc(ranked, func(a, b model.CharAggregate) int {
		if c := cmp.Compare(accuracy(a), accuracy(b)); c != 0 {
			return c
		}
		return strings.Compare(a.Char, b.Char)
	})
	if top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}
	for _, agg := range ranked {
		for _, r := range agg.Char {
			weak[r] = struct{}{}
			break
		}
	}
	return weak
}

func attempts(agg model.CharAggregate) int {
	return agg.Correct + agg.Incorrect
}

// accuracy is 1 for characters that were never typed.
func accuracy(agg model.CharAggregate) float64 {
	total := attempts(agg)
	if total == 0 {
		return 1
	}
	return float64(agg.Correct) / float64(total)
}
