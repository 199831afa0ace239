// Package generator picks practice words.
package generator

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"time"
	"unicode"
)

// Options shape each picked word.
type Options struct {
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
}

// Generator produces randomized practice words. It is not safe for
// concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(uint64(seed), 0x7465636c61))}
}

// Sample picks count distinct entries of words uniformly. count is capped
// at len(words).
func (g *Generator) Sample(words []string, count int, opts Options) []string {
	return g.SampleWeighted(words, count, opts, nil, 0)
}

type candidate struct {
	word string
	key  float64
}

// SampleWeighted picks count distinct entries of words. A word containing
// n runes from focus is drawn with weight 1+n*factor.
func (g *Generator) SampleWeighted(words []string, count int, opts Options, focus map[rune]struct{}, factor float64) []string {
	count = min(count, len(words))
	if count <= 0 {
		return nil
	}
	// Each word gets an exponential key scaled by its weight; the count
	// smallest keys form a weighted sample without replacement.
	pool := make([]candidate, len(words))
	for i, word := range words {
		pool[i] = candidate{word: word, key: g.rnd.ExpFloat64() / weight(word, focus, factor)}
	}
	slices.SortFunc(pool, func(a, b candidate) int { return cmp.Compare(a.key, b.key) })

	out := make([]string, count)
	for i, c := range pool[:count] {
		out[i] = g.decorate(c.word, opts)
	}
	return out
}

func weight(word string, focus map[rune]struct{}, factor float64) float64 {
	if len(focus) == 0 || factor <= 0 {
		return 1
	}
	hits := 0
	for _, r := range word {
		if _, ok := focus[unicode.ToLower(r)]; ok {
			hits++
		}
	}
	return 1 + float64(hits)*factor
}

// decorate capitalizes and punctuates word according to opts.
func (g *Generator) decorate(word string, opts Options) string {
	if word == "" {
		return word
	}
	if g.chance(opts.CapsPct) {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		word = string(runes)
	}
	if len(opts.PunctSet) > 0 && g.chance(opts.PunctPct) {
		word += string(opts.PunctSet[g.rnd.IntN(len(opts.PunctSet))])
	}
	return word
}

func (g *Generator) chance(p float64) bool {
	return p > 0 && g.rnd.Float64() < p
}
