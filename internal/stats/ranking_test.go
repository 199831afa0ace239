package stats

import (
	"slices"
	"testing"

	"github.com/verte-zerg/tecla/internal/model"
)

func TestTopCharsByFrequency(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "e", Correct: 3, Incorrect: 1},
		{Char: "a", Correct: 2, Incorrect: 2},
		{Char: "ñ", Correct: 1},
	}
	if got := TopCharsByFrequency(aggs, 2); !slices.Equal(got, []string{"a", "e"}) {
		t.Fatalf("unexpected order: %v", got)
	}
	if got := TopCharsByFrequency(aggs, 10); len(got) != 3 || got[2] != "ñ" {
		t.Fatalf("expected all chars, got %v", got)
	}
	if got := TopCharsByFrequency(aggs, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
	if aggs[0].Char != "e" {
		t.Fatalf("expected input order to be kept")
	}
}

func TestSelectWeakCharsAll(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "ñ", Correct: 1, Incorrect: 1},
		{Char: "z"},
	}
	weak := SelectWeakChars(aggs, 0)
	if len(weak) != 2 {
		t.Fatalf("expected every char, got %v", weak)
	}
	if _, ok := weak['ñ']; !ok {
		t.Fatalf("expected multi-byte rune to be kept")
	}
	if len(SelectWeakChars(nil, 3)) != 0 {
		t.Fatalf("expected empty set")
	}
}
