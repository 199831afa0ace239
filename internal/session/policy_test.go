package session

import (
	"testing"
	"time"
)

func TestLetterCorrectOutOfRange(t *testing.T) {
	target := []rune("cat")
	if !LetterCorrect(target, 0, 'c') {
		t.Fatalf("expected c at 0 to be correct")
	}
	if LetterCorrect(target, 2, 'y') {
		t.Fatalf("expected y at 2 to be incorrect")
	}
	if LetterCorrect(target, 3, 't') {
		t.Fatalf("expected out-of-range letter to be incorrect")
	}
}

func TestCalculateAccuracyZeroTotal(t *testing.T) {
	if got := CalculateAccuracy(0, 0); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := CalculateAccuracy(2, 3); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
}

func TestCalculateWPM(t *testing.T) {
	start := time.Unix(1000, 0)
	if got := CalculateWPM(10, start, time.Time{}); got != 0 {
		t.Fatalf("expected 0 with missing end time, got %d", got)
	}
	if got := CalculateWPM(10, time.Time{}, start); got != 0 {
		t.Fatalf("expected 0 with missing start time, got %d", got)
	}
	if got := CalculateWPM(10, start, start); got != 0 {
		t.Fatalf("expected 0 with zero duration, got %d", got)
	}
	if got := CalculateWPM(10, start, start.Add(30*time.Second)); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
}
