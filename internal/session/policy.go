package session

import (
	"math"
	"time"
)

// LetterCorrect reports whether r typed at position pos matches target.
// Positions past the end of target are never correct.
func LetterCorrect(target []rune, pos int, r rune) bool {
	if pos < 0 || pos >= len(target) {
		return false
	}
	return target[pos] == r
}

// WordCorrect reports whether typed reproduces target exactly.
func WordCorrect(target, typed string) bool {
	return target == typed
}

// CalculateWPM returns correct words per minute between start and end,
// rounded to the nearest integer. Missing timestamps yield zero.
func CalculateWPM(correctWords int, start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	elapsed := end.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Round(float64(correctWords) / elapsed.Minutes()))
}

// CalculateAccuracy returns the rounded percentage of correct characters.
func CalculateAccuracy(correctChars, totalChars int) int {
	if totalChars <= 0 {
		return 0
	}
	return int(math.Round(float64(correctChars) / float64(totalChars) * 100))
}
