// Package wordlist loads practice word lists.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

//go:embed default.txt
var defaultList string

// ErrEmpty is returned when a list has no usable words.
var ErrEmpty = errors.New("word list is empty")

// Default returns the built-in list of common English words.
func Default() []string {
	words, _ := readWords(strings.NewReader(defaultList))
	return words
}

// LoadWords reads one word per line from path. Surrounding space is
// trimmed; blank lines and repeats are dropped.
func LoadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	words, err := readWords(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list %s: %w", path, err)
	}
	return words, nil
}

// Resolve returns the words at path, or the built-in list when path is
// empty, keeping only the words accepted by keep when it is set.
func Resolve(path string, keep FilterFunc) ([]string, error) {
	var words []string
	if path == "" {
		words = Default()
	} else {
		loaded, err := LoadWords(path)
		if err != nil {
			return nil, err
		}
		words = loaded
	}
	if keep != nil {
		words = slices.DeleteFunc(words, func(w string) bool { return !keep(w) })
		if len(words) == 0 {
			return nil, fmt.Errorf("%w after filtering", ErrEmpty)
		}
	}
	return words, nil
}

func readWords(r io.Reader) ([]string, error) {
	seen := make(map[string]bool)
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w != "" && !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}
