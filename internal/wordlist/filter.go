package wordlist

import (
	"strings"
	"unicode"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// alphabets lists the non-ASCII letters each language accepts on top of
// the ASCII letters.
var alphabets = map[string]string{
	"en": "",
	"es": "áéíóúüñÁÉÍÓÚÜÑ",
}

// FilterForLang keeps words spelled only with the letters of lang. Unknown
// languages keep every non-empty word.
func FilterForLang(lang string) FilterFunc {
	extra, ok := alphabets[strings.ToLower(lang)]
	if !ok {
		return func(word string) bool { return word != "" }
	}
	return func(word string) bool {
		return word != "" && strings.IndexFunc(word, func(r rune) bool { return !inAlphabet(r, extra) }) < 0
	}
}

func inAlphabet(r rune, extra string) bool {
	if r <= unicode.MaxASCII {
		return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
	}
	return strings.ContainsRune(extra, r)
}
