// Package offline runs practice sessions without the server.
package offline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/verte-zerg/tecla/internal/generator"
	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/session"
)

// DefaultWords is the number of words in a session.
const DefaultWords = 20

// ErrUnknownSession is returned for ids not issued by the provider.
var ErrUnknownSession = errors.New("unknown offline session")

// Provider issues sessions of unique words sampled from a list.
type Provider struct {
	gen    *generator.Generator
	words  []string
	count  int
	opts   generator.Options
	weak   map[rune]struct{}
	factor float64

	mu       sync.Mutex
	sessions map[string][]model.Word
}

// NewProvider samples count words per session from words.
func NewProvider(gen *generator.Generator, words []string, count int, opts generator.Options) *Provider {
	if count <= 0 {
		count = DefaultWords
	}
	return &Provider{
		gen:      gen,
		words:    words,
		count:    count,
		opts:     opts,
		sessions: map[string][]model.Word{},
	}
}

// FocusOn biases sampling toward words containing the given runes.
func (p *Provider) FocusOn(weak map[rune]struct{}, factor float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.weak = weak
	p.factor = factor
}

// NewSession allocates a session id.
func (p *Provider) NewSession() string {
	id := uuid.NewString()
	p.mu.Lock()
	p.sessions[id] = nil
	p.mu.Unlock()
	return id
}

// SessionWords returns the words of sessionID, sampling them on first use.
func (p *Provider) SessionWords(_ context.Context, sessionID string) ([]model.Word, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	words, ok := p.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}
	if words != nil {
		return append([]model.Word(nil), words...), nil
	}
	if len(p.words) == 0 {
		return nil, session.ErrNoWords
	}
	picked := p.gen.SampleWeighted(p.words, p.count, p.opts, p.weak, p.factor)
	words = make([]model.Word, len(picked))
	for i, text := range picked {
		words[i] = model.Word{ID: uuid.NewString(), Text: text}
	}
	p.sessions[sessionID] = words
	return append([]model.Word(nil), words...), nil
}

func (p *Provider) lookup(sessionID string) ([]model.Word, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	words, ok := p.sessions[sessionID]
	return words, ok && words != nil
}

// Sink stores letter telemetry in memory and scores it like the server.
type Sink struct {
	provider *Provider

	mu      sync.Mutex
	letters map[string]map[string][]model.LetterEvent
}

// NewSink scores sessions issued by p.
func NewSink(p *Provider) *Sink {
	return &Sink{provider: p, letters: map[string]map[string][]model.LetterEvent{}}
}

// SubmitLetters records a letter batch.
func (s *Sink) SubmitLetters(_ context.Context, batch model.LetterBatch) error {
	if _, ok := s.provider.lookup(batch.SessionID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, batch.SessionID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byWord, ok := s.letters[batch.SessionID]
	if !ok {
		byWord = map[string][]model.LetterEvent{}
		s.letters[batch.SessionID] = byWord
	}
	byWord[batch.WordID] = append(byWord[batch.WordID], batch.Letters...)
	return nil
}

// CompleteSession scores the recorded letters of sessionID.
func (s *Sink) CompleteSession(_ context.Context, sessionID string) (model.FinalStats, error) {
	words, ok := s.provider.lookup(sessionID)
	if !ok {
		return model.FinalStats{}, fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Score(words, s.letters[sessionID]), nil
}

// Score computes final statistics from letters grouped by word id. The
// last word that received letters counts as written only when its replayed
// text reaches the target length; shorter text is the unfinished word of a
// session ended early. Its letters still count as typed characters.
func Score(words []model.Word, letters map[string][]model.LetterEvent) model.FinalStats {
	final := model.FinalStats{TotalWords: len(words)}
	last := -1
	for i, word := range words {
		if len(letters[word.ID]) > 0 {
			last = i
		}
	}
	for i, word := range words {
		events := letters[word.ID]
		if len(events) == 0 {
			continue
		}
		for _, ev := range events {
			if ev.IsError {
				final.IncorrectChars++
			} else {
				final.CorrectChars++
			}
		}
		typed := Replay(events)
		if i == last && utf8.RuneCountInString(typed) < utf8.RuneCountInString(word.Text) {
			continue
		}
		final.WrittenWords++
		if session.WordCorrect(word.Text, typed) {
			final.CorrectWords++
		} else {
			final.IncorrectWords++
		}
	}
	final.Accuracy = session.CalculateAccuracy(final.CorrectChars, final.CorrectChars+final.IncorrectChars)
	final.IsCompleted = final.WrittenWords == final.TotalWords
	return final
}

// Replay rebuilds the typed text from letter events; an event at position
// p discards anything typed at or after p.
func Replay(events []model.LetterEvent) string {
	var typed []rune
	for _, ev := range events {
		pos := ev.Position
		if pos < 0 {
			pos = 0
		}
		if pos < len(typed) {
			typed = typed[:pos]
		}
		typed = append(typed, []rune(ev.Letter)...)
	}
	return string(typed)
}
