// Package session drives a single typing exercise from start to completion.
package session

import (
	"errors"
	"time"

	"github.com/verte-zerg/tecla/internal/model"
)

// State is the lifecycle stage of a session.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateActive
	StateComplete
	StateAbandoned
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	case StateComplete:
		return "complete"
	case StateAbandoned:
		return "abandoned"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further input is accepted.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateAbandoned
}

var (
	// ErrNoSession means there is no session to load; the host should
	// navigate away to a safe default view.
	ErrNoSession = errors.New("no session id")
	// ErrNoWords is returned when a session has an empty word list.
	ErrNoWords = errors.New("session has no words")
	// ErrInvalidState is returned for transitions the current state does not allow.
	ErrInvalidState = errors.New("invalid session state")
)

// Stats holds locally accumulated counts for a session.
type Stats struct {
	CorrectChars   int
	IncorrectChars int
	TotalChars     int
	CorrectWords   int
	IncorrectWords int
	TotalWords     int
	WrittenWords   int
	StartedAt      time.Time
	EndedAt        time.Time
}

// WPM returns the provisional words per minute.
func (s Stats) WPM() int {
	return CalculateWPM(s.CorrectWords, s.StartedAt, s.EndedAt)
}

// Accuracy returns the provisional accuracy percentage.
func (s Stats) Accuracy() int {
	return CalculateAccuracy(s.CorrectChars, s.TotalChars)
}

// Step describes what the host has to do after an input event.
type Step struct {
	// Batch holds letters to submit to the telemetry sink, if any.
	Batch *model.LetterBatch
	// WordDone is set when a word was submitted.
	WordDone    bool
	WordCorrect bool
	// Finished is set once the session reached a terminal state; the host
	// requests final statistics.
	Finished bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithAutoAdvance controls whether a word is submitted as soon as its
// typed length reaches the target length.
func WithAutoAdvance(enabled bool) Option {
	return func(c *Controller) {
		c.autoAdvance = enabled
	}
}

// Controller is the typing session state machine. It is not safe for
// concurrent use; all calls come from one event loop.
type Controller struct {
	now         func() time.Time
	autoAdvance bool

	state     State
	sessionID string
	words     []model.Word
	index     int

	target []rune
	input  []rune
	status map[int]bool

	buffer []model.LetterEvent
	lastAt time.Time

	stats    Stats
	final    *model.FinalStats
	err      error
	finalErr error
}

// NewController returns an idle controller.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		now:         time.Now,
		autoAdvance: true,
		status:      map[int]bool{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin requests the words for sessionID.
func (c *Controller) Begin(sessionID string) error {
	if c.state != StateIdle && c.state != StateFailed {
		return ErrInvalidState
	}
	if sessionID == "" {
		return ErrNoSession
	}
	c.sessionID = sessionID
	c.err = nil
	c.state = StateLoading
	return nil
}

// Load activates the session with the retrieved words.
func (c *Controller) Load(words []model.Word) error {
	if c.state != StateLoading {
		return ErrInvalidState
	}
	if len(words) == 0 {
		c.state = StateFailed
		c.err = ErrNoWords
		return ErrNoWords
	}
	c.words = append([]model.Word(nil), words...)
	c.index = 0
	now := c.now()
	c.stats = Stats{TotalWords: len(words), StartedAt: now}
	c.lastAt = now
	c.resetWord()
	c.state = StateActive
	return nil
}

// Fail records a word retrieval failure.
func (c *Controller) Fail(err error) {
	if c.state != StateLoading {
		return
	}
	c.state = StateFailed
	c.err = err
}

// Type handles one typed rune.
func (c *Controller) Type(r rune) Step {
	if c.state != StateActive {
		return Step{}
	}
	if isSeparator(r) {
		if len(c.input) == 0 {
			return Step{}
		}
		return c.submit()
	}

	pos := len(c.input)
	correct := LetterCorrect(c.target, pos, r)
	c.input = append(c.input, r)
	c.status[pos] = correct
	if correct {
		c.stats.CorrectChars++
	} else {
		c.stats.IncorrectChars++
	}
	c.stats.TotalChars++

	now := c.now()
	elapsed := now.Sub(c.lastAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	c.lastAt = now
	c.buffer = append(c.buffer, model.LetterEvent{
		Letter:    string(r),
		IsError:   !correct,
		Position:  pos,
		TimeTaken: elapsed,
	})

	if c.autoAdvance && len(c.input) == len(c.target) {
		return c.submit()
	}
	return Step{}
}

// Backspace removes the last typed rune of the current word.
func (c *Controller) Backspace() {
	if c.state != StateActive || len(c.input) == 0 {
		return
	}
	last := len(c.input) - 1
	c.input = c.input[:last]
	delete(c.status, last)
}

// End finishes the session early.
func (c *Controller) End() Step {
	if c.state != StateActive {
		return Step{}
	}
	step := Step{Batch: c.takeBatch(), Finished: true}
	c.stats.EndedAt = c.now()
	c.state = StateAbandoned
	return step
}

// Finalize stores the authoritative statistics.
func (c *Controller) Finalize(final model.FinalStats) {
	if !c.state.Terminal() {
		return
	}
	c.final = &final
	c.finalErr = nil
}

// FinalizeFailed records that final statistics could not be computed;
// provisional stats stay in place.
func (c *Controller) FinalizeFailed(err error) {
	if !c.state.Terminal() {
		return
	}
	c.finalErr = err
}

func (c *Controller) submit() Step {
	typed := string(c.input)
	correct := WordCorrect(c.words[c.index].Text, typed)
	if correct {
		c.stats.CorrectWords++
	} else {
		c.stats.IncorrectWords++
	}
	c.stats.WrittenWords++

	step := Step{Batch: c.takeBatch(), WordDone: true, WordCorrect: correct}
	c.index++
	c.lastAt = c.now()
	if c.index >= len(c.words) {
		c.input = nil
		c.target = nil
		c.status = map[int]bool{}
		c.stats.EndedAt = c.lastAt
		c.state = StateComplete
		step.Finished = true
		return step
	}
	c.resetWord()
	return step
}

func (c *Controller) takeBatch() *model.LetterBatch {
	if len(c.buffer) == 0 {
		return nil
	}
	batch := &model.LetterBatch{
		WordID:    c.words[c.index].ID,
		Letters:   c.buffer,
		SessionID: c.sessionID,
	}
	c.buffer = nil
	return batch
}

func (c *Controller) resetWord() {
	c.target = []rune(c.words[c.index].Text)
	c.input = nil
	c.status = map[int]bool{}
	c.buffer = nil
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '\n' || r == '\r' || r == '\t'
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// SessionID returns the session identifier.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Words returns the session words.
func (c *Controller) Words() []model.Word {
	return c.words
}

// Index returns the position of the current word.
func (c *Controller) Index() int {
	return c.index
}

// CurrentWord returns the word being typed.
func (c *Controller) CurrentWord() (model.Word, bool) {
	if c.state != StateActive || c.index >= len(c.words) {
		return model.Word{}, false
	}
	return c.words[c.index], true
}

// Input returns the partially typed text of the current word.
func (c *Controller) Input() string {
	return string(c.input)
}

// LetterStatus returns a copy of the per-position correctness map.
func (c *Controller) LetterStatus() map[int]bool {
	out := make(map[int]bool, len(c.status))
	for k, v := range c.status {
		out[k] = v
	}
	return out
}

// Pending returns the number of buffered, unflushed letter events.
func (c *Controller) Pending() int {
	return len(c.buffer)
}

// Stats returns the locally accumulated counts.
func (c *Controller) Stats() Stats {
	return c.stats
}

// Final returns the authoritative statistics once available.
func (c *Controller) Final() (model.FinalStats, bool) {
	if c.final == nil {
		return model.FinalStats{}, false
	}
	return *c.final, true
}

// Err returns the word retrieval error, if any.
func (c *Controller) Err() error {
	return c.err
}

// FinalErr returns the stats finalization error, if any.
func (c *Controller) FinalErr() error {
	return c.finalErr
}
