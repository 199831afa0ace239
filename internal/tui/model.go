// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tecla/internal/api"
	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/session"
	statsPkg "github.com/verte-zerg/tecla/internal/stats"
	"github.com/verte-zerg/tecla/internal/store"
)

// Options wires the typing screen to its collaborators.
type Options struct {
	Config   model.Config
	Provider session.Provider
	Sink     session.Sink
	// Store records finished sessions; nil disables history.
	Store *store.Store
	// NewSession allocates a session id; nil disables restarting.
	NewSession func(ctx context.Context) (string, error)
	Clock      func() time.Time
	Context    context.Context
}

type sessionCreatedMsg struct {
	id  string
	err error
}

type wordsLoadedMsg struct {
	sessionID string
	words     []model.Word
	err       error
}

type lettersDeliveredMsg struct {
	sessionID string
	err       error
}

type finalStatsMsg struct {
	sessionID string
	final     model.FinalStats
	err       error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	opts Options
	ctx  context.Context
	ctrl *session.Controller

	width  int
	height int

	results  []bool
	letters  []model.LetterEvent
	inflight int

	awaitingFinal  bool
	finalRequested bool
	recorded       bool
	creating       bool

	notice string

	lastWPM float64
	lastAcc float64
	hasLast bool
	allWPM  float64
	allAcc  float64
	all     model.SessionAggregate
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	correctStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	doneCorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#389E0D"))
	doneIncorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CF1322"))
	cursorStyle        = pendingStyle.Underline(true)
	footerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	resultValueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
)

const instructions = "Type the words shown. Correct letters turn green and incorrect ones red."

// NewModel constructs a typing TUI model.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{opts: opts, ctx: ctx}
	m.ctrl = m.newController()
	m.loadFooterStats()
	return m
}

func (m *Model) newController() *session.Controller {
	ctrlOpts := []session.Option{session.WithAutoAdvance(m.opts.Config.AutoAdvance)}
	if m.opts.Clock != nil {
		ctrlOpts = append(ctrlOpts, session.WithClock(m.opts.Clock))
	}
	return session.NewController(ctrlOpts...)
}

// Controller exposes the session state machine.
func (m *Model) Controller() *session.Controller {
	return m.ctrl
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if id := m.opts.Config.SessionID; id != "" {
		return m.begin(id)
	}
	return m.createSession()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case sessionCreatedMsg:
		m.creating = false
		if msg.err != nil {
			m.notice = "Could not start a session: " + describe(msg.err)
			return m, nil
		}
		return m, m.begin(msg.id)
	case wordsLoadedMsg:
		return m, m.handleWords(msg)
	case lettersDeliveredMsg:
		if msg.sessionID != m.ctrl.SessionID() {
			return m, nil
		}
		m.inflight--
		return m, m.maybeRequestFinal()
	case finalStatsMsg:
		m.handleFinal(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting()
		return m, tea.Quit
	}

	state := m.ctrl.State()
	if state != session.StateActive {
		if state.Terminal() || state == session.StateFailed || (state == session.StateIdle && !m.creating) {
			switch msg.String() {
			case "q":
				m.quitting()
				return m, tea.Quit
			case "r", "enter":
				return m, m.restart()
			}
		}
		return m, nil
	}

	var steps []session.Step
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.ctrl.Backspace()
	case tea.KeyCtrlE:
		steps = append(steps, m.ctrl.End())
	case tea.KeySpace:
		steps = append(steps, m.ctrl.Type(' '))
	case tea.KeyEnter:
		steps = append(steps, m.ctrl.Type('\n'))
	case tea.KeyTab:
		steps = append(steps, m.ctrl.Type('\t'))
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			steps = append(steps, m.ctrl.Type(r))
		}
	}
	return m, m.handleSteps(steps)
}

func (m *Model) handleSteps(steps []session.Step) tea.Cmd {
	var cmds []tea.Cmd
	for _, step := range steps {
		if step.WordDone {
			m.results = append(m.results, step.WordCorrect)
		}
		if step.Batch != nil {
			m.letters = append(m.letters, step.Batch.Letters...)
			m.inflight++
			cmds = append(cmds, m.deliver(*step.Batch))
		}
		if step.Finished {
			m.awaitingFinal = true
		}
	}
	cmds = append(cmds, m.maybeRequestFinal())
	return tea.Batch(cmds...)
}

// maybeRequestFinal asks for final statistics once the session is over and
// every letter batch has been answered.
func (m *Model) maybeRequestFinal() tea.Cmd {
	if !m.awaitingFinal || m.finalRequested || m.inflight > 0 {
		return nil
	}
	m.finalRequested = true
	sessionID := m.ctrl.SessionID()
	sink := m.opts.Sink
	ctx := m.ctx
	return func() tea.Msg {
		final, err := sink.CompleteSession(ctx, sessionID)
		return finalStatsMsg{sessionID: sessionID, final: final, err: err}
	}
}

func (m *Model) deliver(batch model.LetterBatch) tea.Cmd {
	sink := m.opts.Sink
	retries := m.opts.Config.Retries
	ctx := m.ctx
	return func() tea.Msg {
		err := api.Deliver(ctx, sink, batch, retries)
		return lettersDeliveredMsg{sessionID: batch.SessionID, err: err}
	}
}

func (m *Model) createSession() tea.Cmd {
	if m.opts.NewSession == nil {
		m.notice = "No session to practice."
		return nil
	}
	m.creating = true
	newSession := m.opts.NewSession
	ctx := m.ctx
	return func() tea.Msg {
		id, err := newSession(ctx)
		return sessionCreatedMsg{id: id, err: err}
	}
}

func (m *Model) begin(sessionID string) tea.Cmd {
	if err := m.ctrl.Begin(sessionID); err != nil {
		m.notice = "Could not start a session: " + err.Error()
		return nil
	}
	provider := m.opts.Provider
	ctx := m.ctx
	return func() tea.Msg {
		words, err := provider.SessionWords(ctx, sessionID)
		return wordsLoadedMsg{sessionID: sessionID, words: words, err: err}
	}
}

func (m *Model) handleWords(msg wordsLoadedMsg) tea.Cmd {
	if msg.sessionID != m.ctrl.SessionID() {
		return nil
	}
	if msg.err != nil {
		err := fmt.Errorf("failed to load session words: %w", msg.err)
		slog.Error("word retrieval failed", "session_id", msg.sessionID, "error", msg.err)
		m.ctrl.Fail(err)
		m.notice = "Could not load the words: " + describe(msg.err)
		return nil
	}
	if err := m.ctrl.Load(msg.words); err != nil {
		slog.Error("session has no words", "session_id", msg.sessionID, "error", err)
		m.notice = "The session has no words to type."
		return nil
	}
	m.notice = ""
	return nil
}

func (m *Model) handleFinal(msg finalStatsMsg) {
	if msg.sessionID != m.ctrl.SessionID() {
		return
	}
	if msg.err != nil {
		slog.Error("final statistics failed", "session_id", msg.sessionID, "error", msg.err)
		m.ctrl.FinalizeFailed(msg.err)
		m.notice = "Could not get final statistics; showing local results. " + describe(msg.err)
	} else {
		m.ctrl.Finalize(msg.final)
	}
	m.record()
}

func (m *Model) restart() tea.Cmd {
	if m.opts.NewSession == nil || m.creating {
		return nil
	}
	if m.ctrl.State().Terminal() {
		m.record()
	}
	m.ctrl = m.newController()
	m.results = nil
	m.letters = nil
	m.inflight = 0
	m.awaitingFinal = false
	m.finalRequested = false
	m.recorded = false
	m.notice = ""
	return m.createSession()
}

func (m *Model) quitting() {
	if m.ctrl.State().Terminal() {
		m.record()
	}
}

// Record builds the local history entry for the finished session.
func (m *Model) Record() (model.SessionRecord, []model.CharStats) {
	st := m.ctrl.Stats()
	rec := model.SessionRecord{
		RemoteID:       m.ctrl.SessionID(),
		StartedAt:      st.StartedAt,
		EndedAt:        st.EndedAt,
		TotalWords:     st.TotalWords,
		WrittenWords:   st.WrittenWords,
		CorrectWords:   st.CorrectWords,
		IncorrectWords: st.IncorrectWords,
		CorrectChars:   st.CorrectChars,
		IncorrectChars: st.IncorrectChars,
		Accuracy:       st.Accuracy(),
		Completed:      m.ctrl.State() == session.StateComplete,
		Offline:        m.opts.Config.Offline,
		DurationMs:     st.EndedAt.Sub(st.StartedAt).Milliseconds(),
	}
	if final, ok := m.ctrl.Final(); ok {
		rec.TotalWords = final.TotalWords
		rec.WrittenWords = final.WrittenWords
		rec.CorrectWords = final.CorrectWords
		rec.IncorrectWords = final.IncorrectWords
		rec.CorrectChars = final.CorrectChars
		rec.IncorrectChars = final.IncorrectChars
		rec.Accuracy = final.Accuracy
		rec.Completed = final.IsCompleted
	}
	rec.WPM = session.CalculateWPM(rec.CorrectWords, st.StartedAt, st.EndedAt)
	return rec, statsPkg.CharStatsFromLetters(m.letters)
}

// record stores the finished session once. Sessions without a single
// keystroke are not recorded.
func (m *Model) record() {
	if m.recorded || m.opts.Store == nil {
		return
	}
	m.recorded = true
	if m.ctrl.Stats().TotalChars == 0 {
		return
	}
	rec, chars := m.Record()
	if _, err := m.opts.Store.InsertSession(m.ctx, rec, chars); err != nil {
		slog.Error("failed to save session", "session_id", rec.RemoteID, "error", err)
		m.notice = "Could not save the session to local history."
		return
	}
	m.lastWPM, _, m.lastAcc = statsPkg.SessionMetrics(aggregateOf(rec))
	m.hasLast = true
	m.addToAllTime(aggregateOf(rec))
}

func aggregateOf(rec model.SessionRecord) model.SessionAggregate {
	return model.SessionAggregate{
		RemoteID:     rec.RemoteID,
		EndedAt:      rec.EndedAt,
		CorrectWords: rec.CorrectWords,
		Correct:      rec.CorrectChars,
		Incorrect:    rec.IncorrectChars,
		DurationMs:   rec.DurationMs,
		Completed:    rec.Completed,
	}
}

func (m *Model) loadFooterStats() {
	if m.opts.Store == nil {
		return
	}
	offline := m.opts.Config.Offline
	sessions, err := m.opts.Store.ListSessions(m.ctx, model.StatsConfig{Offline: &offline})
	if err != nil {
		slog.Warn("failed to load session stats", "error", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM, _, m.lastAcc = statsPkg.SessionMetrics(last)
	m.hasLast = true
	for _, s := range sessions {
		m.addToAllTime(s)
	}
}

func (m *Model) addToAllTime(s model.SessionAggregate) {
	m.all.CorrectWords += s.CorrectWords
	m.all.Correct += s.Correct
	m.all.Incorrect += s.Incorrect
	m.all.DurationMs += s.DurationMs
	m.allWPM, _, m.allAcc = statsPkg.SessionMetrics(m.all)
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch state := m.ctrl.State(); {
	case state == session.StateActive:
		body = m.renderActive()
	case state.Terminal():
		body = m.renderResults()
	case state == session.StateFailed:
		body = pendingStyle.Render("Press r to try again or q to quit.")
	default:
		body = pendingStyle.Render("Loading words...")
	}

	contentWidth := m.contentWidth()
	lines := []string{
		titleStyle.Render("Typing Practice"),
		pendingStyle.Render(instructions),
		"",
		body,
	}
	if m.notice != "" {
		lines = append(lines, "", noticeStyle.Render(m.notice))
	}
	content := strings.Join(lines, "\n")
	if m.width == 0 || m.height == 0 {
		if footer := m.renderFooter(); footer != "" {
			content += "\n\n" + footer
		}
		return content
	}
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) renderActive() string {
	words := m.ctrl.Words()
	strip := wrapCells(stripCells(words, m.results, m.ctrl.Index()), m.contentWidth())
	current, _ := m.ctrl.CurrentWord()
	word := joinCells(wordCells([]rune(current.Text), []rune(m.ctrl.Input()), m.ctrl.LetterStatus()))
	position := fmt.Sprintf("Word %d of %d", m.ctrl.Index()+1, len(words))
	return strings.Join([]string{
		strip,
		"",
		"  " + word,
		"",
		footerStyle.Render(position + "  ·  ctrl+e to finish early"),
	}, "\n")
}

func (m *Model) renderResults() string {
	st := m.ctrl.Stats()
	wpm := st.WPM()
	acc := st.Accuracy()
	correct := st.CorrectWords
	total := st.TotalWords
	heading := "Session results (local, provisional)"
	final, ok := m.ctrl.Final()
	switch {
	case ok:
		heading = "Session results"
		acc = final.Accuracy
		correct = final.CorrectWords
		total = final.TotalWords
		wpm = session.CalculateWPM(final.CorrectWords, st.StartedAt, st.EndedAt)
	case m.ctrl.FinalErr() == nil:
		heading += "; waiting for final statistics"
	}
	if m.ctrl.State() == session.StateAbandoned {
		heading += ", ended early"
	}
	lines := []string{
		titleStyle.Render(heading),
		"",
		fmt.Sprintf("WPM       %s", resultValueStyle.Render(fmt.Sprintf("%d", wpm))),
		fmt.Sprintf("Accuracy  %s", resultValueStyle.Render(fmt.Sprintf("%d%%", acc))),
		fmt.Sprintf("Words     %s", resultValueStyle.Render(fmt.Sprintf("%d/%d correct", correct, total))),
		"",
	}
	hint := "q to quit"
	if m.opts.NewSession != nil {
		hint = "r for a new session  ·  " + hint
	}
	lines = append(lines, footerStyle.Render(hint))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var segments []string
	if m.ctrl.State() == session.StateActive {
		st := m.ctrl.Stats()
		segments = append(segments, fmt.Sprintf("Now %d%% accuracy", st.Accuracy()))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc*100))
		segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc*100))
	}
	if len(segments) == 0 {
		return ""
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

// Summary is a plain-text line describing the last session, for printing
// after the program exits.
func (m *Model) Summary() string {
	state := m.ctrl.State()
	if !state.Terminal() {
		return ""
	}
	rec, _ := m.Record()
	kind := "provisional"
	if _, ok := m.ctrl.Final(); ok {
		kind = "final"
	}
	return fmt.Sprintf("Session %s: %d WPM, %d%% accuracy, %d/%d words correct (%s)",
		state, rec.WPM, rec.Accuracy, rec.CorrectWords, rec.TotalWords, kind)
}

func describe(err error) string {
	if errors.Is(err, api.ErrUnauthorized) {
		return "your login expired; run `tecla login`."
	}
	return api.Message(err)
}
