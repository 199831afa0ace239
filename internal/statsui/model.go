// Package statsui is the terminal browser for local history and server
// progress.
package statsui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/stats"
	"github.com/verte-zerg/tecla/internal/store"
)

const (
	tabOverview = iota
	tabChars
	tabCharCurves
	tabServer
	tabCount
)

var tabNames = [tabCount]string{"Overview", "Characters", "Char Curves", "Server"}

const (
	plotHeight    = 10
	topChars      = 5
	fallbackWidth = 80
)

// ProgressFunc fetches the server-side progress report.
type ProgressFunc func(ctx context.Context) (model.Progress, error)

// Options configures the stats UI.
type Options struct {
	Store  *store.Store
	Config model.StatsConfig
	// Progress is nil when no account is signed in.
	Progress ProgressFunc
	Context  context.Context
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	ctx   context.Context
	store *store.Store
	cfg   model.StatsConfig
	keys  keyMap
	help  help.Model

	report  stats.Report
	loadErr string

	server serverState
	chars  charView
	panes  [tabCount]viewport.Model
	active int

	width  int
	height int

	// At most one of these is open at a time.
	settings *settingsForm
	picker   *charPicker
}

// NewModel builds the UI and loads the local report.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		ctx:    ctx,
		store:  opts.Store,
		cfg:    opts.Config,
		keys:   defaultKeys(),
		help:   help.New(),
		server: serverState{fetch: opts.Progress},
		chars:  newCharView(),
	}
	for i := range m.panes {
		m.panes[i] = viewport.New(0, 0)
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.server.request(m.ctx)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.redraw()
	case progressMsg:
		if m.server.receive(msg) {
			m.redraw()
		}
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch {
		case m.settings != nil:
			return m, m.updateSettings(msg)
		case m.picker != nil:
			return m, m.updatePicker(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit
	case key.Matches(msg, k.Prev):
		m.switchTab(-1)
		return tea.ClearScreen
	case key.Matches(msg, k.Next):
		m.switchTab(1)
		return tea.ClearScreen
	case key.Matches(msg, k.Wider):
		m.setWindow(widenWindow(m.cfg.CurveWindow))
	case key.Matches(msg, k.Narrower):
		m.setWindow(narrowWindow(m.cfg.CurveWindow))
	case key.Matches(msg, k.Settings):
		return m.openSettings()
	case key.Matches(msg, k.Reload):
		if m.active == tabServer {
			cmd := m.server.request(m.ctx)
			m.redraw()
			return cmd
		}
	case key.Matches(msg, k.Pick):
		if m.active == tabCharCurves {
			return m.openPicker()
		}
	case key.Matches(msg, k.Top):
		if m.active == tabChars {
			m.chars.table.GotoTop()
		} else {
			m.panes[m.active].GotoTop()
		}
	case key.Matches(msg, k.Bottom):
		if m.active == tabChars {
			m.chars.table.GotoBottom()
		} else {
			m.panes[m.active].GotoBottom()
		}
	default:
		var cmd tea.Cmd
		if m.active == tabChars {
			m.chars.table, cmd = m.chars.table.Update(msg)
		} else {
			m.panes[m.active], cmd = m.panes[m.active].Update(msg)
		}
		return cmd
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.picker != nil {
		return fitBlock(m.picker.view(m.width, m.height), m.width, m.height)
	}
	head, body, foot := m.heights()
	return strings.Join([]string{
		fitBlock(m.headerView(), m.width, head),
		fitBlock(m.bodyView(), m.width, body),
		fitBlock(m.footerView(), m.width, foot),
	}, "\n")
}

// ActiveTab returns the name of the selected tab.
func (m *Model) ActiveTab() string {
	return tabNames[m.active]
}

// Config returns the filters currently applied.
func (m *Model) Config() model.StatsConfig {
	return m.cfg
}

func (m *Model) switchTab(delta int) {
	m.active = (m.active + delta + tabCount) % tabCount
	if m.active == tabChars {
		m.chars.table.Focus()
	} else {
		m.chars.table.Blur()
	}
}

func (m *Model) setWindow(n int) {
	m.cfg.CurveWindow = n
	m.reload()
	m.resize()
}

func (m *Model) heights() (head, body, foot int) {
	head = max(lipgloss.Height(activeTabStyle.Render("x")), 1) + 1
	foot = 1
	if m.settings == nil && m.loadErr != "" {
		foot++
	}
	return head, max(m.height-head-foot, 1), foot
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, body, _ := m.heights()
	for i := range m.panes {
		m.panes[i].Width = m.width
		m.panes[i].Height = body
	}
	m.chars.resize(m.width, body)
	m.help.Width = m.width
}

// reload rebuilds the local report for the current filters.
func (m *Model) reload() {
	if m.store != nil {
		report, err := stats.BuildReport(m.ctx, m.store, m.cfg)
		if err != nil {
			m.loadErr = err.Error()
			m.redraw()
			return
		}
		m.loadErr = ""
		m.report = report
	}
	if !m.chars.custom {
		m.chars.selection = stats.TopCharsByFrequency(m.report.CharAggsAll, topChars)
	}
	m.chars.table.SetRows(charRows(m.report.CharAggsAll))
	m.loadCurves()
	m.redraw()
}

func (m *Model) loadCurves() {
	m.chars.perSession, m.chars.err = nil, ""
	if m.store == nil || len(m.report.Sessions) == 0 || len(m.chars.selection) == 0 {
		return
	}
	ids := make([]int64, len(m.report.Sessions))
	for i, s := range m.report.Sessions {
		ids[i] = s.SessionID
	}
	data, err := m.store.ListCharStatsForSessions(m.ctx, ids, m.chars.selection)
	if err != nil {
		m.chars.err = err.Error()
		return
	}
	m.chars.perSession = data
}

// redraw refreshes the scrollable tab contents.
func (m *Model) redraw() {
	width := m.width
	if width <= 0 {
		width = fallbackWidth
	}
	if m.loadErr != "" {
		m.panes[tabOverview].SetContent("Failed to load stats.")
		m.panes[tabCharCurves].SetContent("Failed to load stats.")
	} else {
		m.panes[tabOverview].SetContent(overviewView(m.report.Sessions, m.cfg.CurveWindow, width))
		m.panes[tabCharCurves].SetContent(m.chars.curvesView(m.report.Sessions, m.cfg.CurveWindow, width))
	}
	m.panes[tabServer].SetContent(m.server.view(width))
}

func (m *Model) headerView() string {
	tabs := make([]string, tabCount)
	for i, name := range tabNames {
		style := tabStyle
		if i == m.active {
			style = activeTabStyle
		}
		tabs[i] = style.Render(name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n" + mutedStyle.Render(truncate(filterSummary(m.cfg), m.width))
}

func (m *Model) bodyView() string {
	switch {
	case m.settings != nil:
		return m.settings.view()
	case m.active != tabChars:
		return m.panes[m.active].View()
	case len(m.report.Sessions) == 0:
		return "No sessions found."
	case len(m.report.CharAggsAll) == 0:
		return "No character stats found."
	}
	return tableTextStyle.Render(m.chars.table.View())
}

func (m *Model) footerView() string {
	if m.settings != nil {
		return m.help.ShortHelpView(settingsKeys)
	}
	out := m.help.ShortHelpView(m.keys.forTab(m.active))
	if m.loadErr != "" {
		out += "\n" + errorStyle.Render(m.loadErr)
	}
	return out
}

func (m *Model) openSettings() tea.Cmd {
	m.settings = newSettingsForm(m.cfg, m.width)
	return m.settings.focusField(0)
}

func (m *Model) updateSettings(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.settings = nil
		return nil
	case tea.KeyEnter:
		cfg, err := m.settings.config()
		if err != nil {
			m.settings.err = err.Error()
			return nil
		}
		m.settings = nil
		m.cfg = cfg
		m.reload()
		m.resize()
		return nil
	}
	return m.settings.update(msg)
}

func (m *Model) openPicker() tea.Cmd {
	m.picker = newCharPicker(m.chars.selection, m.width)
	return m.picker.input.Focus()
}

func (m *Model) updatePicker(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.picker = nil
		return nil
	case tea.KeyEnter:
		m.chars.pick(m.picker.chars(), m.report.CharAggsAll)
		m.picker = nil
		m.loadCurves()
		m.redraw()
		return nil
	}
	return m.picker.update(msg)
}

func widenWindow(n int) int {
	if n < 5 {
		return 5
	}
	return n - n%5 + 5
}

func narrowWindow(n int) int {
	if n <= 5 {
		return 1
	}
	step := n % 5
	if step == 0 {
		step = 5
	}
	return n - step
}
