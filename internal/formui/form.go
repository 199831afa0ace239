// Package formui provides the Bubble Tea account forms.
package formui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tecla/internal/api"
	"github.com/verte-zerg/tecla/internal/validate"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	formStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(1, 2)
)

// Values holds form input keyed by field name.
type Values map[string]string

// Field describes one input.
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Password    bool
	CharLimit   int
	Value       string
}

// Layout describes a form.
type Layout struct {
	Title       string
	Fields      []Field
	SubmitLabel string
	Validate    func(Values) validate.FieldErrors
	// Submit runs the request and returns the server message.
	Submit func(ctx context.Context, values Values) (string, error)
}

type submitResultMsg struct {
	message string
	err     error
}

// Model implements a Bubble Tea form.
type Model struct {
	layout  Layout
	ctx     context.Context
	inputs  []textinput.Model
	touched []bool
	index   int

	submitting bool
	submitted  bool
	cancelled  bool
	message    string
	serverErr  string

	width  int
	height int
}

// New builds a form from layout.
func New(ctx context.Context, layout Layout) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		layout:  layout,
		ctx:     ctx,
		inputs:  make([]textinput.Model, len(layout.Fields)),
		touched: make([]bool, len(layout.Fields)),
	}
	for i, f := range layout.Fields {
		input := textinput.New()
		input.Prompt = "> "
		input.Placeholder = f.Placeholder
		input.CharLimit = f.CharLimit
		input.Cursor.SetMode(cursor.CursorBlink)
		if f.Password {
			input.EchoMode = textinput.EchoPassword
			input.EchoCharacter = '•'
		}
		input.SetValue(f.Value)
		m.inputs[i] = input
	}
	m.index = m.firstEmpty()
	return m
}

func (m *Model) firstEmpty() int {
	for i, input := range m.inputs {
		if input.Value() == "" {
			return i
		}
	}
	return 0
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.setIndex(m.index))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case submitResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.serverErr = api.Message(msg.err)
			return m, nil
		}
		m.submitted = true
		m.message = msg.message
		return m, tea.Quit
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	var cmd tea.Cmd
	if len(m.inputs) > 0 {
		m.inputs[m.index], cmd = m.inputs[m.index].Update(msg)
	}
	return m, cmd
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	}
	if m.submitting {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		return m, m.setIndex(m.index + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setIndex(m.index - 1)
	case tea.KeyEnter:
		if m.index < len(m.inputs)-1 {
			return m, m.setIndex(m.index + 1)
		}
		return m, m.submit()
	}
	var cmd tea.Cmd
	m.inputs[m.index], cmd = m.inputs[m.index].Update(msg)
	m.serverErr = ""
	return m, cmd
}

func (m *Model) setIndex(idx int) tea.Cmd {
	count := len(m.inputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	if idx != m.index {
		m.touched[m.index] = true
	}
	m.index = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.index {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) submit() tea.Cmd {
	for i := range m.touched {
		m.touched[i] = true
	}
	values := m.Values()
	if m.layout.Validate != nil {
		if errs := m.layout.Validate(values); len(errs) > 0 {
			for i, f := range m.layout.Fields {
				if _, bad := errs[f.Name]; bad {
					return m.setIndex(i)
				}
			}
			return nil
		}
	}
	if m.layout.Submit == nil {
		m.submitted = true
		return tea.Quit
	}
	m.submitting = true
	m.serverErr = ""
	submit := m.layout.Submit
	ctx := m.ctx
	return func() tea.Msg {
		message, err := submit(ctx, values)
		return submitResultMsg{message: message, err: err}
	}
}

// Values returns the current input values, trimmed except for passwords.
func (m *Model) Values() Values {
	values := make(Values, len(m.inputs))
	for i, f := range m.layout.Fields {
		v := m.inputs[i].Value()
		if !f.Password {
			v = strings.TrimSpace(v)
		}
		values[f.Name] = v
	}
	return values
}

// Submitted reports whether the form was accepted by the server.
func (m *Model) Submitted() bool {
	return m.submitted
}

// Cancelled reports whether the user left the form.
func (m *Model) Cancelled() bool {
	return m.cancelled
}

// Message returns the server message of a successful submission.
func (m *Model) Message() string {
	return m.message
}

func (m *Model) fieldErrors() validate.FieldErrors {
	if m.layout.Validate == nil {
		return nil
	}
	return m.layout.Validate(m.Values())
}

// View implements tea.Model.
func (m *Model) View() string {
	errs := m.fieldErrors()
	lines := []string{titleStyle.Render(m.layout.Title), ""}
	for i, f := range m.layout.Fields {
		label := labelStyle.Render(f.Label)
		if i == m.index {
			label = focusStyle.Render(f.Label)
		}
		lines = append(lines, label, m.inputs[i].View())
		if msg, bad := errs[f.Name]; bad && m.touched[i] {
			lines = append(lines, errorStyle.Render(msg))
		}
		lines = append(lines, "")
	}
	switch {
	case m.submitting:
		lines = append(lines, helpStyle.Render("Sending..."))
	case m.serverErr != "":
		lines = append(lines, errorStyle.Render(m.serverErr))
	case m.submitted && m.message != "":
		lines = append(lines, successStyle.Render(m.message))
	}
	submitLabel := m.layout.SubmitLabel
	if submitLabel == "" {
		submitLabel = "submit"
	}
	lines = append(lines, helpStyle.Render("tab/shift+tab move · enter on last field to "+submitLabel+" · esc cancel"))
	form := formStyle.Render(strings.Join(lines, "\n"))
	if m.width == 0 || m.height == 0 {
		return form
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}
