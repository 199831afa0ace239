package statsui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tecla/internal/model"
)

const dateLayout = "2006-01-02"

const (
	fieldSince = iota
	fieldLast
	fieldWindow
	fieldSource
	fieldCount
)

var fieldPrompts = [fieldCount]string{
	fieldSince:  "Since (YYYY-MM-DD): ",
	fieldLast:   "Last: ",
	fieldWindow: "Curve window: ",
	fieldSource: "Source (all/online/offline): ",
}

// settingsForm edits the history filters.
type settingsForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
}

func newSettingsForm(cfg model.StatsConfig, width int) *settingsForm {
	values := [fieldCount]string{
		fieldWindow: strconv.Itoa(cfg.CurveWindow),
		fieldSource: sourceName(cfg.Offline),
	}
	if cfg.Since != nil {
		values[fieldSince] = cfg.Since.Format(dateLayout)
	}
	if cfg.Last > 0 {
		values[fieldLast] = strconv.Itoa(cfg.Last)
	}
	f := &settingsForm{}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = fieldPrompts[i]
		in.SetValue(values[i])
		in.Width = max(10, width-lipgloss.Width(in.Prompt)-2)
		f.inputs[i] = in
	}
	return f
}

func (f *settingsForm) focusField(i int) tea.Cmd {
	f.focus = (i%fieldCount + fieldCount) % fieldCount
	for j := range f.inputs {
		if j != f.focus {
			f.inputs[j].Blur()
		}
	}
	return f.inputs[f.focus].Focus()
}

func (f *settingsForm) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		return f.focusField(f.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return f.focusField(f.focus - 1)
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *settingsForm) value(field int) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

// config parses the form. Empty fields mean no filter, and an empty window
// disables smoothing.
func (f *settingsForm) config() (model.StatsConfig, error) {
	cfg := model.StatsConfig{CurveWindow: 1}
	if v := f.value(fieldSince); v != "" {
		since, err := time.ParseInLocation(dateLayout, v, time.Local)
		if err != nil {
			return model.StatsConfig{}, errors.New("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &since
	}
	if v := f.value(fieldLast); v != "" {
		last, err := strconv.Atoi(v)
		if err != nil || last < 0 {
			return model.StatsConfig{}, errors.New("invalid last value (use 0 or a positive integer)")
		}
		cfg.Last = last
	}
	if v := f.value(fieldWindow); v != "" {
		window, err := strconv.Atoi(v)
		if err != nil || window < 1 {
			return model.StatsConfig{}, errors.New("invalid curve window (use an integer >= 1)")
		}
		cfg.CurveWindow = window
	}
	offline, err := ParseSource(f.value(fieldSource))
	if err != nil {
		return model.StatsConfig{}, err
	}
	cfg.Offline = offline
	return cfg, nil
}

func (f *settingsForm) view() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}

func filterSummary(cfg model.StatsConfig) string {
	since, last := "any", "all"
	if cfg.Since != nil {
		since = cfg.Since.Format(dateLayout)
	}
	if cfg.Last > 0 {
		last = strconv.Itoa(cfg.Last)
	}
	return fmt.Sprintf("Settings: since=%s  last=%s  window=%d  source=%s", since, last, cfg.CurveWindow, sourceName(cfg.Offline))
}

// ParseSource maps all, online or offline onto the session source filter.
func ParseSource(input string) (*bool, error) {
	var offline bool
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "all":
		return nil, nil
	case "online":
	case "offline":
		offline = true
	default:
		return nil, fmt.Errorf("invalid source %q (use all, online or offline)", input)
	}
	return &offline, nil
}

func sourceName(offline *bool) string {
	switch {
	case offline == nil:
		return "all"
	case *offline:
		return "offline"
	}
	return "online"
}
