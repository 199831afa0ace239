package statsui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tecla.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func insert(t *testing.T, st *store.Store, offline bool, at time.Time) {
	t.Helper()
	rec := model.SessionRecord{
		RemoteID:       "s",
		StartedAt:      at,
		EndedAt:        at.Add(time.Minute),
		TotalWords:     20,
		WrittenWords:   20,
		CorrectWords:   18,
		IncorrectWords: 2,
		CorrectChars:   90,
		IncorrectChars: 10,
		Accuracy:       90,
		WPM:            18,
		Completed:      true,
		Offline:        offline,
		DurationMs:     time.Minute.Milliseconds(),
	}
	chars := []model.CharStats{
		{Char: "a", Correct: 40, Incorrect: 2},
		{Char: "q", Correct: 3, Incorrect: 3},
	}
	if _, err := st.InsertSession(context.Background(), rec, chars); err != nil {
		t.Fatalf("insert session: %v", err)
	}
}

func sampleProgress() model.Progress {
	return model.Progress{
		Stats: model.ProgressStats{AvgAccuracy: 93.5, BestAccuracy: 96, TotalErrors: 13, TotalSessions: 2},
		Sessions: []model.ProgressSession{
			{Date: "2026-10-01", Accuracy: 91, Details: model.ProgressDetail{Errors: 9, Letters: 100}},
			{Date: "2026-10-02", Accuracy: 96, Details: model.ProgressDetail{Errors: 4, Letters: 100}},
		},
	}
}

func TestServerTabWithoutAccount(t *testing.T) {
	m := NewModel(Options{Config: model.StatsConfig{CurveWindow: 5}})
	if cmd := m.Init(); cmd != nil {
		t.Fatalf("expected no progress request without an account")
	}
	if got := m.server.view(100); !strings.Contains(got, "tecla login") {
		t.Fatalf("expected sign-in hint, got %q", got)
	}
}

func TestServerTabLoadsProgress(t *testing.T) {
	calls := 0
	m := NewModel(Options{
		Config: model.StatsConfig{CurveWindow: 5},
		Progress: func(context.Context) (model.Progress, error) {
			calls++
			return sampleProgress(), nil
		},
	})
	cmd := m.Init()
	if cmd == nil {
		t.Fatalf("expected progress request")
	}
	if got := m.server.view(100); !strings.Contains(got, "Loading") {
		t.Fatalf("expected loading notice, got %q", got)
	}
	m.Update(cmd())
	if calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}
	got := m.server.view(100)
	for _, want := range []string{"93.5%", "2026-10-01", "2026-10-02", "Letters"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in server tab, got %q", want, got)
		}
	}
}

func TestServerTabShowsError(t *testing.T) {
	m := NewModel(Options{
		Progress: func(context.Context) (model.Progress, error) {
			return model.Progress{}, errors.New("boom")
		},
	})
	m.Update(m.Init()())
	if got := m.server.view(100); !strings.Contains(got, "Failed to load server progress: boom") {
		t.Fatalf("expected error, got %q", got)
	}
}

func TestServerReloadIgnoresStaleResult(t *testing.T) {
	m := NewModel(Options{
		Progress: func(context.Context) (model.Progress, error) {
			return sampleProgress(), nil
		},
	})
	first := m.Init()
	m.Update(first())
	for i := 0; i < 3; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	if m.ActiveTab() != "Server" {
		t.Fatalf("expected Server tab, got %s", m.ActiveTab())
	}
	_, reload := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if reload == nil {
		t.Fatalf("expected reload command")
	}
	m.Update(progressMsg{seq: 1, err: errors.New("late")})
	if m.server.err != "" {
		t.Fatalf("stale result should be ignored, got %q", m.server.err)
	}
	m.Update(reload())
	if m.server.loading {
		t.Fatalf("expected reload to finish")
	}
}

func TestOverviewAndCharacters(t *testing.T) {
	st := openStore(t)
	insert(t, st, false, time.Unix(0, 0))
	insert(t, st, true, time.Unix(3600, 0))

	m := NewModel(Options{Store: st, Config: model.StatsConfig{CurveWindow: 5}})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if len(m.report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(m.report.Sessions))
	}
	if got := m.panes[tabOverview].View(); !strings.Contains(got, "Avg WPM") {
		t.Fatalf("expected summary cards, got %q", got)
	}
	rows := m.chars.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 char rows, got %d", len(rows))
	}
	if rows[0][0] != "q" {
		t.Fatalf("expected weakest char first, got %q", rows[0][0])
	}
	if strings.Join(m.chars.selection, "") != "aq" {
		t.Fatalf("expected top chars by frequency, got %v", m.chars.selection)
	}
}

func TestSourceFilter(t *testing.T) {
	st := openStore(t)
	insert(t, st, false, time.Unix(0, 0))
	insert(t, st, true, time.Unix(3600, 0))

	m := NewModel(Options{Store: st, Config: model.StatsConfig{CurveWindow: 5}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if m.settings == nil {
		t.Fatalf("expected settings form")
	}
	m.settings.inputs[fieldSource].SetValue("offline")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.settings != nil {
		t.Fatalf("expected settings to apply, error %q", m.settings.err)
	}
	if len(m.report.Sessions) != 1 {
		t.Fatalf("expected 1 offline session, got %d", len(m.report.Sessions))
	}
	if cfg := m.Config(); cfg.Offline == nil || !*cfg.Offline {
		t.Fatalf("expected offline filter, got %+v", cfg)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m.settings.inputs[fieldSource].SetValue("somewhere")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.settings == nil || m.settings.err == "" {
		t.Fatalf("expected invalid source to keep the form open")
	}
}

func TestParseSource(t *testing.T) {
	if v, err := ParseSource(" All "); err != nil || v != nil {
		t.Fatalf("expected nil filter, got %v %v", v, err)
	}
	if v, err := ParseSource("online"); err != nil || v == nil || *v {
		t.Fatalf("expected online filter, got %v %v", v, err)
	}
	if _, err := ParseSource("cloud"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCurveWindowSteps(t *testing.T) {
	if got := widenWindow(1); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := widenWindow(7); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := narrowWindow(10); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := narrowWindow(5); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestSettingsConfig(t *testing.T) {
	f := newSettingsForm(model.StatsConfig{CurveWindow: 5}, 80)
	f.inputs[fieldSince].SetValue("2026-10-01")
	f.inputs[fieldLast].SetValue("3")
	f.inputs[fieldWindow].SetValue("")
	cfg, err := f.config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Since == nil || cfg.Since.Format(dateLayout) != "2026-10-01" || cfg.Last != 3 || cfg.CurveWindow != 1 || cfg.Offline != nil {
		t.Fatalf("unexpected config %+v", cfg)
	}
	for field, bad := range map[int]string{fieldSince: "yesterday", fieldLast: "-1", fieldWindow: "0"} {
		f := newSettingsForm(model.StatsConfig{CurveWindow: 5}, 80)
		f.inputs[field].SetValue(bad)
		if _, err := f.config(); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
	if got := filterSummary(cfg); !strings.Contains(got, "since=2026-10-01") || !strings.Contains(got, "source=all") {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestCharPicker(t *testing.T) {
	st := openStore(t)
	insert(t, st, false, time.Unix(0, 0))

	m := NewModel(Options{Store: st, Config: model.StatsConfig{CurveWindow: 5}})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.ActiveTab() != "Char Curves" {
		t.Fatalf("expected Char Curves tab, got %s", m.ActiveTab())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.picker == nil {
		t.Fatalf("expected char picker")
	}
	if view := m.View(); !strings.Contains(view, "Select Characters") {
		t.Fatalf("expected modal, got %q", view)
	}
	m.picker.input.SetValue("q, a")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.picker != nil || !m.chars.custom || strings.Join(m.chars.selection, "") != "qa" {
		t.Fatalf("unexpected selection %v", m.chars.selection)
	}
	if len(m.chars.perSession) != 1 {
		t.Fatalf("expected per-session stats, got %v", m.chars.perSession)
	}
	if got := m.chars.curvesView(m.report.Sessions, 5, 100); !strings.Contains(got, "Chars: q, a") {
		t.Fatalf("unexpected curves %q", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.picker.input.SetValue("")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.chars.custom || strings.Join(m.chars.selection, "") != "aq" {
		t.Fatalf("expected fallback to most practiced chars, got %v", m.chars.selection)
	}
}

func TestViewFillsScreen(t *testing.T) {
	m := NewModel(Options{Config: model.StatsConfig{CurveWindow: 5}})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	if lines := strings.Count(view, "\n") + 1; lines != 30 {
		t.Fatalf("expected 30 lines, got %d", lines)
	}
	for _, want := range []string{"Overview", "Settings: since=any", "prev tab"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view", want)
		}
	}
}
