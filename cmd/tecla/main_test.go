package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tecla/internal/apitest"
	"github.com/verte-zerg/tecla/internal/config"
	"github.com/verte-zerg/tecla/internal/model"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv(config.APIURLEnv, "")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoginWhoamiProgressLogout(t *testing.T) {
	isolate(t)
	backend := apitest.New(t, "uno", "dos")

	out, err := execute(t, "login", "--api-url", backend.URL, "--email", "ana@example.com", "--password", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as ana.") {
		t.Fatalf("unexpected login output %q", out)
	}

	out, err = execute(t, "whoami", "--api-url", backend.URL)
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "ana <ana@example.com>") {
		t.Fatalf("unexpected whoami output %q", out)
	}

	out, err = execute(t, "login", "--api-url", backend.URL, "--email", "ana@example.com", "--password", "secret")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if !strings.Contains(out, "Already logged in as ana") {
		t.Fatalf("expected guest guard, got %q", out)
	}

	out, err = execute(t, "progress", "--api-url", backend.URL, "--limit", "1")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if !strings.Contains(out, "Server Progress") || !strings.Contains(out, "2026-10-02") || strings.Contains(out, "2026-10-01") {
		t.Fatalf("unexpected progress output %q", out)
	}

	out, err = execute(t, "logout", "--api-url", backend.URL)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out, "Logged out.") {
		t.Fatalf("unexpected logout output %q", out)
	}

	if _, err := execute(t, "whoami", "--api-url", backend.URL); err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("expected not logged in error, got %v", err)
	}
}

func TestExpiredTokenLogsOut(t *testing.T) {
	isolate(t)
	backend := apitest.New(t)
	if _, err := execute(t, "login", "--api-url", backend.URL, "--email", "ana@example.com", "--password", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	backend.SetExpireToken(true)
	out, err := execute(t, "progress", "--api-url", backend.URL)
	if err == nil {
		t.Fatalf("expected progress to fail")
	}
	if !strings.Contains(out, "Run `tecla login` to continue.") {
		t.Fatalf("expected login hint after rejected token, got %q", out)
	}
	out, err = execute(t, "logout", "--api-url", backend.URL)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out, "Not logged in.") {
		t.Fatalf("expected stored login to be cleared, got %q", out)
	}
}

func TestLoginErrors(t *testing.T) {
	isolate(t)
	backend := apitest.New(t)

	_, err := execute(t, "login", "--api-url", backend.URL, "--email", "not-an-email", "--password", "secret")
	if err == nil || !strings.Contains(err.Error(), "email") {
		t.Fatalf("expected email validation error, got %v", err)
	}

	_, err = execute(t, "login", "--api-url", backend.URL, "--email", "ana@example.com", "--password", "wrong")
	if err == nil || !strings.Contains(err.Error(), "invalid credentials") {
		t.Fatalf("expected server message, got %v", err)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	dir := isolate(t)
	backend := apitest.New(t)
	path := filepath.Join(dir, "tecla.toml")
	if err := os.WriteFile(path, []byte("[api]\nurl = \"http://127.0.0.1:1\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.APIURLEnv, backend.URL)

	out, err := execute(t, "login", "--config", path, "--email", "ana@example.com", "--password", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as ana.") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPracticeRequiresLogin(t *testing.T) {
	isolate(t)
	backend := apitest.New(t, "uno")
	_, err := execute(t, "--api-url", backend.URL)
	if err == nil || !strings.Contains(err.Error(), "tecla login") {
		t.Fatalf("expected login hint, got %v", err)
	}
}

func TestPracticeConfigPrecedence(t *testing.T) {
	cmd := &cobra.Command{Use: "tecla"}
	flags := &practiceFlags{}
	flags.register(cmd)
	if err := cmd.ParseFlags([]string{"--words", "5", "--offline"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	words := 12
	caps := 0.3
	autoAdvance := false
	file := config.PracticeConfig{Words: &words, CapsPct: &caps, AutoAdvance: &autoAdvance}

	cfg := practiceConfig(cmd, flags, file)
	if cfg.Words != 5 {
		t.Fatalf("expected flag to win, got %d words", cfg.Words)
	}
	if cfg.CapsPct != 0.3 {
		t.Fatalf("expected file caps, got %v", cfg.CapsPct)
	}
	if cfg.AutoAdvance {
		t.Fatalf("expected file to disable auto-advance")
	}
	if !cfg.Offline || cfg.PunctSet != defaultPunctSet {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestValidateConfig(t *testing.T) {
	base := model.Config{Words: 20, PunctSet: defaultPunctSet}
	if err := validateConfig(base); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	cases := map[string]model.Config{
		"session": {Words: 20, Offline: true, SessionID: "abc"},
		"words":   {Words: 0},
		"caps":    {Words: 20, CapsPct: 1.5},
		"punct":   {Words: 20, PunctPct: 0.5},
		"retries": {Words: 20, Retries: -1},
	}
	for name, cfg := range cases {
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestHistoryAndExportEmpty(t *testing.T) {
	dir := isolate(t)
	out, err := execute(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No sessions found.") {
		t.Fatalf("unexpected history output %q", out)
	}

	path := filepath.Join(dir, "out.xlsx")
	out, err = execute(t, "export", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Exported 0 sessions") {
		t.Fatalf("unexpected export output %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected workbook: %v", err)
	}

	if _, err := execute(t, "history", "--source", "cloud"); err == nil {
		t.Fatalf("expected invalid source error")
	}
}

func TestConfigTemplateDecodes(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.toml")
	out, err := execute(t, "config", "--path", "--config", path)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Fatalf("expected path output, got %q", out)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	uncommented := strings.ReplaceAll(string(raw), "\n# ", "\n")
	uncommented = strings.Replace(uncommented, "# tecla configuration\n", "", 1)
	lines := strings.Split(uncommented, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "Uncomment") {
			lines[i] = ""
		}
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("decode uncommented template: %v", err)
	}
	if cfg.API.URL == nil || *cfg.API.URL != defaultAPIURL {
		t.Fatalf("unexpected api url %v", cfg.API.URL)
	}
	if cfg.Practice.Words == nil || *cfg.Practice.Words != defaultWords {
		t.Fatalf("unexpected words %v", cfg.Practice.Words)
	}
}

func TestTomlValue(t *testing.T) {
	cases := map[string]any{
		`"en"`:   "en",
		"0.0":    0.0,
		"2.5":    2.5,
		"20":     20,
		"true":   true,
		`"a\"b"`: `a"b`,
	}
	for want, v := range cases {
		if got := tomlValue(v); got != want {
			t.Fatalf("tomlValue(%v) = %s, want %s", v, got, want)
		}
	}
}

func TestLoginWithToken(t *testing.T) {
	isolate(t)
	backend := apitest.New(t)
	out, err := execute(t, "login", "--api-url", backend.URL, "--token", apitest.Token)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Token stored.") {
		t.Fatalf("unexpected login output %q", out)
	}
	out, err = execute(t, "whoami", "--api-url", backend.URL)
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "Logged in (no profile stored).") {
		t.Fatalf("unexpected whoami output %q", out)
	}
}

func TestAutoAdvanceUsage(t *testing.T) {
	cmd := &cobra.Command{Use: "tecla"}
	(&practiceFlags{}).register(cmd)
	usage := cmd.Flags().Lookup("auto-advance").Usage
	if !strings.Contains(usage, "length matches the target") {
		t.Fatalf("unexpected auto-advance usage %q", usage)
	}
}
