package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.API.URL != nil || cfg.Practice.Words != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[api]
url = "https://typing.example.com"
retries = 2

[practice]
words = 30
auto-advance = false
focus-weak = true
weak-factor = 1.5

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.URL == nil || *cfg.API.URL != "https://typing.example.com" {
		t.Fatalf("unexpected api url: %v", cfg.API.URL)
	}
	if cfg.API.Retries == nil || *cfg.API.Retries != 2 {
		t.Fatalf("unexpected retries: %v", cfg.API.Retries)
	}
	if cfg.Practice.Words == nil || *cfg.Practice.Words != 30 {
		t.Fatalf("unexpected words: %v", cfg.Practice.Words)
	}
	if cfg.Practice.AutoAdvance == nil || *cfg.Practice.AutoAdvance {
		t.Fatalf("unexpected auto-advance: %v", cfg.Practice.AutoAdvance)
	}
	if cfg.Practice.FocusWeak == nil || !*cfg.Practice.FocusWeak {
		t.Fatalf("unexpected focus-weak: %v", cfg.Practice.FocusWeak)
	}
	if cfg.Practice.WeakFactor == nil || *cfg.Practice.WeakFactor != 1.5 {
		t.Fatalf("unexpected weak-factor: %v", cfg.Practice.WeakFactor)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadEnvAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(APIURLEnv+"=http://localhost:9000\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv(APIURLEnv, "")
	if err := os.Unsetenv(APIURLEnv); err != nil {
		t.Fatalf("unset env: %v", err)
	}
	if err := LoadEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("load env: %v", err)
	}
	var cfg FileConfig
	cfg.ApplyEnv()
	if cfg.API.URL == nil || *cfg.API.URL != "http://localhost:9000" {
		t.Fatalf("expected env override, got %v", cfg.API.URL)
	}
}

func TestLoadConfigReportsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nwords = 10\ncolour = \"red\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Unknown) != 1 || cfg.Unknown[0] != "practice.colour" {
		t.Fatalf("unexpected unknown keys %v", cfg.Unknown)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	cases := map[string]string{
		DefaultConfigPath(): filepath.Join(dir, "cfg", "tecla", "config.toml"),
		DefaultEnvPath():    filepath.Join(dir, "cfg", "tecla", ".env"),
		DefaultDBPath():     filepath.Join(dir, "data", "tecla", "tecla.db"),
		DefaultLogPath():    filepath.Join(dir, "state", "tecla", "tecla.log"),
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}

func TestDefaultPathsFallBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "")
	if got, want := DefaultDBPath(), filepath.Join(home, ".local", "share", "tecla", "tecla.db"); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
