package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != slog.LevelDebug {
		t.Fatalf("expected debug level")
	}
	if ParseLevel("warning") != slog.LevelWarn {
		t.Fatalf("expected warn level")
	}
	if ParseLevel("nope") != slog.LevelInfo {
		t.Fatalf("expected info fallback")
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("letters submitted", "word_id", "w1")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "letters submitted" || entry["word_id"] != "w1" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestSetupCreatesFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
	})
	path := filepath.Join(t.TempDir(), "logs", "tecla.log")
	closeFn, err := Setup(path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	slog.Info("hello")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("expected log entry, got %q", data)
	}
}
