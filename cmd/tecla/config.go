package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tecla/internal/config"
)

func newConfigCmd(global *globalFlags) *cobra.Command {
	var printPath bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := global.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if err := writeTemplateIfMissing(path); err != nil {
				return err
			}
			if printPath {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
				return err
			}
			return edit(cmd, path)
		},
	}
	cmd.Flags().BoolVar(&printPath, "path", false, "create the file if needed and print its path instead of editing")
	return cmd
}

func writeTemplateIfMissing(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if err := writeConfigTemplate(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	return f.Close()
}

// edit opens path in $VISUAL or $EDITOR, falling back to vi.
func edit(cmd *cobra.Command, path string) error {
	editor := "vi"
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			editor = v
			break
		}
	}
	argv := append(strings.Fields(editor), path)
	proc := exec.CommandContext(cmd.Context(), argv[0], argv[1:]...)
	proc.Stdin = os.Stdin
	proc.Stdout = cmd.OutOrStdout()
	proc.Stderr = cmd.ErrOrStderr()
	if err := proc.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

type templateKey struct {
	key   string
	value any
	note  string
}

type templateSection struct {
	name string
	keys []templateKey
}

// configTemplate mirrors config.FileConfig with the built-in defaults.
func configTemplate() []templateSection {
	return []templateSection{
		{"api", []templateKey{
			{"url", defaultAPIURL, "API base URL, without the /api suffix"},
			{"timeout-seconds", defaultTimeout, "Request timeout"},
			{"retries", 0, "Extra attempts for failed letter uploads"},
		}},
		{"practice", []templateKey{
			{"auto-advance", true, "Submit a word once its length matches the target"},
			{"words", defaultWords, "Words per offline session"},
			{"wordlist", "", "Word list file for offline practice"},
			{"lang", defaultLang, "Word filter for the word list (en, es)"},
			{"caps", defaultCaps, "Probability of capitalized first letter (0-1)"},
			{"punct", defaultPunct, "Punctuation probability per word (0-1)"},
			{"punct-set", defaultPunctSet, ""},
			{"focus-weak", false, "Bias offline words toward weak characters"},
			{"weak-top", defaultWeakTop, "Number of weak characters to focus on"},
			{"weak-factor", defaultWeakFactor, "Weight factor for weak characters"},
			{"weak-window", defaultWeakWindow, "Number of recent sessions to compute weak chars"},
		}},
		{"log", []templateKey{
			{"level", "info", "debug, info, warn, error"},
			{"path", config.DefaultLogPath(), ""},
		}},
	}
}

func writeConfigTemplate(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "# tecla configuration\n# Uncomment a value to enable it. %s and CLI flags override config values.\n", config.APIURLEnv)
	for _, section := range configTemplate() {
		fmt.Fprintf(tw, "\n[%s]\n", section.name)
		for _, k := range section.keys {
			line := fmt.Sprintf("# %s = %s", k.key, tomlValue(k.value))
			if k.note != "" {
				line += "\t# " + k.note
			}
			fmt.Fprintln(tw, line)
		}
	}
	return tw.Flush()
}

func tomlValue(v any) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprint(v)
	}
}
