// Package main provides the CLI entrypoint for tecla.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tecla/internal/api"
	"github.com/verte-zerg/tecla/internal/auth"
	"github.com/verte-zerg/tecla/internal/config"
	"github.com/verte-zerg/tecla/internal/generator"
	"github.com/verte-zerg/tecla/internal/logging"
	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/offline"
	"github.com/verte-zerg/tecla/internal/stats"
	"github.com/verte-zerg/tecla/internal/store"
	"github.com/verte-zerg/tecla/internal/tui"
	"github.com/verte-zerg/tecla/internal/wordlist"
)

const (
	defaultAPIURL      = "http://localhost:3000"
	defaultLang        = "en"
	defaultWords       = offline.DefaultWords
	defaultCaps        = 0.0
	defaultPunct       = 0.0
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
	defaultTimeout     = 15
)

const defaultPunctSet = ".,!?;:\"'()-"

// globalFlags are shared by every command.
type globalFlags struct {
	apiURL     string
	configPath string
}

type practiceFlags struct {
	offline     bool
	sessionID   string
	words       int
	autoAdvance bool
	retries     int
	caps        float64
	punct       float64
	punctSet    string
	wordList    string
	lang        string
	focusWeak   bool
	weakTop     int
	weakFactor  float64
	weakWindow  int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	global := &globalFlags{}
	practice := &practiceFlags{}
	rootCmd := &cobra.Command{
		Use:           "tecla",
		Short:         "Terminal typing practice backed by your account",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPractice(cmd, global, practice)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&global.apiURL, "api-url", defaultAPIURL, "API base URL (env "+config.APIURLEnv+")")
	pf.StringVar(&global.configPath, "config", "", "config file path (default "+config.DefaultConfigPath()+")")

	practice.register(rootCmd)

	rootCmd.AddCommand(newLoginCmd(global))
	rootCmd.AddCommand(newRegisterCmd(global))
	rootCmd.AddCommand(newLogoutCmd(global))
	rootCmd.AddCommand(newForgotPasswordCmd(global))
	rootCmd.AddCommand(newResetPasswordCmd(global))
	rootCmd.AddCommand(newWhoamiCmd(global))
	rootCmd.AddCommand(newProgressCmd(global))
	rootCmd.AddCommand(newHistoryCmd(global))
	rootCmd.AddCommand(newStatsCmd(global))
	rootCmd.AddCommand(newExportCmd(global))
	rootCmd.AddCommand(newConfigCmd(global))

	return rootCmd
}

func (p *practiceFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&p.offline, "offline", false, "practice with local words, without the server")
	f.StringVar(&p.sessionID, "session", "", "resume an existing server session by id")
	f.IntVar(&p.words, "words", defaultWords, "words per offline session")
	f.BoolVar(&p.autoAdvance, "auto-advance", true, "submit a word once its length matches the target")
	f.IntVar(&p.retries, "retries", 0, "extra attempts for failed letter uploads")
	f.Float64Var(&p.caps, "caps", defaultCaps, "probability of capitalized first letter (0-1, offline)")
	f.Float64Var(&p.punct, "punct", defaultPunct, "punctuation probability per word (0-1, offline)")
	f.StringVar(&p.punctSet, "punct-set", defaultPunctSet, "punctuation set (offline)")
	f.StringVar(&p.wordList, "wordlist", "", "word list file, one word per line (offline)")
	f.StringVar(&p.lang, "lang", defaultLang, "word filter for the word list: en or es (offline)")
	f.BoolVar(&p.focusWeak, "focus-weak", false, "bias offline words toward weak characters")
	f.IntVar(&p.weakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	f.Float64Var(&p.weakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	f.IntVar(&p.weakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak chars")
}

// app holds the resources shared by commands.
type app struct {
	file     config.FileConfig
	store    *store.Store
	auth     *auth.State
	client   *api.Client
	retries  int
	closeLog func() error

	mu       sync.Mutex
	redirect auth.Signal
}

func openApp(cmd *cobra.Command, global *globalFlags) (*app, error) {
	configPath := global.configPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	if err := config.LoadEnv(".env", config.DefaultEnvPath()); err != nil {
		return nil, err
	}
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg.ApplyEnv()

	logPath := config.DefaultLogPath()
	if fileCfg.Log.Path != nil && *fileCfg.Log.Path != "" {
		logPath = *fileCfg.Log.Path
	}
	level := "info"
	if fileCfg.Log.Level != nil {
		level = *fileCfg.Log.Level
	}
	closeLog, err := logging.Setup(logPath, logging.ParseLevel(level))
	if err != nil {
		return nil, err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	a := &app{file: fileCfg, store: st, closeLog: closeLog}

	a.auth = auth.New(st)
	if err := a.auth.Hydrate(cmd.Context()); err != nil {
		slog.Warn("failed to restore login", "error", err)
	}

	apiURL := global.apiURL
	applyStringConfig(cmd, "api-url", &apiURL, fileCfg.API.URL)
	timeout := defaultTimeout
	if fileCfg.API.TimeoutSeconds != nil && *fileCfg.API.TimeoutSeconds > 0 {
		timeout = *fileCfg.API.TimeoutSeconds
	}
	if fileCfg.API.Retries != nil {
		a.retries = *fileCfg.API.Retries
	}
	a.client, err = api.New(apiURL, a.auth,
		api.WithTimeout(time.Duration(timeout)*time.Second),
		api.WithUnauthorizedHandler(func() {
			a.setRedirect(a.auth.Logout(context.Background()))
		}),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	if len(fileCfg.Unknown) > 0 {
		slog.Warn("ignoring unknown config keys", "path", configPath, "keys", fileCfg.Unknown)
	}
	slog.Debug("command started", "command", cmd.CommandPath(), "api_url", apiURL)
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("failed to close db", "error", err)
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

func (a *app) setRedirect(sig auth.Signal) {
	a.mu.Lock()
	a.redirect = sig
	a.mu.Unlock()
}

// followRedirect tells the user where a signal raised during the command
// points. It reports whether there was one.
func (a *app) followRedirect(w io.Writer) bool {
	a.mu.Lock()
	sig := a.redirect
	a.redirect = auth.Signal{}
	a.mu.Unlock()
	if sig.Redirect != auth.RouteLogin {
		return false
	}
	_, _ = fmt.Fprintln(w, "The server rejected your login, so it was cleared. Run `tecla login` to continue.")
	return true
}

// requireAuth turns a redirect signal into a command error.
func (a *app) requireAuth() error {
	if sig := a.auth.RequireAuth(); sig.Redirect != auth.RouteNone {
		return errors.New("not logged in; run `tecla login` first")
	}
	return nil
}

func runPractice(cmd *cobra.Command, global *globalFlags, flags *practiceFlags) error {
	a, err := openApp(cmd, global)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := practiceConfig(cmd, flags, a.file.Practice)
	if !cmd.Flags().Changed("retries") {
		cfg.Retries = a.retries
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	opts := tui.Options{
		Config:  cfg,
		Store:   a.store,
		Context: cmd.Context(),
	}
	if cfg.Offline {
		provider, err := offlineProvider(cmd.Context(), cmd, a.store, cfg)
		if err != nil {
			return err
		}
		opts.Provider = provider
		opts.Sink = offline.NewSink(provider)
		opts.NewSession = func(context.Context) (string, error) {
			return provider.NewSession(), nil
		}
	} else {
		if err := a.requireAuth(); err != nil {
			return err
		}
		opts.Provider = a.client
		opts.Sink = a.client
		opts.NewSession = func(ctx context.Context) (string, error) {
			id, err := a.client.CreateSession(ctx)
			if err != nil {
				return "", err
			}
			if err := a.auth.SetSessionData(ctx, id); err != nil {
				slog.Warn("failed to remember session", "session_id", id, "error", err)
			}
			return id, nil
		}
	}

	m := tui.NewModel(opts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if summary := m.Summary(); summary != "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), summary)
	}
	a.followRedirect(cmd.ErrOrStderr())
	return nil
}

// practiceConfig merges flags over the [practice] section of the config
// file. Flags set on the command line always win.
func practiceConfig(cmd *cobra.Command, flags *practiceFlags, file config.PracticeConfig) model.Config {
	f := *flags
	applyIntConfig(cmd, "words", &f.words, file.Words)
	applyFloatConfig(cmd, "caps", &f.caps, file.CapsPct)
	applyFloatConfig(cmd, "punct", &f.punct, file.PunctPct)
	applyStringConfig(cmd, "punct-set", &f.punctSet, file.PunctSet)
	applyBoolConfig(cmd, "auto-advance", &f.autoAdvance, file.AutoAdvance)
	applyStringConfig(cmd, "wordlist", &f.wordList, file.WordList)
	applyStringConfig(cmd, "lang", &f.lang, file.Lang)
	applyBoolConfig(cmd, "focus-weak", &f.focusWeak, file.FocusWeak)
	applyIntConfig(cmd, "weak-top", &f.weakTop, file.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &f.weakFactor, file.WeakFactor)
	applyIntConfig(cmd, "weak-window", &f.weakWindow, file.WeakWindow)

	return model.Config{
		Offline:      f.offline,
		SessionID:    strings.TrimSpace(f.sessionID),
		Words:        f.words,
		CapsPct:      f.caps,
		PunctPct:     f.punct,
		PunctSet:     f.punctSet,
		WordListPath: f.wordList,
		Lang:         f.lang,
		AutoAdvance:  f.autoAdvance,
		Retries:      f.retries,
		FocusWeak:    f.focusWeak,
		WeakTop:      f.weakTop,
		WeakFactor:   f.weakFactor,
		WeakWindow:   f.weakWindow,
	}
}

func offlineProvider(ctx context.Context, cmd *cobra.Command, st *store.Store, cfg model.Config) (*offline.Provider, error) {
	words, err := wordlist.Resolve(cfg.WordListPath, wordlist.FilterForLang(cfg.Lang))
	if err != nil {
		return nil, fmt.Errorf("failed to load word list: %w", err)
	}
	provider := offline.NewProvider(generator.New(), words, cfg.Words, generator.Options{
		CapsPct:  cfg.CapsPct,
		PunctPct: cfg.PunctPct,
		PunctSet: []rune(cfg.PunctSet),
	})
	if !cfg.FocusWeak {
		return provider, nil
	}
	aggs, err := st.GetWeakChars(ctx, cfg.WeakWindow)
	if err != nil {
		slog.Error("failed to load weak chars", "error", err)
		return provider, nil
	}
	weak := stats.SelectWeakChars(aggs, cfg.WeakTop)
	if len(weak) == 0 {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "no stats available for weak-char focus yet; using normal word sampling")
		return provider, nil
	}
	provider.FocusOn(weak, cfg.WeakFactor)
	return provider, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Offline && cfg.SessionID != "" {
		return fmt.Errorf("--session cannot be used with --offline")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.Retries < 0 {
		return fmt.Errorf("--retries must be >= 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
