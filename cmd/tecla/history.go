package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tecla/internal/api"
	"github.com/verte-zerg/tecla/internal/export"
	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/stats"
	"github.com/verte-zerg/tecla/internal/statsui"
)

const plotHeight = 10

// historyFlags filter the local session history.
type historyFlags struct {
	since       string
	last        int
	curveWindow int
	source      string
}

func (f *historyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.since, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.last, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&f.curveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&f.source, "source", "all", "sessions to include: all, online or offline")
}

func (f *historyFlags) statsConfig() (model.StatsConfig, error) {
	var since *time.Time
	if f.since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", f.since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		since = &parsed
	}
	if f.last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if f.curveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	offline, err := statsui.ParseSource(f.source)
	if err != nil {
		return model.StatsConfig{}, err
	}
	return model.StatsConfig{
		Since:       since,
		Last:        f.last,
		CurveWindow: f.curveWindow,
		Offline:     offline,
	}, nil
}

func newProgressCmd(global *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show your progress as recorded by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must be >= 0")
			}
			a, err := openApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireAuth(); err != nil {
				return err
			}
			p, err := a.progress(cmd.Context(), limit)
			if err != nil {
				a.followRedirect(cmd.ErrOrStderr())
				return err
			}
			return stats.RenderProgress(cmd.OutOrStdout(), p, 0, plotHeight, false)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "only the last N sessions (0 for all)")
	return cmd
}

func (a *app) progress(ctx context.Context, limit int) (model.Progress, error) {
	user, ok := a.auth.User()
	if !ok {
		return model.Progress{}, fmt.Errorf("no stored profile; run `tecla login` again")
	}
	p, err := a.client.Progress(ctx, user.ID, limit)
	if err != nil {
		return model.Progress{}, fmt.Errorf("failed to load progress: %s", api.Message(err))
	}
	return p, nil
}

func newHistoryCmd(global *globalFlags) *cobra.Command {
	flags := &historyFlags{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the local session history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.statsConfig()
			if err != nil {
				return err
			}
			a, err := openApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.Close()
			report, err := stats.BuildReport(cmd.Context(), a.store, cfg)
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			return stats.RenderReport(cmd.OutOrStdout(), report, cfg.CurveWindow, 0, plotHeight, false)
		},
	}
	flags.register(cmd)
	return cmd
}

func newStatsCmd(global *globalFlags) *cobra.Command {
	flags := &historyFlags{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse local history and server progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.statsConfig()
			if err != nil {
				return err
			}
			a, err := openApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.Close()
			opts := statsui.Options{Store: a.store, Config: cfg, Context: cmd.Context()}
			if a.auth.IsAuthenticated() {
				opts.Progress = func(ctx context.Context) (model.Progress, error) {
					return a.progress(ctx, 0)
				}
			}
			program := tea.NewProgram(statsui.NewModel(opts), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("failed to run stats TUI: %w", err)
			}
			a.followRedirect(cmd.ErrOrStderr())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newExportCmd(global *globalFlags) *cobra.Command {
	flags := &historyFlags{}
	cmd := &cobra.Command{
		Use:   "export [file.xlsx]",
		Short: "Export the local session history to a spreadsheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "tecla-history.xlsx"
			if len(args) == 1 {
				path = args[0]
			}
			cfg, err := flags.statsConfig()
			if err != nil {
				return err
			}
			a, err := openApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.Close()
			summary, err := export.SaveFile(cmd.Context(), a.store, cfg, path)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sessions and %d characters to %s\n", summary.Sessions, summary.Characters, path)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}
