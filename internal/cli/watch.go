package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fogmarch/agentwatch/internal/config"
	"github.com/fogmarch/agentwatch/internal/notify"
	"github.com/fogmarch/agentwatch/internal/poll"
	"github.com/fogmarch/agentwatch/internal/tmux"
	"github.com/fogmarch/agentwatch/internal/tui"
)

func newWatchCmd() *cobra.Command {
	var (
		jsonl      bool
		noTUI      bool
		session    string
		intervalMs int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously watch agent status",
		Long: `Watch scans panes on an interval and tracks each agent's status.

By default it opens a live dashboard. With --jsonl it instead streams
transition events (agent_detected, status_changed, attention_needed,
agent_finished) to stdout, one JSON object per line, for consumption by
scripts and other tools. In headless modes the config file is watched
and changes take effect without a restart.

Examples:
  agentwatch watch
  agentwatch watch --session myproject
  agentwatch watch --jsonl | jq 'select(.type == "attention_needed")'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tmux.IsInstalled() {
				return fmt.Errorf("tmux not found; agentwatch watches tmux panes")
			}

			// Flag overrides are re-applied on every config reload.
			apply := func(c config.Config) config.Config {
				if session != "" {
					c.Session = session
				}
				if intervalMs > 0 {
					c.PollIntervalMs = intervalMs
				}
				return c
			}

			var events io.Writer
			if jsonl {
				events = os.Stdout
			}

			build := func(c *config.Config) (*poll.Poller, error) {
				runCfg := apply(*c)
				descriptors, err := runCfg.Descriptors()
				if err != nil {
					return nil, fmt.Errorf("loading agent descriptors: %w", err)
				}
				return poll.New(&runCfg, descriptors, notify.NewDesktopSender(), events), nil
			}

			if jsonl || noTUI {
				return runHeadless(cfg, build)
			}

			p, err := build(cfg)
			if err != nil {
				return err
			}
			runCfg := apply(*cfg)
			return tui.Run(p, runCfg.PollInterval())
		},
	}

	cmd.Flags().BoolVar(&jsonl, "jsonl", false, "stream transition events as JSONL instead of the dashboard")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "run without the dashboard (events are still tracked and notified)")
	cmd.Flags().StringVar(&session, "session", "", "watch only this tmux session")
	cmd.Flags().IntVar(&intervalMs, "interval", 0, "polling interval in milliseconds (overrides config)")

	return cmd
}

// runHeadless runs the poll loop until interrupted, rebuilding the
// poller whenever the config file changes. Rebuilding resets tracked
// state; the next tick re-detects every agent.
func runHeadless(initial *config.Config, build func(*config.Config) (*poll.Poller, error)) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reload := make(chan *config.Config, 1)
	stopWatch, err := config.Watch(cfgFile, func(c *config.Config) {
		select {
		case reload <- c:
		default:
		}
	})
	if err != nil {
		// Hot-reload is best effort; a missing watcher is not fatal.
		slog.Warn("config watching unavailable", "error", err)
	} else {
		defer stopWatch()
	}

	current := initial
	for {
		p, err := build(current)
		if err != nil {
			return err
		}

		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			done <- p.Run(runCtx, nil)
		}()

		select {
		case c := <-reload:
			cancel()
			<-done
			slog.Info("config reloaded")
			current = c
		case err := <-done:
			cancel()
			return ignoreCanceled(err)
		}
	}
}

// ignoreCanceled maps a cancellation, wrapped or not, to a clean exit;
// being interrupted is the normal way to stop watching.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
