package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fogmarch/agentwatch/internal/poll"
	"github.com/fogmarch/agentwatch/internal/status"
	"github.com/fogmarch/agentwatch/internal/tmux"
)

func newStatusCmd() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a one-shot status table for all panes",
		Long: `Status performs a single scan and prints one row per pane with the
detected agent and its current status.

Examples:
  agentwatch status
  agentwatch status --session myproject`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tmux.IsInstalled() {
				return fmt.Errorf("tmux not found; agentwatch watches tmux panes")
			}

			runCfg := *cfg
			if session != "" {
				runCfg.Session = session
			}
			descriptors, err := runCfg.Descriptors()
			if err != nil {
				return fmt.Errorf("loading agent descriptors: %w", err)
			}

			// One shot: no notifications, no event stream.
			p := poll.New(&runCfg, descriptors, nil, nil)
			snap, err := p.RunOnce(context.Background())
			if err != nil {
				return err
			}

			printStatusTable(snap)
			return nil
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "scan only this tmux session")
	return cmd
}

func printStatusTable(snap poll.Snapshot) {
	if len(snap.Panes) == 0 {
		fmt.Println("No panes found.")
		return
	}

	width := 80
	if isatty.IsTerminal(os.Stdout.Fd()) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	paneWidth, agentWidth := 4, 5
	for _, row := range snap.Panes {
		if w := runewidth.StringWidth(row.Pane.Target()); w > paneWidth {
			paneWidth = w
		}
		if w := runewidth.StringWidth(row.Agent.DisplayName()); w > agentWidth {
			agentWidth = w
		}
	}
	titleWidth := width - paneWidth - agentWidth - 18
	if titleWidth < 10 {
		titleWidth = 10
	}

	bold := lipgloss.NewStyle().Bold(true)
	fmt.Println(bold.Render(fmt.Sprintf("%-*s  %-*s  %-10s  %s",
		paneWidth, "PANE", agentWidth, "AGENT", "STATUS", "TITLE")))

	for _, row := range snap.Panes {
		fmt.Printf("%-*s  %-*s  %-10s  %s\n",
			paneWidth, row.Pane.Target(),
			agentWidth, row.Agent.DisplayName(),
			string(row.Status),
			truncate.StringWithTail(row.Pane.Title, uint(titleWidth), "…"))
	}

	fmt.Println()
	fmt.Printf("%d working, %d waiting, %d idle, %d inactive\n",
		snap.Counts[status.StatusWorking],
		snap.Counts[status.StatusWaiting],
		snap.Counts[status.StatusIdle],
		snap.Inactive())
}

func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List known agent descriptors",
		Long: `Agents prints every descriptor the watcher recognizes: the built-in
set merged with [[agents]] overrides from the config file and entries
from agents.yaml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptors, err := cfg.Descriptors()
			if err != nil {
				return fmt.Errorf("loading agent descriptors: %w", err)
			}

			bold := lipgloss.NewStyle().Bold(true)
			for _, d := range descriptors {
				fmt.Println(bold.Render(d.Name) + "  (" + d.DisplayName() + ")")
				if len(d.Patterns) > 0 {
					fmt.Printf("  patterns:       %s\n", strings.Join(d.Patterns, ", "))
				}
				if len(d.TitlePatterns) > 0 {
					fmt.Printf("  title patterns: %s\n", strings.Join(d.TitlePatterns, ", "))
				}
				if len(d.Working) > 0 {
					fmt.Printf("  working:        %s\n", strings.Join(d.Working, ", "))
				}
				if len(d.Waiting) > 0 {
					fmt.Printf("  waiting:        %s\n", strings.Join(d.Waiting, ", "))
				}
				if len(d.Idle) > 0 {
					fmt.Printf("  idle:           %s\n", strings.Join(d.Idle, ", "))
				}
				if d.UseActivity {
					fmt.Println("  activity heuristic: on")
				}
				fmt.Println()
			}
			return nil
		},
	}
}
