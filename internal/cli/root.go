// Package cli wires the commands together.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fogmarch/agentwatch/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config

	// Version is set by goreleaser.
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "agentwatch",
	Short: "Watch AI coding agents running in tmux panes",
	Long: `agentwatch scans your tmux panes, figures out which AI coding agents
(Claude, Codex, Gemini, Aider, ...) are running where, and tracks whether
each one is working, waiting for your input, or idle.

Quick Start:
  agentwatch status              # One-shot status table
  agentwatch watch               # Live dashboard
  agentwatch watch --jsonl       # Stream transition events as JSONL
  agentwatch agents              # Show known agent descriptors`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "completion" {
			return nil
		}

		var warnings []config.Warning
		var err error
		cfg, warnings, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			slog.Warn("config corrected", "option", w.Option, "reason", w.Reason)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/agentwatch/config.toml)")

	rootCmd.AddCommand(
		newWatchCmd(),
		newStatusCmd(),
		newAgentsCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("agentwatch version %s\n", Version)
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefault()
			if err != nil {
				return err
			}
			fmt.Printf("Created config file: %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.DefaultPath())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Print(cfg, os.Stdout)
		},
	})

	return cmd
}
