// Package config loads and validates the watcher configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/fogmarch/agentwatch/internal/agent"
	"github.com/fogmarch/agentwatch/internal/monitor"
	"github.com/fogmarch/agentwatch/internal/notify"
	"github.com/fogmarch/agentwatch/internal/status"
)

// Config is the full configuration surface. Durations are plain
// millisecond integers in the file; zero means "use the default".
type Config struct {
	PollIntervalMs   int                `toml:"poll_interval_ms"`
	CaptureLines     int                `toml:"capture_lines"`
	CooldownMs       int                `toml:"cooldown_ms"`
	CacheTTLMs       int                `toml:"cache_ttl_ms"`
	IdleWindow       int                `toml:"idle_window"`
	WaitingWindow    int                `toml:"waiting_window"`
	WorkingWindow    int                `toml:"working_window"`
	StaleThresholdMs int                `toml:"stale_threshold_ms"`
	Session          string             `toml:"session"`
	Notifications    NotificationConfig `toml:"notifications"`
	Agents           []agent.Descriptor `toml:"agents"`
}

// NotificationConfig controls attention notifications.
type NotificationConfig struct {
	Enabled  bool `toml:"enabled"`
	MinGapMs int  `toml:"min_gap_ms"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "agentwatch", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "agentwatch", "config.toml")
}

// AgentsPath returns the path of the optional YAML agent descriptor file
// that sits next to the config file.
func AgentsPath() string {
	return filepath.Join(filepath.Dir(DefaultPath()), "agents.yaml")
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		PollIntervalMs:   2000,
		CaptureLines:     100,
		CooldownMs:       int(monitor.DefaultCooldown / time.Millisecond),
		CacheTTLMs:       int(agent.DefaultCacheTTL / time.Millisecond),
		IdleWindow:       status.DefaultWindows().Idle,
		WaitingWindow:    status.DefaultWindows().Waiting,
		WorkingWindow:    status.DefaultWindows().Working,
		StaleThresholdMs: int(monitor.DefaultStaleThreshold / time.Millisecond),
		Notifications: NotificationConfig{
			Enabled:  true,
			MinGapMs: int(notify.DefaultMinGap / time.Millisecond),
		},
	}
}

// Load reads the config file, fills in defaults for missing values, and
// corrects invalid ones. A missing file yields the defaults. Warnings
// describe every corrected option; loading never fails on bad values,
// only on an unreadable or unparsable file.
func Load(path string) (*Config, []Warning, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil, nil
		}
		return nil, nil, err
	}

	// Seed with defaults so options absent from the file keep their
	// default instead of decaying to the zero value.
	cfg := *Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	validated, warnings := cfg.Validate()
	return &validated, warnings, nil
}

// PollInterval returns the polling interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Cooldown returns the working→idle debounce window as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownMs) * time.Millisecond
}

// CacheTTL returns the identification cache lifetime as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMs) * time.Millisecond
}

// StaleThreshold returns the viewport-activity staleness threshold.
func (c *Config) StaleThreshold() time.Duration {
	return time.Duration(c.StaleThresholdMs) * time.Millisecond
}

// MinGap returns the minimum gap between notifications per surface.
func (c *Config) MinGap() time.Duration {
	return time.Duration(c.Notifications.MinGapMs) * time.Millisecond
}

// Windows returns the classifier window sizes.
func (c *Config) Windows() status.Windows {
	return status.Windows{
		Idle:    c.IdleWindow,
		Waiting: c.WaitingWindow,
		Working: c.WorkingWindow,
	}
}

// Descriptors merges built-in agent descriptors with the config's
// [[agents]] overrides and, when present, the agents.yaml file.
func (c *Config) Descriptors() ([]agent.Descriptor, error) {
	merged := agent.Merge(agent.Builtins(), c.Agents)
	fromFile, err := agent.LoadFile(AgentsPath())
	if err != nil {
		return merged, err
	}
	return agent.Merge(merged, fromFile), nil
}

// CreateDefault writes a commented default config file, refusing to
// overwrite an existing one.
func CreateDefault() (string, error) {
	path := DefaultPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Print(Default(), f); err != nil {
		return "", err
	}
	return path, nil
}

// Print writes cfg to w as a commented TOML document.
func Print(cfg *Config, w io.Writer) error {
	fmt.Fprintln(w, "# agentwatch configuration")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# How often panes are scanned, in milliseconds.")
	fmt.Fprintf(w, "poll_interval_ms = %d\n", cfg.PollIntervalMs)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# Lines of scrollback captured per pane.")
	fmt.Fprintf(w, "capture_lines = %d\n", cfg.CaptureLines)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# Working→idle transitions must persist this long before committing.")
	fmt.Fprintf(w, "cooldown_ms = %d\n", cfg.CooldownMs)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# How long a resolved agent identity is reused before re-inspection.")
	fmt.Fprintf(w, "cache_ttl_ms = %d\n", cfg.CacheTTLMs)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# Lines inspected for idle prompts, waiting prompts, working markers.")
	fmt.Fprintf(w, "idle_window = %d\n", cfg.IdleWindow)
	fmt.Fprintf(w, "waiting_window = %d\n", cfg.WaitingWindow)
	fmt.Fprintf(w, "working_window = %d\n", cfg.WorkingWindow)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# Unchanged-viewport threshold for agents using the activity heuristic.")
	fmt.Fprintf(w, "stale_threshold_ms = %d\n", cfg.StaleThresholdMs)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# Limit watching to one tmux session (empty watches all).")
	fmt.Fprintf(w, "session = %q\n", cfg.Session)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[notifications]")
	fmt.Fprintf(w, "enabled = %t\n", cfg.Notifications.Enabled)
	fmt.Fprintln(w, "# Minimum gap between notifications for the same pane.")
	fmt.Fprintf(w, "min_gap_ms = %d\n", cfg.Notifications.MinGapMs)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# Agent descriptor overrides. A descriptor with a built-in name")
	fmt.Fprintln(w, "# replaces the built-in; a new name adds an agent.")
	fmt.Fprintln(w, "#")
	fmt.Fprintln(w, "# [[agents]]")
	fmt.Fprintln(w, "# name = \"claude\"")
	fmt.Fprintln(w, "# patterns = [\"claude\"]")
	fmt.Fprintln(w, "# waiting = ['allow this tool']")
	return nil
}
