package config

import (
	"fmt"

	"github.com/fogmarch/agentwatch/internal/agent"
)

// Warning records one corrected configuration option.
type Warning struct {
	Option string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("config: %s %s", w.Option, w.Reason)
}

// Validate returns a copy of c with every out-of-range option replaced
// by its default, plus a warning per correction. Zero values mean "not
// set" and are filled in silently; only explicitly bad values warn.
// Validation never fails: a config full of garbage still produces a
// usable result.
func (c Config) Validate() (Config, []Warning) {
	def := Default()
	var warnings []Warning

	correct := func(field *int, defVal int, option string) {
		switch {
		case *field == 0:
			*field = defVal
		case *field < 0:
			warnings = append(warnings, Warning{
				Option: option,
				Reason: fmt.Sprintf("must be positive, using default %d", defVal),
			})
			*field = defVal
		}
	}

	correct(&c.PollIntervalMs, def.PollIntervalMs, "poll_interval_ms")
	correct(&c.CaptureLines, def.CaptureLines, "capture_lines")
	correct(&c.CooldownMs, def.CooldownMs, "cooldown_ms")
	correct(&c.CacheTTLMs, def.CacheTTLMs, "cache_ttl_ms")
	correct(&c.IdleWindow, def.IdleWindow, "idle_window")
	correct(&c.WaitingWindow, def.WaitingWindow, "waiting_window")
	correct(&c.WorkingWindow, def.WorkingWindow, "working_window")
	correct(&c.StaleThresholdMs, def.StaleThresholdMs, "stale_threshold_ms")
	correct(&c.Notifications.MinGapMs, def.Notifications.MinGapMs, "notifications.min_gap_ms")

	// An idle window wider than the waiting window would let prompt
	// detection short-circuit waiting prompts that scrolled past it.
	if c.IdleWindow > c.WaitingWindow {
		warnings = append(warnings, Warning{
			Option: "idle_window",
			Reason: fmt.Sprintf("wider than waiting_window, using default %d", def.IdleWindow),
		})
		c.IdleWindow = def.IdleWindow
	}

	// The receiver copies the slice header only; filtering must not write
	// through to the caller's backing array.
	kept := make([]agent.Descriptor, 0, len(c.Agents))
	for _, d := range c.Agents {
		if d.Name == "" {
			warnings = append(warnings, Warning{
				Option: "agents",
				Reason: "descriptor without a name ignored",
			})
			continue
		}
		kept = append(kept, d)
	}
	c.Agents = kept

	return c, warnings
}
