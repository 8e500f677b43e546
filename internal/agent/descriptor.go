// Package agent maps observed pane processes to known AI agent identities.
// Identification is pattern-driven: each descriptor carries fragments that
// are tested against the foreground process (and its children) and, as a
// last resort, the pane title.
package agent

// Descriptor describes one known agent and how to recognize it.
// Descriptors are immutable once loaded; iteration order is configuration
// order and ties are resolved by first match.
type Descriptor struct {
	// Name is the agent identity, e.g. "claude" or "codex".
	Name string `toml:"name" yaml:"name"`

	// Patterns are fragments matched (case-insensitively) against the
	// executable path, process name and argument vector. When empty the
	// agent's own name is used as the single pattern.
	Patterns []string `toml:"patterns" yaml:"patterns"`

	// TitlePatterns are matched against the pane title when no process
	// matches. Useful for agents that retitle the terminal instead of
	// being visible as the foreground command.
	TitlePatterns []string `toml:"title_patterns" yaml:"title_patterns"`

	// Per-status classifier overrides. Empty slices fall back to the
	// built-in defaults for that status.
	Working []string `toml:"working" yaml:"working"`
	Waiting []string `toml:"waiting" yaml:"waiting"`
	Idle    []string `toml:"idle" yaml:"idle"`

	// UseActivity opts this agent into the viewport-activity heuristic
	// that demotes a stale "working" classification when the visible
	// tail stops changing. Agents with steady spinner redraws don't
	// need it; agents that park on a static busy banner do.
	UseActivity bool `toml:"use_activity" yaml:"use_activity"`
}

// DisplayName returns a human-readable name for known agents.
func (d *Descriptor) DisplayName() string {
	if d == nil {
		return "none"
	}
	if n, ok := displayNames[d.Name]; ok {
		return n
	}
	return d.Name
}

var displayNames = map[string]string{
	"claude":   "Claude Code",
	"codex":    "Codex CLI",
	"gemini":   "Gemini CLI",
	"aider":    "Aider",
	"opencode": "OpenCode",
	"cursor":   "Cursor Agent",
}

// Builtins returns the default descriptor set, in priority order.
func Builtins() []Descriptor {
	return []Descriptor{
		{
			Name:          "claude",
			Patterns:      []string{"claude"},
			TitlePatterns: []string{"claude"},
			Waiting:       []string{"do you want to", "would you like to"},
		},
		{
			Name:          "codex",
			Patterns:      []string{"codex"},
			TitlePatterns: []string{"codex"},
			Idle:          []string{`\?\s+for\s+shortcuts`},
		},
		{
			Name:          "gemini",
			Patterns:      []string{"gemini"},
			TitlePatterns: []string{"gemini"},
		},
		{
			Name:          "aider",
			Patterns:      []string{"aider"},
			TitlePatterns: []string{"aider"},
		},
		{
			Name:          "opencode",
			Patterns:      []string{"opencode"},
			TitlePatterns: []string{"opencode"},
			UseActivity:   true,
		},
		{
			Name:          "cursor",
			Patterns:      []string{"cursor-agent", "cursor"},
			TitlePatterns: []string{"cursor"},
		},
	}
}

// Merge overlays user-supplied descriptors onto the base set. A user
// descriptor with a known name replaces the builtin in place (keeping its
// priority slot); unknown names are appended after the builtins.
func Merge(base, overrides []Descriptor) []Descriptor {
	out := make([]Descriptor, len(base))
	copy(out, base)

	index := make(map[string]int, len(out))
	for i, d := range out {
		index[d.Name] = i
	}

	for _, o := range overrides {
		if o.Name == "" {
			continue
		}
		if i, ok := index[o.Name]; ok {
			out[i] = o
			continue
		}
		index[o.Name] = len(out)
		out = append(out, o)
	}
	return out
}
