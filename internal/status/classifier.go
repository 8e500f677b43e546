package status

import (
	"strings"

	"github.com/fogmarch/agentwatch/internal/agent"
	"github.com/fogmarch/agentwatch/internal/termtext"
)

// Classifier assigns a Status to normalized pane text. Checks run in
// strict priority order and short-circuit: idle beats waiting beats
// working, and the fallback for an identified agent is always idle, never
// inactive.
type Classifier struct {
	idle    []agent.Matcher
	waiting []agent.Matcher
	working []agent.Matcher

	// Per-agent additions keyed by descriptor name. Overrides extend the
	// defaults rather than replacing them; the built-in prompt and
	// confirmation patterns stay live for every agent.
	overrides map[string]overrideSet

	windows Windows
}

type overrideSet struct {
	idle    []agent.Matcher
	waiting []agent.Matcher
	working []agent.Matcher
}

// NewClassifier compiles the default pattern tables plus any per-agent
// overrides carried by the descriptors.
func NewClassifier(descriptors []agent.Descriptor, windows Windows) *Classifier {
	if windows.Idle <= 0 {
		windows.Idle = DefaultWindows().Idle
	}
	if windows.Waiting <= 0 {
		windows.Waiting = DefaultWindows().Waiting
	}
	if windows.Working <= 0 {
		windows.Working = DefaultWindows().Working
	}

	c := &Classifier{
		idle:      agent.CompileAll(defaultIdlePatterns),
		waiting:   agent.CompileAll(defaultWaitingPatterns),
		working:   agent.CompileAll(defaultWorkingPatterns),
		overrides: make(map[string]overrideSet, len(descriptors)),
		windows:   windows,
	}

	for _, d := range descriptors {
		if len(d.Idle) == 0 && len(d.Waiting) == 0 && len(d.Working) == 0 {
			continue
		}
		c.overrides[d.Name] = overrideSet{
			idle:    agent.CompileAll(d.Idle),
			waiting: agent.CompileAll(d.Waiting),
			working: agent.CompileAll(d.Working),
		}
	}

	return c
}

// Classify returns the raw status for a surface given its normalized
// text. A nil descriptor means no agent is present and yields
// StatusInactive without inspecting the text at all.
func (c *Classifier) Classify(text string, desc *agent.Descriptor) Status {
	if desc == nil {
		return StatusInactive
	}

	var ov overrideSet
	if desc.Name != "" {
		ov = c.overrides[desc.Name]
	}

	// A ready prompt at the bottom of the screen wins over everything
	// else. This runs before the waiting/working checks so a stale busy
	// banner higher up can't outlive the agent's return to its prompt.
	for _, line := range termtext.LastLines(text, c.windows.Idle) {
		if isBarePrompt(line) || agent.MatchAny(line, c.idle) || agent.MatchAny(line, ov.idle) {
			return StatusIdle
		}
	}

	// Waiting outranks working: a permission prompt is an action item
	// even while a spinner is still visible above it.
	for _, line := range termtext.LastLines(text, c.windows.Waiting) {
		if agent.MatchAny(line, c.waiting) || agent.MatchAny(line, ov.waiting) {
			return StatusWaiting
		}
	}

	for _, line := range termtext.LastLines(text, c.windows.Working) {
		if agent.MatchAny(line, c.working) || agent.MatchAny(line, ov.working) {
			return StatusWorking
		}
	}

	// Default safe state. Once an agent is identified the classifier
	// never reports inactive on its own.
	return StatusIdle
}

// isBarePrompt reports whether a trimmed line is the agent's input
// prompt: a lone ">" or ">" followed by typed text.
func isBarePrompt(line string) bool {
	return line == ">" || strings.HasPrefix(line, "> ")
}
