package config

import (
	"strings"
	"testing"

	"github.com/fogmarch/agentwatch/internal/agent"
)

func TestValidateNegativeCooldown(t *testing.T) {
	cfg := *Default()
	cfg.CooldownMs = -1

	validated, warnings := cfg.Validate()

	if validated.CooldownMs != Default().CooldownMs {
		t.Errorf("CooldownMs = %d, want default %d", validated.CooldownMs, Default().CooldownMs)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if warnings[0].Option != "cooldown_ms" {
		t.Errorf("warning option = %q, want cooldown_ms", warnings[0].Option)
	}
}

func TestValidateZeroFillsDefaultsSilently(t *testing.T) {
	validated, warnings := Config{}.Validate()

	if len(warnings) != 0 {
		t.Fatalf("zero config should not warn, got %v", warnings)
	}
	def := Default()
	if validated.PollIntervalMs != def.PollIntervalMs ||
		validated.CaptureLines != def.CaptureLines ||
		validated.IdleWindow != def.IdleWindow ||
		validated.WaitingWindow != def.WaitingWindow ||
		validated.WorkingWindow != def.WorkingWindow ||
		validated.Notifications.MinGapMs != def.Notifications.MinGapMs {
		t.Errorf("zero config did not fill defaults: %+v", validated)
	}
}

func TestValidateMultipleBadValues(t *testing.T) {
	cfg := Config{
		PollIntervalMs: -100,
		CaptureLines:   -5,
		CacheTTLMs:     -1,
	}

	validated, warnings := cfg.Validate()

	if len(warnings) != 3 {
		t.Fatalf("got %d warnings, want 3: %v", len(warnings), warnings)
	}
	def := Default()
	if validated.PollIntervalMs != def.PollIntervalMs {
		t.Errorf("PollIntervalMs = %d, want %d", validated.PollIntervalMs, def.PollIntervalMs)
	}
	if validated.CaptureLines != def.CaptureLines {
		t.Errorf("CaptureLines = %d, want %d", validated.CaptureLines, def.CaptureLines)
	}
}

func TestValidateIdleWindowWiderThanWaiting(t *testing.T) {
	cfg := *Default()
	cfg.IdleWindow = 50 // waiting stays at the default 30

	validated, warnings := cfg.Validate()

	if validated.IdleWindow != Default().IdleWindow {
		t.Errorf("IdleWindow = %d, want default %d", validated.IdleWindow, Default().IdleWindow)
	}
	if len(warnings) != 1 || warnings[0].Option != "idle_window" {
		t.Fatalf("expected one idle_window warning, got %v", warnings)
	}
}

func TestValidateDropsNamelessAgents(t *testing.T) {
	cfg := *Default()
	cfg.Agents = []agent.Descriptor{
		{Patterns: []string{"mystery"}},
		{Name: "myagent", Patterns: []string{"myagent"}},
	}

	validated, warnings := cfg.Validate()

	if len(validated.Agents) != 1 || validated.Agents[0].Name != "myagent" {
		t.Errorf("Agents = %+v, want only myagent", validated.Agents)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Reason, "without a name") {
		t.Fatalf("expected nameless-agent warning, got %v", warnings)
	}
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	agents := []agent.Descriptor{
		{Patterns: []string{"mystery"}},
		{Name: "myagent"},
	}
	cfg := Config{Agents: agents}

	validated, _ := cfg.Validate()

	if len(validated.Agents) != 1 {
		t.Fatalf("validated Agents = %+v, want 1 entry", validated.Agents)
	}
	// The caller's slice must be untouched by the filtering.
	if agents[0].Name != "" || len(agents[0].Patterns) != 1 {
		t.Errorf("input slice mutated: %+v", agents)
	}
	if agents[1].Name != "myagent" {
		t.Errorf("input slice mutated: %+v", agents)
	}
}

func TestWarningString(t *testing.T) {
	w := Warning{Option: "cooldown_ms", Reason: "must be positive, using default 1500"}
	if got := w.String(); !strings.Contains(got, "cooldown_ms") {
		t.Errorf("String() = %q, should mention the option", got)
	}
}
