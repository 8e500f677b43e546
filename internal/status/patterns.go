package status

// Default classification patterns, shared by every agent unless a
// descriptor adds its own. Fragments compile as case-insensitive regexes
// and degrade to literal substring matches when they fail to compile.
//
// These are tuned against real captures of Claude Code, Codex CLI, Gemini
// CLI and Aider. False "working" positives are cheap (the debounce layer
// smooths them); false "idle" negatives are costly because they strand a
// finished pane in "working", which is why the idle prompt check runs
// first and on the narrowest window.
var (
	defaultIdlePatterns = []string{
		`^❯\s*$`,
		`^›\s*$`,
		`^[│┃|]\s*>\s*$`,
		`waiting for input`,
	}

	defaultWaitingPatterns = []string{
		`\(y/n\)`,
		`\[y/n\]`,
		`\byes/no\b`,
		`do you want`,
		`do you trust`,
		`would you like`,
		`continue\?`,
		`proceed\?`,
		`permission`,
		`approve`,
		`confirm`,
		`press enter to`,
		`tab to select`,
	}

	defaultWorkingPatterns = []string{
		`esc to interrupt`,
		`ctrl\+c to cancel`,
		`ctrl\+b to run in background`,
		`^[✻✽✢✶∗*·•]\s+\p{L}`,
		`\p{L}+ing\b.*(…|\.{3})`,
		`^thinking\b`,
		`^processing\b`,
	}
)
