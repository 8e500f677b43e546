// Package status classifies normalized pane text into agent statuses.
package status

// Status is the instantaneous classification of a monitored surface.
type Status string

const (
	// StatusWorking means the agent is actively producing output.
	StatusWorking Status = "working"
	// StatusWaiting means the agent is blocked on a question or
	// permission prompt and needs user attention.
	StatusWaiting Status = "waiting"
	// StatusIdle means the agent is at its prompt, ready for input.
	StatusIdle Status = "idle"
	// StatusInactive means no agent is detected on the surface.
	StatusInactive Status = "inactive"
)

// String returns the status as a string.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusWorking, StatusWaiting, StatusIdle, StatusInactive:
		return true
	}
	return false
}

// All lists the statuses in display order.
func All() []Status {
	return []Status{StatusWorking, StatusWaiting, StatusIdle, StatusInactive}
}

// Windows bounds how many trailing lines each classification pass
// inspects. The idle window is deliberately the narrowest so a ready
// prompt is only recognized at the very bottom of the screen; the working
// window is narrower than the waiting window so busy glyphs that scrolled
// out of the live view don't keep a pane "working" forever.
type Windows struct {
	Idle    int
	Waiting int
	Working int
}

// DefaultWindows returns the standard window sizes.
func DefaultWindows() Windows {
	return Windows{Idle: 5, Waiting: 30, Working: 10}
}
