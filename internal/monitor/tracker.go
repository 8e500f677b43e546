// Package monitor holds the per-surface debounce state machine that turns
// raw, flickery classifications into a stable committed status stream.
package monitor

import (
	"time"

	"github.com/fogmarch/agentwatch/internal/agent"
	"github.com/fogmarch/agentwatch/internal/status"
)

// DefaultCooldown is the minimum time a working→idle flip must persist
// before it is committed. Agents routinely flash an idle-looking frame
// between tool calls; committing those flashes would make every consumer
// UI flicker.
const DefaultCooldown = 1500 * time.Millisecond

// EventType labels a transition event produced by the tracker.
type EventType string

const (
	// EventAgentDetected fires when an agent first appears on a surface.
	EventAgentDetected EventType = "agent_detected"
	// EventAgentFinished fires when a tracked agent disappears.
	EventAgentFinished EventType = "agent_finished"
	// EventStatusChanged fires whenever the committed status changes.
	EventStatusChanged EventType = "status_changed"
	// EventAttentionNeeded fires on a committed transition into waiting.
	EventAttentionNeeded EventType = "attention_needed"
)

// Event is a single transition report.
type Event struct {
	Type    EventType     `json:"type"`
	Surface string        `json:"surface"`
	Agent   string        `json:"agent,omitempty"`
	Old     status.Status `json:"old_status,omitempty"`
	New     status.Status `json:"new_status,omitempty"`
	Reason  string        `json:"reason,omitempty"`
	Time    time.Time     `json:"time"`
}

// SurfaceState is the committed, externally visible state of one surface.
type SurfaceState struct {
	Status        status.Status
	Agent         *agent.Descriptor
	CooldownStart *time.Time
	LastUpdate    time.Time
}

// Tracker owns all surface states. It is driven strictly by Advance calls
// from the (serialized) polling loop, so it needs no locking of its own.
type Tracker struct {
	cooldown time.Duration
	states   map[string]*SurfaceState
}

// NewTracker creates a tracker with the given working→idle cooldown
// window. A non-positive cooldown falls back to DefaultCooldown.
func NewTracker(cooldown time.Duration) *Tracker {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Tracker{
		cooldown: cooldown,
		states:   make(map[string]*SurfaceState),
	}
}

// Advance feeds one raw classification for a surface into the state
// machine and returns the committed status plus any transition events.
// Events are returned in causal order (detection before status change).
func (t *Tracker) Advance(surfaceID string, raw status.Status, desc *agent.Descriptor, now time.Time) (status.Status, []Event) {
	st, ok := t.states[surfaceID]

	if !ok {
		if desc == nil {
			// Nothing to track; the surface stays implicitly inactive.
			return status.StatusInactive, nil
		}
		st = &SurfaceState{Status: raw, Agent: desc, LastUpdate: now}
		t.states[surfaceID] = st

		events := []Event{
			{Type: EventAgentDetected, Surface: surfaceID, Agent: desc.Name, Time: now},
			{Type: EventStatusChanged, Surface: surfaceID, Agent: desc.Name, Old: status.StatusInactive, New: raw, Time: now},
		}
		if raw == status.StatusWaiting {
			events = append(events, attentionEvent(surfaceID, desc.Name, now))
		}
		return raw, events
	}

	if desc == nil {
		// The agent vanished. Destroy the state and report the implied
		// transition.
		delete(t.states, surfaceID)

		var events []Event
		if st.Status != status.StatusInactive {
			events = append(events,
				Event{Type: EventStatusChanged, Surface: surfaceID, Agent: agentName(st.Agent), Old: st.Status, New: status.StatusInactive, Time: now},
				Event{Type: EventAgentFinished, Surface: surfaceID, Agent: agentName(st.Agent), Time: now},
			)
		}
		return status.StatusInactive, events
	}

	st.Agent = desc

	// Anti-flicker cooldown: a working pane reporting idle keeps its
	// committed status until the flip has persisted for the whole window.
	if st.Status == status.StatusWorking && raw == status.StatusIdle {
		if st.CooldownStart == nil {
			start := now
			st.CooldownStart = &start
			st.LastUpdate = now
			return st.Status, nil
		}
		if now.Sub(*st.CooldownStart) < t.cooldown {
			st.LastUpdate = now
			return st.Status, nil
		}
		// Cooldown satisfied; fall through and commit the idle.
		st.CooldownStart = nil
	}

	if raw == status.StatusWorking {
		// A resumed agent cancels any pending idle transition outright.
		st.CooldownStart = nil
	}

	if raw == st.Status {
		st.LastUpdate = now
		return st.Status, nil
	}

	old := st.Status
	st.Status = raw
	st.CooldownStart = nil
	st.LastUpdate = now

	events := []Event{
		{Type: EventStatusChanged, Surface: surfaceID, Agent: desc.Name, Old: old, New: raw, Time: now},
	}
	if raw == status.StatusWaiting {
		events = append(events, attentionEvent(surfaceID, desc.Name, now))
	}
	return raw, events
}

// State returns a copy of the committed state for a surface.
func (t *Tracker) State(surfaceID string) (SurfaceState, bool) {
	st, ok := t.states[surfaceID]
	if !ok {
		return SurfaceState{Status: status.StatusInactive}, false
	}
	return *st, true
}

// Counts aggregates tracked surfaces by committed status. Surfaces with
// no agent carry no state; the caller knows how many surfaces it scanned
// and can derive the inactive count from the difference.
func (t *Tracker) Counts() map[status.Status]int {
	counts := make(map[status.Status]int, 3)
	for _, st := range t.states {
		counts[st.Status]++
	}
	return counts
}

// Tracked returns the number of surfaces currently holding state.
func (t *Tracker) Tracked() int {
	return len(t.states)
}

// Surfaces returns the ids of all surfaces currently holding state. The
// polling loop uses it to notice surfaces that vanished between ticks.
func (t *Tracker) Surfaces() []string {
	ids := make([]string, 0, len(t.states))
	for id := range t.states {
		ids = append(ids, id)
	}
	return ids
}

func attentionEvent(surfaceID, agentName string, now time.Time) Event {
	return Event{
		Type:    EventAttentionNeeded,
		Surface: surfaceID,
		Agent:   agentName,
		Reason:  "agent is waiting for input",
		Time:    now,
	}
}

func agentName(d *agent.Descriptor) string {
	if d == nil {
		return ""
	}
	return d.Name
}
