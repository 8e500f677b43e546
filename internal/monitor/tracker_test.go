package monitor

import (
	"testing"
	"time"

	"github.com/fogmarch/agentwatch/internal/agent"
	"github.com/fogmarch/agentwatch/internal/status"
)

var claude = &agent.Descriptor{Name: "claude"}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func hasEvent(events []Event, typ EventType) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func TestAdvanceNoAgentNoState(t *testing.T) {
	tr := NewTracker(0)
	now := time.Now()

	committed, events := tr.Advance("s1", status.StatusInactive, nil, now)
	if committed != status.StatusInactive {
		t.Fatalf("committed = %v, want inactive", committed)
	}
	if len(events) != 0 {
		t.Fatalf("events = %v, want none", eventTypes(events))
	}
	if tr.Tracked() != 0 {
		t.Fatal("no state should be created for an agentless surface")
	}
}

func TestAdvanceFirstObservation(t *testing.T) {
	tr := NewTracker(0)
	now := time.Now()

	committed, events := tr.Advance("s1", status.StatusWorking, claude, now)
	if committed != status.StatusWorking {
		t.Fatalf("committed = %v, want working", committed)
	}
	if !hasEvent(events, EventAgentDetected) || !hasEvent(events, EventStatusChanged) {
		t.Fatalf("first observation events = %v, want detected+changed", eventTypes(events))
	}
	for _, e := range events {
		if e.Type == EventStatusChanged && (e.Old != status.StatusInactive || e.New != status.StatusWorking) {
			t.Errorf("status change %v→%v, want inactive→working", e.Old, e.New)
		}
	}
}

func TestAdvanceSameStatusNoTransition(t *testing.T) {
	tr := NewTracker(0)
	now := time.Now()

	tr.Advance("s1", status.StatusWorking, claude, now)
	committed, events := tr.Advance("s1", status.StatusWorking, claude, now.Add(time.Second))
	if committed != status.StatusWorking || len(events) != 0 {
		t.Fatalf("steady state produced events %v", eventTypes(events))
	}

	st, ok := tr.State("s1")
	if !ok || !st.LastUpdate.Equal(now.Add(time.Second)) {
		t.Error("steady tick should refresh LastUpdate")
	}
}

func TestCooldownSuppressesIdleFlash(t *testing.T) {
	tr := NewTracker(2 * time.Second)
	now := time.Now()

	tr.Advance("s1", status.StatusWorking, claude, now)

	// One idle flash: committed status must not move.
	committed, events := tr.Advance("s1", status.StatusIdle, claude, now.Add(500*time.Millisecond))
	if committed != status.StatusWorking || len(events) != 0 {
		t.Fatalf("idle flash committed %v with events %v", committed, eventTypes(events))
	}

	// Still inside the window.
	committed, events = tr.Advance("s1", status.StatusIdle, claude, now.Add(2*time.Second))
	if committed != status.StatusWorking || len(events) != 0 {
		t.Fatalf("idle inside window committed %v with events %v", committed, eventTypes(events))
	}

	// Past the window: idle commits and exactly one transition fires.
	committed, events = tr.Advance("s1", status.StatusIdle, claude, now.Add(3*time.Second))
	if committed != status.StatusIdle {
		t.Fatalf("post-cooldown committed = %v, want idle", committed)
	}
	if len(events) != 1 || events[0].Type != EventStatusChanged {
		t.Fatalf("post-cooldown events = %v, want one status change", eventTypes(events))
	}
	if events[0].Old != status.StatusWorking || events[0].New != status.StatusIdle {
		t.Errorf("transition %v→%v, want working→idle", events[0].Old, events[0].New)
	}
}

func TestWorkingCancelsCooldown(t *testing.T) {
	tr := NewTracker(2 * time.Second)
	now := time.Now()

	tr.Advance("s1", status.StatusWorking, claude, now)
	tr.Advance("s1", status.StatusIdle, claude, now.Add(time.Second)) // cooldown starts

	// Agent resumes: no phantom transition, cooldown cleared.
	committed, events := tr.Advance("s1", status.StatusWorking, claude, now.Add(1500*time.Millisecond))
	if committed != status.StatusWorking || len(events) != 0 {
		t.Fatalf("resume committed %v with events %v", committed, eventTypes(events))
	}

	// A fresh idle flash must restart the cooldown from scratch rather
	// than reusing the stale start timestamp.
	committed, _ = tr.Advance("s1", status.StatusIdle, claude, now.Add(4*time.Second))
	if committed != status.StatusWorking {
		t.Fatalf("new idle flash committed %v, want working (new cooldown)", committed)
	}
	committed, _ = tr.Advance("s1", status.StatusIdle, claude, now.Add(7*time.Second))
	if committed != status.StatusIdle {
		t.Fatalf("after full new cooldown committed %v, want idle", committed)
	}
}

func TestWaitingTransitionRaisesAttention(t *testing.T) {
	tr := NewTracker(0)
	now := time.Now()

	tr.Advance("s1", status.StatusWorking, claude, now)
	committed, events := tr.Advance("s1", status.StatusWaiting, claude, now.Add(time.Second))
	if committed != status.StatusWaiting {
		t.Fatalf("committed = %v, want waiting", committed)
	}
	if !hasEvent(events, EventStatusChanged) || !hasEvent(events, EventAttentionNeeded) {
		t.Fatalf("events = %v, want change+attention", eventTypes(events))
	}
}

func TestWaitingOnFirstObservationRaisesAttention(t *testing.T) {
	tr := NewTracker(0)

	_, events := tr.Advance("s1", status.StatusWaiting, claude, time.Now())
	if !hasEvent(events, EventAttentionNeeded) {
		t.Fatalf("events = %v, want attention on first waiting", eventTypes(events))
	}
}

func TestAgentDisappearance(t *testing.T) {
	tr := NewTracker(0)
	now := time.Now()

	tr.Advance("s1", status.StatusWorking, claude, now)
	committed, events := tr.Advance("s1", status.StatusInactive, nil, now.Add(time.Second))
	if committed != status.StatusInactive {
		t.Fatalf("committed = %v, want inactive", committed)
	}
	if !hasEvent(events, EventStatusChanged) || !hasEvent(events, EventAgentFinished) {
		t.Fatalf("events = %v, want change+finished", eventTypes(events))
	}
	if tr.Tracked() != 0 {
		t.Error("state should be destroyed on disappearance")
	}

	// A second agentless tick is silent.
	_, events = tr.Advance("s1", status.StatusInactive, nil, now.Add(2*time.Second))
	if len(events) != 0 {
		t.Fatalf("repeat disappearance produced events %v", eventTypes(events))
	}
}

func TestWaitingDoesNotTriggerCooldown(t *testing.T) {
	tr := NewTracker(10 * time.Second)
	now := time.Now()

	// working → waiting commits immediately; the cooldown only guards
	// the working→idle direction.
	tr.Advance("s1", status.StatusWorking, claude, now)
	committed, events := tr.Advance("s1", status.StatusWaiting, claude, now.Add(time.Millisecond))
	if committed != status.StatusWaiting || len(events) == 0 {
		t.Fatalf("waiting was debounced: committed %v events %v", committed, eventTypes(events))
	}
}

func TestCounts(t *testing.T) {
	tr := NewTracker(0)
	now := time.Now()

	codex := &agent.Descriptor{Name: "codex"}
	tr.Advance("s1", status.StatusWorking, claude, now)
	tr.Advance("s2", status.StatusWaiting, codex, now)
	tr.Advance("s3", status.StatusIdle, claude, now)
	tr.Advance("s4", status.StatusIdle, codex, now)

	counts := tr.Counts()
	if counts[status.StatusWorking] != 1 || counts[status.StatusWaiting] != 1 || counts[status.StatusIdle] != 2 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestStateCopyIsDetached(t *testing.T) {
	tr := NewTracker(0)
	now := time.Now()

	tr.Advance("s1", status.StatusWorking, claude, now)
	st, ok := tr.State("s1")
	if !ok {
		t.Fatal("expected state")
	}
	st.Status = status.StatusIdle

	real, _ := tr.State("s1")
	if real.Status != status.StatusWorking {
		t.Error("State must return a copy, not the tracked pointer")
	}
}
