package monitor

import (
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/fogmarch/agentwatch/internal/status"
)

// DefaultStaleThreshold is how long the visible tail may stay unchanged
// before an apparently-working surface is demoted to idle.
const DefaultStaleThreshold = 2 * time.Second

// changeRatioFloor is the fraction of the tail that must differ for a
// capture to count as activity. Spinner frames and elapsed-time counters
// redraw a handful of characters per tick; treating those as activity
// would defeat the whole heuristic.
const changeRatioFloor = 0.02

// Activity demotes stale "working" classifications for agents that park
// on a static busy banner after their process has really finished. It is
// an opt-in, per-agent refinement; the cooldown state machine remains the
// primary debounce mechanism.
type Activity struct {
	threshold time.Duration
	dmp       *diffmatchpatch.DiffMatchPatch
	snapshots map[string]*snapshot
}

type snapshot struct {
	tail      string
	changedAt time.Time
}

// NewActivity creates the heuristic with the given stale threshold. A
// non-positive threshold falls back to DefaultStaleThreshold.
func NewActivity(threshold time.Duration) *Activity {
	if threshold <= 0 {
		threshold = DefaultStaleThreshold
	}
	return &Activity{
		threshold: threshold,
		dmp:       diffmatchpatch.New(),
		snapshots: make(map[string]*snapshot),
	}
}

// Demote records the surface's current tail text and, when the raw status
// is working but the tail has not meaningfully changed for the threshold
// duration, returns idle instead. All other statuses pass through.
func (a *Activity) Demote(surfaceID string, raw status.Status, tail string, now time.Time) status.Status {
	snap, ok := a.snapshots[surfaceID]
	if !ok {
		a.snapshots[surfaceID] = &snapshot{tail: tail, changedAt: now}
		return raw
	}

	if a.changed(snap.tail, tail) {
		snap.tail = tail
		snap.changedAt = now
		return raw
	}

	if raw == status.StatusWorking && now.Sub(snap.changedAt) >= a.threshold {
		return status.StatusIdle
	}
	return raw
}

// Forget drops the snapshot for a vanished surface.
func (a *Activity) Forget(surfaceID string) {
	delete(a.snapshots, surfaceID)
}

// changed reports whether the tail differs enough from the previous
// capture to count as real output activity.
func (a *Activity) changed(old, new string) bool {
	if old == new {
		return false
	}
	if old == "" || new == "" {
		return true
	}

	diffs := a.dmp.DiffMain(old, new, false)
	distance := a.dmp.DiffLevenshtein(diffs)

	longest := len([]rune(old))
	if l := len([]rune(new)); l > longest {
		longest = l
	}
	if longest == 0 {
		return false
	}
	return float64(distance)/float64(longest) >= changeRatioFloor
}
