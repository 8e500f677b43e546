// Package poll drives the scan loop: it discovers panes, captures and
// normalizes their text, classifies agent status, advances the debounce
// state machine and fans transition events out to notifications and an
// optional JSONL stream.
package poll

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/fogmarch/agentwatch/internal/agent"
	"github.com/fogmarch/agentwatch/internal/config"
	"github.com/fogmarch/agentwatch/internal/monitor"
	"github.com/fogmarch/agentwatch/internal/notify"
	"github.com/fogmarch/agentwatch/internal/proc"
	"github.com/fogmarch/agentwatch/internal/status"
	"github.com/fogmarch/agentwatch/internal/termtext"
	"github.com/fogmarch/agentwatch/internal/tmux"
)

// PaneStatus is one row of a scan result.
type PaneStatus struct {
	Pane   tmux.Pane
	Status status.Status
	Agent  *agent.Descriptor
}

// Snapshot is the committed aggregate for one completed tick. It is only
// valid once every tracked surface has been advanced for that tick.
type Snapshot struct {
	Time    time.Time
	Panes   []PaneStatus
	Counts  map[status.Status]int
	Scanned int
}

// Inactive returns how many scanned panes carry no recognized agent.
func (s Snapshot) Inactive() int {
	tracked := 0
	for _, n := range s.Counts {
		tracked += n
	}
	return s.Scanned - tracked
}

// Poller scans all panes once per tick. It owns the identification
// cache, classifier, tracker and notifier; ticks never overlap, so none
// of those need locking.
type Poller struct {
	session      string
	captureLines int
	interval     time.Duration

	ident      *agent.Identifier
	classifier *status.Classifier
	tracker    *monitor.Tracker
	activity   *monitor.Activity
	notifier   *notify.Notifier

	events io.Writer // optional JSONL sink
	logger *slog.Logger

	// Host calls, replaceable in tests.
	listPanes func(ctx context.Context, session string) ([]tmux.Pane, error)
	capture   func(ctx context.Context, target string, lines int) (string, error)
	inspect   func(pid int) (*agent.ProcessInfo, error)
}

// New builds a poller from validated configuration. The descriptor set
// comes from cfg (builtins merged with user overrides); sender may be
// nil to disable notifications regardless of config.
func New(cfg *config.Config, descriptors []agent.Descriptor, sender notify.Sender, events io.Writer) *Poller {
	return &Poller{
		session:      cfg.Session,
		captureLines: cfg.CaptureLines,
		interval:     cfg.PollInterval(),
		ident:        agent.NewIdentifier(descriptors, cfg.CacheTTL()),
		classifier:   status.NewClassifier(descriptors, cfg.Windows()),
		tracker:      monitor.NewTracker(cfg.Cooldown()),
		activity:     monitor.NewActivity(cfg.StaleThreshold()),
		notifier:     notify.New(sender, cfg.MinGap(), cfg.Notifications.Enabled),
		events:       events,
		logger:       slog.Default().With("component", "poll"),
		listPanes:    func(ctx context.Context, session string) ([]tmux.Pane, error) { return tmux.ListPanes(ctx, session) },
		capture:      tmux.CapturePane,
		inspect:      proc.Inspect,
	}
}

// Run scans at the configured interval until ctx is cancelled. When
// onTick is non-nil it receives every completed snapshot.
func (p *Poller) Run(ctx context.Context, onTick func(Snapshot)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	tick := func() {
		snap, err := p.RunOnce(ctx)
		if err != nil {
			p.logger.Warn("scan failed", "error", err)
			return
		}
		if onTick != nil {
			onTick(snap)
		}
	}

	tick()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			tick()
		}
	}
}

// RunOnce performs a single full scan and returns the resulting
// snapshot. Per-pane capture or inspection failures skip that pane for
// the tick without evicting its state; only pane discovery failing is an
// error.
func (p *Poller) RunOnce(ctx context.Context) (Snapshot, error) {
	now := time.Now()

	panes, err := p.listPanes(ctx, p.session)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list panes: %w", err)
	}

	seen := make(map[string]bool, len(panes))
	rows := make([]PaneStatus, 0, len(panes))

	for _, pane := range panes {
		seen[pane.ID] = true
		rows = append(rows, p.scanPane(ctx, pane, now))
	}

	// Surfaces that vanished since the last tick: destroy their state and
	// release everything keyed on them.
	for _, id := range p.tracker.Surfaces() {
		if seen[id] {
			continue
		}
		_, events := p.tracker.Advance(id, status.StatusInactive, nil, now)
		p.dispatch(id, nil, events, now)
		p.forget(id)
	}

	snap := Snapshot{
		Time:    now,
		Panes:   rows,
		Counts:  p.tracker.Counts(),
		Scanned: len(panes),
	}
	sort.Slice(snap.Panes, func(i, j int) bool {
		return snap.Panes[i].Pane.Target() < snap.Panes[j].Pane.Target()
	})
	return snap, nil
}

func (p *Poller) scanPane(ctx context.Context, pane tmux.Pane, now time.Time) PaneStatus {
	procInfo, err := p.inspect(pane.PID)
	if err != nil {
		// An inspection failure is an I/O problem, not evidence the agent
		// is gone. For a surface already holding state, hold the committed
		// status for this tick; eviction needs a successful inspection (or
		// a vanished pane) to corroborate it. Identifying with a nil
		// process here would also cache a spurious miss for the TTL.
		if st, ok := p.tracker.State(pane.ID); ok {
			p.logger.Warn("process inspection failed", "pane", pane.Target(), "error", err)
			return PaneStatus{Pane: pane, Status: st.Status, Agent: st.Agent}
		}
		// Untracked surface: identification degrades to the pane title.
		procInfo = nil
	}
	desc := p.ident.Identify(pane.ID, procInfo, pane.Title, now)

	if desc == nil {
		_, events := p.tracker.Advance(pane.ID, status.StatusInactive, nil, now)
		p.dispatch(pane.ID, nil, events, now)
		if len(events) > 0 {
			p.forget(pane.ID)
		}
		return PaneStatus{Pane: pane, Status: status.StatusInactive}
	}

	text, err := p.capture(ctx, pane.Target(), p.captureLines)
	if err != nil {
		// Capture failed; hold the previous committed status for this
		// tick rather than guessing or evicting.
		p.logger.Warn("capture failed", "pane", pane.Target(), "error", err)
		st, _ := p.tracker.State(pane.ID)
		return PaneStatus{Pane: pane, Status: st.Status, Agent: desc}
	}

	normalized := termtext.Normalize(text)
	raw := p.classifier.Classify(normalized, desc)
	if desc.UseActivity {
		raw = p.activity.Demote(pane.ID, raw, normalized, now)
	}

	committed, events := p.tracker.Advance(pane.ID, raw, desc, now)
	p.dispatch(pane.ID, desc, events, now)

	return PaneStatus{Pane: pane, Status: committed, Agent: desc}
}

// dispatch emits transition events on the JSONL stream and routes
// attention events to the notifier.
func (p *Poller) dispatch(surfaceID string, desc *agent.Descriptor, events []monitor.Event, now time.Time) {
	for _, ev := range events {
		if p.events != nil {
			if err := json.NewEncoder(p.events).Encode(ev); err != nil {
				p.logger.Warn("event emit failed", "error", err)
			}
		}
		if ev.Type == monitor.EventAttentionNeeded {
			p.notifier.MaybeNotify(surfaceID, desc, now)
		}
	}
}

func (p *Poller) forget(surfaceID string) {
	p.ident.Forget(surfaceID)
	p.activity.Forget(surfaceID)
	p.notifier.Forget(surfaceID)
}
