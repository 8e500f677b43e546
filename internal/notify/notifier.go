// Package notify raises rate-limited desktop notifications when an agent
// transitions into the waiting status.
package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fogmarch/agentwatch/internal/agent"
)

// DefaultMinGap is the minimum interval between notifications for the
// same surface, however many waiting transitions occur in between.
const DefaultMinGap = 10 * time.Second

var logger = slog.Default().With("component", "notify")

// Sender delivers a single notification. Implementations must be safe to
// call repeatedly; delivery failure is reported, never panicked.
type Sender interface {
	Send(title, body string) error
}

// Notifier rate-limits attention notifications per surface. Like the
// tracker it is driven only from the polling loop and needs no locking.
type Notifier struct {
	enabled  bool
	minGap   time.Duration
	sender   Sender
	lastSent map[string]time.Time
}

// New creates a notifier. A non-positive minGap falls back to
// DefaultMinGap.
func New(sender Sender, minGap time.Duration, enabled bool) *Notifier {
	if minGap <= 0 {
		minGap = DefaultMinGap
	}
	return &Notifier{
		enabled:  enabled,
		minGap:   minGap,
		sender:   sender,
		lastSent: make(map[string]time.Time),
	}
}

// MaybeNotify sends an attention notification for the surface unless one
// was already sent within the minimum gap. Returns whether a notification
// was delivered.
//
// Delivery errors are logged and swallowed, and deliberately do not
// consume the rate-limit budget: the next genuine opportunity to notify
// must not be lost to a transient delivery failure.
func (n *Notifier) MaybeNotify(surfaceID string, desc *agent.Descriptor, now time.Time) bool {
	if !n.enabled || n.sender == nil {
		return false
	}

	if last, ok := n.lastSent[surfaceID]; ok && now.Sub(last) < n.minGap {
		return false
	}

	title := "Agent needs input"
	body := fmt.Sprintf("%s is waiting in pane %s", desc.DisplayName(), surfaceID)

	if err := n.sender.Send(title, body); err != nil {
		logger.Warn("notification delivery failed",
			"surface", surfaceID,
			"agent", desc.DisplayName(),
			"error", err,
		)
		return false
	}

	n.lastSent[surfaceID] = now
	return true
}

// Forget drops the rate-limit record for a vanished surface.
func (n *Notifier) Forget(surfaceID string) {
	delete(n.lastSent, surfaceID)
}
