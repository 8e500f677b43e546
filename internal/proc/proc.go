// Package proc inspects host processes so pane shells can be mapped to
// the agent programs running under them.
package proc

import (
	"errors"
	"log/slog"

	"github.com/fogmarch/agentwatch/internal/agent"
)

var logger = slog.Default().With("component", "proc")

// ErrNotFound reports that no process with the requested pid exists.
var ErrNotFound = errors.New("process not found")

// Inspect returns what is known about pid and its immediate children.
// Fields that cannot be read (permissions, racing exits) are left empty;
// an error is returned only when the process cannot be found at all.
func Inspect(pid int) (*agent.ProcessInfo, error) {
	if pid <= 0 {
		return nil, ErrNotFound
	}
	return inspect(pid)
}
