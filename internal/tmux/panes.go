package tmux

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Pane describes one tmux pane as reported by list-panes.
type Pane struct {
	ID      string // unique pane id, e.g. "%12"
	Session string
	Window  int
	Index   int
	Title   string
	PID     int // pane's shell process id
}

// Target returns the canonical "session:window.pane" addressing string.
func (p Pane) Target() string {
	return fmt.Sprintf("%s:%d.%d", p.Session, p.Window, p.Index)
}

// paneFormat uses a tab separator because pane titles routinely contain
// spaces and colons.
const paneFormat = "#{pane_id}\t#{session_name}\t#{window_index}\t#{pane_index}\t#{pane_pid}\t#{pane_title}"

// ListPanes returns every pane across all sessions. When session is
// non-empty only that session's panes are listed.
func ListPanes(ctx context.Context, session string) ([]Pane, error) {
	args := []string{"list-panes", "-F", paneFormat}
	if session != "" {
		args = append(args, "-s", "-t", session)
	} else {
		args = append(args, "-a")
	}

	out, err := RunContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("list panes: %w", err)
	}

	var panes []Pane
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		p, ok := parsePaneLine(line)
		if !ok {
			continue
		}
		panes = append(panes, p)
	}
	return panes, nil
}

func parsePaneLine(line string) (Pane, bool) {
	fields := strings.SplitN(line, "\t", 6)
	if len(fields) < 6 {
		return Pane{}, false
	}
	window, err := strconv.Atoi(fields[2])
	if err != nil {
		return Pane{}, false
	}
	index, err := strconv.Atoi(fields[3])
	if err != nil {
		return Pane{}, false
	}
	pid, err := strconv.Atoi(fields[4])
	if err != nil {
		return Pane{}, false
	}
	return Pane{
		ID:      fields[0],
		Session: fields[1],
		Window:  window,
		Index:   index,
		PID:     pid,
		Title:   fields[5],
	}, true
}

// CapturePane returns the last lines of visible/scrollback content for a
// pane. The output still contains whatever escape sequences the program
// wrote; normalization is the caller's concern.
func CapturePane(ctx context.Context, target string, lines int) (string, error) {
	if lines <= 0 {
		lines = 100
	}
	out, err := RunContext(ctx, "capture-pane", "-p", "-t", target, "-S", fmt.Sprintf("-%d", lines))
	if err != nil {
		return "", fmt.Errorf("capture pane %s: %w", target, err)
	}
	return out, nil
}
