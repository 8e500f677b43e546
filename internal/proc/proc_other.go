//go:build !linux && !darwin

package proc

import "github.com/fogmarch/agentwatch/internal/agent"

func inspect(pid int) (*agent.ProcessInfo, error) {
	// Process inspection is unsupported here; identification falls back
	// to pane titles.
	return nil, ErrNotFound
}
