// Package tmux wraps the tmux binary for pane discovery and text capture.
package tmux

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

var (
	binaryOnce sync.Once
	binaryPath string
)

// BinaryPath returns the resolved tmux binary path. It prefers standard
// install locations and falls back to PATH lookup.
func BinaryPath() string {
	binaryOnce.Do(func() {
		binaryPath = resolveBinaryPath()
	})
	if binaryPath == "" {
		return "tmux"
	}
	return binaryPath
}

func resolveBinaryPath() string {
	candidates := []string{
		"/usr/bin/tmux",
		"/usr/local/bin/tmux",
		"/opt/homebrew/bin/tmux",
	}
	for _, path := range candidates {
		if binaryExists(path) {
			return path
		}
	}
	if path, err := exec.LookPath("tmux"); err == nil && path != "" {
		return path
	}
	return "/usr/bin/tmux"
}

func binaryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsInstalled checks if tmux is available.
func IsInstalled() bool {
	return binaryExists(BinaryPath())
}

// Run executes a tmux command and returns trimmed stdout.
func Run(args ...string) (string, error) {
	return RunContext(context.Background(), args...)
}

// RunContext executes a tmux command with cancellation support.
func RunContext(ctx context.Context, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	binary := BinaryPath()
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%s %s: %w: %s", binary, strings.Join(args, " "), err, stderr.String())
	}
	return strings.TrimRight(stdout.String(), "\n"), nil
}
