//go:build linux

package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fogmarch/agentwatch/internal/agent"
)

func inspect(pid int) (*agent.ProcessInfo, error) {
	dir := filepath.Join("/proc", strconv.Itoa(pid))
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("pid %d: %w", pid, ErrNotFound)
	}

	info := &agent.ProcessInfo{
		Path: readExe(pid),
		Name: readComm(pid),
		Args: readCmdline(pid),
	}

	for _, child := range childPIDs(pid) {
		info.Children = append(info.Children, agent.ProcessInfo{
			Path: readExe(child),
			Name: readComm(child),
			Args: readCmdline(child),
		})
	}
	return info, nil
}

// readExe resolves /proc/<pid>/exe. Requires same-user or root; an empty
// string on failure is fine, identification falls back to comm and argv.
func readExe(pid int) string {
	path, err := os.Readlink(filepath.Join("/proc", strconv.Itoa(pid), "exe"))
	if err != nil {
		return ""
	}
	// The kernel appends " (deleted)" when the binary was replaced.
	return strings.TrimSuffix(path, " (deleted)")
}

func readComm(pid int) string {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "comm"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// readCmdline splits the NUL-separated argv from /proc/<pid>/cmdline.
func readCmdline(pid int) []string {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "cmdline"))
	if err != nil || len(data) == 0 {
		return nil
	}
	return splitCmdline(data)
}

func splitCmdline(data []byte) []string {
	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	args := parts[:0]
	for _, p := range parts {
		if p != "" {
			args = append(args, p)
		}
	}
	if len(args) == 0 {
		return nil
	}
	return args
}

// childPIDs returns the immediate children of pid. It reads
// /proc/<pid>/task/<pid>/children when available (Linux 3.5+) and falls
// back to scanning /proc for matching PPIDs.
func childPIDs(pid int) []int {
	path := fmt.Sprintf("/proc/%d/task/%d/children", pid, pid)
	if data, err := os.ReadFile(path); err == nil {
		var children []int
		for _, field := range strings.Fields(string(data)) {
			if child, err := strconv.Atoi(field); err == nil && child > 0 {
				children = append(children, child)
			}
		}
		return children
	}

	entries, err := os.ReadDir("/proc")
	if err != nil {
		logger.Warn("cannot scan /proc for children", "pid", pid, "error", err)
		return nil
	}

	var children []int
	for _, entry := range entries {
		child, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		if ppid, ok := parentPID(child); ok && ppid == pid {
			children = append(children, child)
		}
	}
	return children
}

func parentPID(pid int) (int, bool) {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return 0, false
	}
	return parsePPIDFromStat(string(data))
}

// parsePPIDFromStat extracts field 4 of /proc/<pid>/stat. The comm field
// is parenthesized and may itself contain spaces and parentheses, so
// parsing starts after the last ')'.
func parsePPIDFromStat(stat string) (int, bool) {
	end := strings.LastIndexByte(stat, ')')
	if end < 0 || end+2 >= len(stat) {
		return 0, false
	}
	fields := strings.Fields(stat[end+2:])
	if len(fields) < 2 {
		return 0, false
	}
	ppid, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	return ppid, true
}
