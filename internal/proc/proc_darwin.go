//go:build darwin

package proc

import (
	"os/exec"
	"strconv"
	"strings"

	"github.com/fogmarch/agentwatch/internal/agent"
)

// macOS has no /proc; ps answers everything we need in two invocations.

func inspect(pid int) (*agent.ProcessInfo, error) {
	args := psArgs(pid)
	if args == nil {
		return nil, ErrNotFound
	}
	info := &agent.ProcessInfo{Args: args}
	if len(args) > 0 {
		info.Path = args[0]
		info.Name = baseName(args[0])
	}

	for _, child := range psChildren(pid) {
		cargs := psArgs(child)
		ci := agent.ProcessInfo{Args: cargs}
		if len(cargs) > 0 {
			ci.Path = cargs[0]
			ci.Name = baseName(cargs[0])
		}
		info.Children = append(info.Children, ci)
	}
	return info, nil
}

func psArgs(pid int) []string {
	out, err := exec.Command("ps", "-o", "args=", "-p", strconv.Itoa(pid)).Output()
	if err != nil {
		return nil
	}
	line := strings.TrimSpace(string(out))
	if line == "" {
		return nil
	}
	return strings.Fields(line)
}

func psChildren(pid int) []int {
	out, err := exec.Command("ps", "-o", "pid=", "--ppid", strconv.Itoa(pid)).Output()
	if err != nil {
		// BSD ps lacks --ppid; fall back to listing everything.
		out, err = exec.Command("ps", "-axo", "pid=,ppid=").Output()
		if err != nil {
			logger.Warn("ps unavailable", "error", err)
			return nil
		}
		var children []int
		for _, line := range strings.Split(string(out), "\n") {
			fields := strings.Fields(line)
			if len(fields) != 2 {
				continue
			}
			child, err1 := strconv.Atoi(fields[0])
			ppid, err2 := strconv.Atoi(fields[1])
			if err1 == nil && err2 == nil && ppid == pid {
				children = append(children, child)
			}
		}
		return children
	}

	var children []int
	for _, field := range strings.Fields(string(out)) {
		if child, err := strconv.Atoi(field); err == nil {
			children = append(children, child)
		}
	}
	return children
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
