//go:build linux

package notify

import (
	"fmt"
	"os/exec"
)

type notifySendSender struct {
	binary string
}

func platformSender() Sender {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		return nil
	}
	return &notifySendSender{binary: path}
}

func (s *notifySendSender) Send(title, body string) error {
	cmd := exec.Command(s.binary, "--app-name=agentwatch", "--urgency=normal", title, body)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("notify-send: %w: %s", err, out)
	}
	return nil
}
