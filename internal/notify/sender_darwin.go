//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

type osascriptSender struct{}

func platformSender() Sender {
	if _, err := exec.LookPath("osascript"); err != nil {
		return nil
	}
	return osascriptSender{}
}

func (osascriptSender) Send(title, body string) error {
	script := fmt.Sprintf("display notification %q with title %q",
		sanitize(body), sanitize(title))
	cmd := exec.Command("osascript", "-e", script)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %w: %s", err, out)
	}
	return nil
}

// sanitize keeps AppleScript string literals well-formed.
func sanitize(s string) string {
	return strings.NewReplacer(`"`, `'`, "\\", "").Replace(s)
}
