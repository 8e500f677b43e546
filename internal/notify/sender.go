package notify

import (
	"github.com/muesli/termenv"
)

// TerminalSender emits an OSC 777 notification escape through the
// controlling terminal. Modern emulators (kitty, WezTerm, foot, iTerm2)
// surface it as a system notification; others ignore it silently, which
// is an acceptable floor.
type TerminalSender struct{}

// Send writes the notification escape to stderr via termenv.
func (TerminalSender) Send(title, body string) error {
	termenv.Notify(title, body)
	return nil
}

// NewDesktopSender returns the best notification sender for the current
// platform: notify-send on Linux, osascript on macOS, with the terminal
// escape as the portable fallback.
func NewDesktopSender() Sender {
	if s := platformSender(); s != nil {
		return s
	}
	return TerminalSender{}
}
