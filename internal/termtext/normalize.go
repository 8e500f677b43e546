// Package termtext cleans raw terminal capture output so pattern matching
// can operate on plain text. Captured pane content is full of color codes,
// cursor movement, title-setting sequences and carriage-return redraws;
// everything here reduces that to printable characters and newlines.
package termtext

import (
	"strings"
	"unicode"
)

const esc = '\x1b'

// Normalize strips ANSI escape sequences, carriage returns and other
// control bytes from raw captured text, preserving line boundaries.
//
// Malformed or truncated sequences never cause a failure: an escape
// introducer with no valid terminator is simply dropped along with
// whatever partial sequence follows it. Normalize is idempotent, so
// already-clean text passes through unchanged.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))

	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case r == esc:
			i += consumeEscape(runes[i:]) - 1
		case r == '\n':
			b.WriteRune('\n')
		case r == '\r':
			// CR is either part of CRLF or an in-place redraw; the line
			// boundary, if any, comes from the LF that follows.
		case r == '\t':
			b.WriteRune(' ')
		case r < 0x20 || r == 0x7f:
			// Remaining C0 controls and DEL.
		case r >= 0x80 && r <= 0x9f:
			// C1 controls (can appear when captures are decoded as latin-1).
		case unicode.IsPrint(r):
			b.WriteRune(r)
		}
	}

	return b.String()
}

// consumeEscape returns the number of runes occupied by the escape
// sequence starting at s[0] (which is ESC). Truncated sequences consume
// through the end of the input.
func consumeEscape(s []rune) int {
	if len(s) < 2 {
		return len(s) // lone trailing ESC
	}

	switch s[1] {
	case '[':
		// CSI: parameters and intermediates, then one final byte in @-~.
		for i := 2; i < len(s); i++ {
			if s[i] >= '@' && s[i] <= '~' {
				return i + 1
			}
		}
		return len(s)
	case ']':
		// OSC: terminated by BEL or ST (ESC \).
		for i := 2; i < len(s); i++ {
			if s[i] == '\a' {
				return i + 1
			}
			if s[i] == esc {
				if i+1 < len(s) && s[i+1] == '\\' {
					return i + 2
				}
				return i // let the next ESC start its own sequence
			}
		}
		return len(s)
	case 'P', 'X', '^', '_':
		// DCS/SOS/PM/APC: same string terminator rules as OSC.
		for i := 2; i < len(s); i++ {
			if s[i] == '\a' {
				return i + 1
			}
			if s[i] == esc {
				if i+1 < len(s) && s[i+1] == '\\' {
					return i + 2
				}
				return i
			}
		}
		return len(s)
	case '(', ')', '*', '+', '#', '%':
		// Two-byte designators carry one more character.
		if len(s) >= 3 {
			return 3
		}
		return len(s)
	default:
		// ESC plus a single final character (RIS, IND, NEL, ...), or an
		// unmatched introducer, which we drop rather than fail on.
		return 2
	}
}

// LastLines returns up to n trailing lines of text, each trimmed of
// surrounding whitespace. Empty trailing lines are preserved in the count
// so that pattern windows measure real screen distance.
func LastLines(text string, n int) []string {
	if n <= 0 || text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l)
	}
	return out
}

// LastNonEmptyLine returns the last line of text that contains any
// non-whitespace characters, trimmed.
func LastNonEmptyLine(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
