// Package tui renders the live watch dashboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/fogmarch/agentwatch/internal/poll"
	"github.com/fogmarch/agentwatch/internal/status"
)

type tickMsg time.Time

type snapshotMsg poll.Snapshot

type scanErrMsg struct{ err error }

// KeyMap defines dashboard keybindings.
type KeyMap struct {
	Refresh key.Binding
	Pause   key.Binding
	Quit    key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Pause, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Refresh, k.Pause, k.Quit}}
}

// Model is the watch dashboard.
type Model struct {
	poller   *poll.Poller
	interval time.Duration

	snap    poll.Snapshot
	scanned bool
	err     error

	width    int
	height   int
	paused   bool
	quitting bool

	spinner spinner.Model
	help    help.Model
	keys    KeyMap
}

// NewModel creates a dashboard polling through p at the given interval.
func NewModel(p *poll.Poller, interval time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	return Model{
		poller:   p,
		interval: interval,
		spinner:  sp,
		help:     help.New(),
		keys:     defaultKeyMap(),
	}
}

// Run starts the dashboard and blocks until it exits.
func Run(p *poll.Poller, interval time.Duration) error {
	prog := tea.NewProgram(NewModel(p, interval), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.scan())
}

func (m Model) scan() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.poller.RunOnce(context.Background())
		if err != nil {
			return scanErrMsg{err: err}
		}
		return snapshotMsg(snap)
	}
}

func (m Model) schedule() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.scan()
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			if !m.paused {
				return m, m.scan()
			}
			return m, nil
		}
		return m, nil

	case snapshotMsg:
		m.snap = poll.Snapshot(msg)
		m.scanned = true
		m.err = nil
		if m.paused {
			return m, nil
		}
		return m, m.schedule()

	case scanErrMsg:
		m.err = msg.err
		if m.paused {
			return m, nil
		}
		return m, m.schedule()

	case tickMsg:
		if m.paused {
			return m, nil
		}
		return m, m.scan()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	header := titleStyle.Render("agentwatch")
	if m.paused {
		header += dimStyle.Render("  (paused)")
	} else {
		header += "  " + m.spinner.View()
	}
	b.WriteString(header + "\n\n")

	if m.err != nil {
		b.WriteString(errStyle.Render("scan error: "+m.err.Error()) + "\n\n")
	}

	if !m.scanned {
		b.WriteString(dimStyle.Render("scanning panes...") + "\n")
		return b.String()
	}

	b.WriteString(m.renderTable())
	b.WriteString("\n" + m.renderFooter())
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) renderTable() string {
	if len(m.snap.Panes) == 0 {
		return dimStyle.Render("no panes found") + "\n"
	}

	paneWidth, agentWidth := 8, 12
	for _, row := range m.snap.Panes {
		if w := runewidth.StringWidth(row.Pane.Target()); w > paneWidth {
			paneWidth = w
		}
		if w := runewidth.StringWidth(row.Agent.DisplayName()); w > agentWidth {
			agentWidth = w
		}
	}

	titleWidth := m.width - paneWidth - agentWidth - 16
	if titleWidth < 10 {
		titleWidth = 10
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s  %-*s  %-10s  %s",
		paneWidth, "PANE", agentWidth, "AGENT", "STATUS", "TITLE")) + "\n")

	for _, row := range m.snap.Panes {
		title := truncate.StringWithTail(row.Pane.Title, uint(titleWidth), "…")
		b.WriteString(fmt.Sprintf("%-*s  %-*s  %s  %s\n",
			paneWidth, row.Pane.Target(),
			agentWidth, row.Agent.DisplayName(),
			padBadge(statusBadge(row.Status), 10),
			dimStyle.Render(title)))
	}
	return b.String()
}

// padBadge pads by display width; the badge carries color escapes that
// would confuse %-10s.
func padBadge(badge string, width int) string {
	pad := width - lipgloss.Width(badge)
	if pad <= 0 {
		return badge
	}
	return badge + strings.Repeat(" ", pad)
}

func (m Model) renderFooter() string {
	counts := m.snap.Counts
	parts := []string{
		workingStyle.Render(fmt.Sprintf("%d working", counts[status.StatusWorking])),
		waitingStyle.Render(fmt.Sprintf("%d waiting", counts[status.StatusWaiting])),
		idleStyle.Render(fmt.Sprintf("%d idle", counts[status.StatusIdle])),
		inactiveStyle.Render(fmt.Sprintf("%d inactive", m.snap.Inactive())),
	}
	line := strings.Join(parts, dimStyle.Render(" · "))
	return line + dimStyle.Render(fmt.Sprintf("  (updated %s)", m.snap.Time.Format("15:04:05")))
}
