// Package ui provides the terminal epoch viewer using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-epoch/internal/state"
	"github.com/litescript/ls-epoch/internal/timescale"
	"github.com/litescript/ls-epoch/internal/version"
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg drives the spinner.
	AnimTickMsg time.Time

	// ReloadDoneMsg carries the result of a table reload.
	ReloadDoneMsg struct {
		Err error
	}
)

// ReloadFunc reloads the table behind the manager.
type ReloadFunc func(ctx context.Context) error

// Model is the root Bubble Tea model.
type Model struct {
	state  *state.Manager
	reload ReloadFunc
	now    func() time.Time

	// at is the instant on display. While follow is set it tracks the clock.
	at     timescale.Instant[timescale.UTC]
	follow bool

	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int

	snapshot state.Snapshot
}

// New creates the viewer. reload may be nil, in which case "r" only
// refreshes the snapshot.
func New(stateMgr *state.Manager, reload ReloadFunc) Model {
	m := Model{
		state:  stateMgr,
		reload: reload,
		now:    time.Now,
		follow: true,
	}
	m.at = m.clock()
	m.snapshot = stateMgr.Snapshot()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), animTickCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.step(-timescale.SecondsPerDay)
		case "right", "l":
			m.step(timescale.SecondsPerDay)
		case "up", "k":
			m.step(3600)
		case "down", "j":
			m.step(-3600)
		case "n":
			m.follow = true
			m.at = m.clock()
			m.statusMsg = ""
		case "r":
			m.statusMsg = "Reloading..."
			return m, m.reloadCmd()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.snapshot = m.state.Snapshot()
		if m.follow {
			m.at = utcInstant(time.Time(msg))
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case ReloadDoneMsg:
		m.snapshot = m.state.Snapshot()
		switch {
		case msg.Err != nil:
			m.statusMsg = "Reload failed: " + msg.Err.Error()
		case m.snapshot.Table == nil:
			m.statusMsg = "No table loaded"
		default:
			m.statusMsg = fmt.Sprintf("Reloaded %d records", m.snapshot.Table.Len())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) clock() timescale.Instant[timescale.UTC] {
	return utcInstant(m.now())
}

// utcInstant reads t on the UTC wall clock, whatever its location.
func utcInstant(t time.Time) timescale.Instant[timescale.UTC] {
	return timescale.FromCalendar[timescale.UTC](t.UTC())
}

// step moves the displayed instant by secs seconds and stops following the clock.
func (m *Model) step(secs int64) {
	m.follow = false
	m.at = m.at.Add(timescale.FromSeconds[timescale.UTC](float64(secs)))
}

// At returns the instant on display.
func (m Model) At() timescale.Instant[timescale.UTC] {
	return m.at
}

// Following reports whether the display tracks the wall clock.
func (m Model) Following() bool {
	return m.follow
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.renderHeader() + "\n" + renderEpoch(m.at, m.state, m.snapshot, m.width) + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  ls-epoch"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  time scales and Earth orientation · v%s", version.Version)))
	b.WriteString("\n")

	mode := "paused"
	if m.follow {
		mode = "live"
	}
	b.WriteString(mutedStyle.Render("  " + mode))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderFooter() string {
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.snapshot.Table != nil:
		status = accentStyle.Render(spinner) + mutedStyle.Render(fmt.Sprintf(" %s · %d records",
			m.snapshot.Source, m.snapshot.Table.Len()))
		if m.snapshot.LoadDuration > 0 {
			status += mutedStyle.Render(" (" + m.snapshot.LoadDuration.Round(time.Millisecond).String() + ")")
		}
	default:
		status = accentStyle.Render(spinner) + mutedStyle.Render(" no table loaded")
	}

	help := mutedStyle.Render("←/→: day | ↑/↓: hour | n: now | r: reload | q: quit")
	footer := "  " + status + "  " + mutedStyle.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + mutedStyle.Render(m.statusMsg)
	}
	return footer
}

func (m Model) reloadCmd() tea.Cmd {
	reload := m.reload
	return func() tea.Msg {
		if reload == nil {
			return ReloadDoneMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return ReloadDoneMsg{Err: reload(ctx)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// Run starts the viewer in the alternate screen and blocks until it exits.
func Run(stateMgr *state.Manager, reload ReloadFunc) error {
	p := tea.NewProgram(New(stateMgr, reload), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#9D4EDD"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7B2CBF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E84A27"))
)
