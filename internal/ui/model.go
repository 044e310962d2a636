// ABOUTME: Bubbletea model for the demo progress view
// ABOUTME: Shows the demo state machine, recent console output and the outcome
package ui

import (
	"fmt"
	"strings"

	"github.com/Resonate-Protocol/obsctl/internal/demo"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// maxLines bounds the console output kept on screen
const maxLines = 14

// steps lists the states shown in the progress column, in order
var steps = []demo.State{
	demo.StateFetchDestination,
	demo.StateStreaming,
	demo.StateReadSettings,
	demo.StateApplySettings,
	demo.StateWaiting,
	demo.StateStopped,
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	outputStyle  = lipgloss.NewStyle().Faint(true)
)

// Model represents the TUI state
type Model struct {
	server string
	input  string

	state demo.State
	lines []string

	done bool
	err  error

	// onQuit is called once when the user quits
	onQuit func()

	width  int
	height int
}

// StateMsg reports a demo state transition
type StateMsg struct {
	State demo.State
}

// OutputMsg carries console output from the demo
type OutputMsg struct {
	Text string
}

// DoneMsg reports the demo has returned
type DoneMsg struct {
	Err error
}

// NewModel creates a new TUI model
func NewModel(server, input string, onQuit func()) Model {
	return Model{
		server: server,
		input:  input,
		state:  demo.StateIdle,
		onQuit: onQuit,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StateMsg:
		m.state = msg.State
	case OutputMsg:
		m.appendOutput(msg.Text)
	case DoneMsg:
		m.done = true
		m.err = msg.Err
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("obsctl  server: %s  input: %s", m.server, m.input)))
	b.WriteString("\n\n")
	b.WriteString(m.renderSteps())
	b.WriteString("\n")
	for _, line := range m.lines {
		b.WriteString(outputStyle.Render("  "+truncate(line, m.lineWidth())) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderSteps() string {
	var b strings.Builder
	for _, s := range steps {
		icon, style := " ", lipgloss.NewStyle()
		switch {
		case s == m.state && m.done && m.err != nil:
			icon, style = "✗", failedStyle
		case s < m.state || (s == m.state && m.done):
			icon, style = "✓", doneStyle
		case s == m.state:
			icon, style = "▶", currentStyle
		}
		b.WriteString(style.Render(fmt.Sprintf(" [%s] %s", icon, s)) + "\n")
	}
	return b.String()
}

func (m Model) renderFooter() string {
	switch {
	case m.done && m.err != nil:
		return failedStyle.Render(fmt.Sprintf("Failed: %v", m.err)) + "\nq: quit\n"
	case m.done:
		return "Done.\nq: quit\n"
	}
	return "q: stop stream and quit\n"
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.onQuit != nil {
			m.onQuit()
			m.onQuit = nil
		}
		return m, tea.Quit
	}
	return m, nil
}

// appendOutput splits text into lines and keeps the newest maxLines
func (m *Model) appendOutput(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		m.lines = append(m.lines, line)
	}
	if len(m.lines) > maxLines {
		m.lines = m.lines[len(m.lines)-maxLines:]
	}
}

func (m Model) lineWidth() int {
	if m.width <= 4 {
		return 100
	}
	return m.width - 2
}

// truncate cuts s to length terminal cells, never inside a rune
func truncate(s string, length int) string {
	return ansi.Truncate(s, length, "...")
}
