// ABOUTME: TUI initialization and output plumbing
// ABOUTME: Wraps the bubbletea program and adapts demo output into messages
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run creates the TUI program; the caller starts it with Run on the program
func Run(model Model) *tea.Program {
	return tea.NewProgram(model, tea.WithAltScreen())
}

// Writer forwards written text to the TUI as OutputMsg
type Writer struct {
	send func(tea.Msg)
}

// NewWriter creates a writer sending to p
func NewWriter(p *tea.Program) *Writer {
	return &Writer{send: p.Send}
}

// Write implements io.Writer
func (w *Writer) Write(p []byte) (int, error) {
	w.send(OutputMsg{Text: string(p)})
	return len(p), nil
}
