// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the channels it signals on
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Controls carries user requests from the TUI to the application
type Controls struct {
	Toggle chan struct{}
	Quit   chan struct{}
}

// NewControls creates a control handler
func NewControls() *Controls {
	return &Controls{
		Toggle: make(chan struct{}, 10),
		Quit:   make(chan struct{}, 1),
	}
}

// Run creates the TUI program; the caller runs it
func Run(ctrl *Controls, info InfoMsg) (*tea.Program, error) {
	model := NewModel(ctrl)
	model.applyInfo(info)
	p := tea.NewProgram(model, tea.WithAltScreen())
	return p, nil
}
