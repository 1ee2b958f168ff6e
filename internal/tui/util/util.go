// Package util provides shared types for TUI components.
package util

import (
	tea "charm.land/bubbletea/v2"
)

// Model is the interface every TUI component implements. It mirrors
// tea.Model but returns the concrete component from Update so parents
// can keep typed references to their children.
type Model interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Model, tea.Cmd)
	View() string
}

// CmdHandler wraps a message in a command. Components use it to emit
// messages to their parent without blocking the update loop.
func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// InfoType classifies informational messages shown in the status area.
type InfoType int

// Info message types.
const (
	InfoTypeInfo InfoType = iota
	InfoTypeSuccess
	InfoTypeWarn
	InfoTypeError
)

// InfoMsg carries a user-facing notification.
type InfoMsg struct {
	Msg  string
	Type InfoType
}

// ReportInfo returns a command that reports an informational message.
func ReportInfo(msg string) tea.Cmd {
	return CmdHandler(InfoMsg{Type: InfoTypeInfo, Msg: msg})
}

// ReportSuccess returns a command that reports a success message.
func ReportSuccess(msg string) tea.Cmd {
	return CmdHandler(InfoMsg{Type: InfoTypeSuccess, Msg: msg})
}

// ReportWarn returns a command that reports a warning message.
func ReportWarn(msg string) tea.Cmd {
	return CmdHandler(InfoMsg{Type: InfoTypeWarn, Msg: msg})
}

// ReportError returns a command that reports an error message.
func ReportError(err error) tea.Cmd {
	return CmdHandler(InfoMsg{Type: InfoTypeError, Msg: err.Error()})
}
