package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/einar/transportapp/internal/state"
)

type StatusMsg struct {
	Text  string
	IsErr bool
}

// pushScreenMsg opens Screen on top of the stack; Status, when set, replaces
// the status line.
type pushScreenMsg struct {
	Screen Screen
	Status string
}

// popScreenMsg closes the top screen.
type popScreenMsg struct {
	Status string
}

type restoredEmailMsg struct {
	Email string
	Err   error
}

type registerDoneMsg struct {
	Result state.RegisterResult
}

type organizationDoneMsg struct {
	Result state.OrganizationResult
}

func StatusCmd(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

func ErrorCmd(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text, IsErr: true} }
}

func waitRegister(ch <-chan state.RegisterResult) tea.Cmd {
	return func() tea.Msg { return registerDoneMsg{Result: <-ch} }
}

func waitOrganization(ch <-chan state.OrganizationResult) tea.Cmd {
	return func() tea.Msg { return organizationDoneMsg{Result: <-ch} }
}
