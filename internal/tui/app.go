package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/einar/transportapp/internal/logging"
	"github.com/einar/transportapp/internal/state"
)

// LastEmail looks up the most recently registered email in local history.
type LastEmail interface {
	LastRegisteredEmail(ctx context.Context) (string, error)
}

type Deps struct {
	Registration  *state.Registration
	Organizations state.OrganizationCreator
	History       LastEmail
	Countries     []string
	Log           *slog.Logger
}

// App ties together the screens.
type App struct {
	ctx    context.Context
	deps   Deps
	log    *slog.Logger
	stack  ScreenStack
	status StatusMsg
	width  int
	height int
}

func New(ctx context.Context, deps Deps) *App {
	a := &App{ctx: ctx, deps: deps, log: logging.OrDiscard(deps.Log)}
	a.stack.Push(NewAuthScreen(deps.Registration, a.newOrganizationScreen))
	return a
}

func (a *App) newOrganizationScreen() Screen {
	holder := state.NewOrganization(a.ctx, a.deps.Organizations, a.log)
	return NewOrganizationScreen(holder, a.deps.Registration, a.deps.Countries)
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadLastEmail(), a.stack.Top().Init())
}

func (a *App) loadLastEmail() tea.Cmd {
	if a.deps.History == nil {
		return nil
	}
	return func() tea.Msg {
		email, err := a.deps.History.LastRegisteredEmail(a.ctx)
		return restoredEmailMsg{Email: email, Err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case tea.KeyMsg:
		if key.Matches(m, keys.Quit) {
			a.closeAll()
			return a, tea.Quit
		}
	case StatusMsg:
		a.status = m
		return a, nil
	case restoredEmailMsg:
		if m.Err != nil {
			a.log.Warn("load last registered email", "error", m.Err)
		} else if m.Email != "" {
			a.deps.Registration.Restore(m.Email)
		}
		return a, nil
	case pushScreenMsg:
		a.stack.Push(m.Screen)
		if m.Status != "" {
			a.status = StatusMsg{Text: m.Status}
		}
		return a, m.Screen.Init()
	case popScreenMsg:
		if a.stack.Len() > 1 {
			closeScreen(a.stack.Pop())
		}
		if m.Status != "" {
			a.status = StatusMsg{Text: m.Status}
		}
		return a, nil
	}

	top := a.stack.Top()
	if top == nil {
		return a, nil
	}
	next, cmd := top.Update(msg)
	if next != top {
		closeScreen(a.stack.Replace(next))
	}
	return a, cmd
}

// closeAll cancels whatever the open screens still have in flight.
func (a *App) closeAll() {
	for a.stack.Len() > 1 {
		closeScreen(a.stack.Pop())
	}
	a.deps.Registration.Close()
}

func (a *App) View() string {
	top := a.stack.Top()
	if top == nil {
		return ""
	}
	width := a.width
	if width <= 0 {
		width = 80
	}
	header := headerStyle.Render("Transport App") + hintStyle.Render("  ·  "+top.Title())
	body := top.View(width, a.height)
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", a.renderStatus(width))
}

func (a *App) renderStatus(width int) string {
	if a.status.Text == "" {
		return ""
	}
	text := ansi.Truncate(a.status.Text, width-2, "…")
	if a.status.IsErr {
		return statusErrBarStyle.Render(" " + text + " ")
	}
	return statusBarStyle.Render(" " + text + " ")
}

// Status returns the current status line.
func (a *App) Status() StatusMsg { return a.status }

// Top returns the screen on top of the stack.
func (a *App) Top() Screen { return a.stack.Top() }
