package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/einar/transportapp/internal/api"
	"github.com/einar/transportapp/internal/state"
	"github.com/einar/transportapp/internal/validation"
)

const (
	tabLogin = iota
	tabRegister
)

const (
	fieldEmail = iota
	fieldPassword
	fieldConfirm
)

const (
	MsgRegistered       = "Registro exitoso"
	MsgLoginUnavailable = "El inicio de sesión aún no está disponible"
	msgRegistering      = "Registrando..."
)

var tabNames = []string{"Iniciar sesión", "Registrarse"}

// AuthScreen holds the login and register tabs.
type AuthScreen struct {
	reg      *state.Registration
	newOrg   func() Screen
	tab      int
	login    form
	register form
	busy     bool
}

func NewAuthScreen(reg *state.Registration, newOrg func() Screen) *AuthScreen {
	return &AuthScreen{
		reg:    reg,
		newOrg: newOrg,
		tab:    tabRegister,
		login: newForm(
			formField{Label: "Email"},
			formField{Label: "Contraseña", Password: true},
		),
		register: newForm(
			formField{Label: "Email"},
			formField{Label: "Contraseña", Password: true},
			formField{Label: "Confirmar contraseña", Password: true},
		),
	}
}

func (s *AuthScreen) Init() tea.Cmd { return nil }

func (s *AuthScreen) Title() string { return "Autenticación" }

func (s *AuthScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		return s, s.registered(msg.Result)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.SwitchTab):
			s.tab = (s.tab + 1) % len(tabNames)
			return s, nil
		case key.Matches(msg, keys.Submit):
			if s.tab == tabLogin {
				return s, s.submitLogin()
			}
			return s, s.submitRegister()
		}
	}
	return s, s.active().update(msg)
}

func (s *AuthScreen) active() *form {
	if s.tab == tabLogin {
		return &s.login
	}
	return &s.register
}

func (s *AuthScreen) submitLogin() tea.Cmd {
	s.login.clearErrs()
	fe := validation.Login(s.login.value(fieldEmail), s.login.value(fieldPassword))
	s.login.setErr(fieldEmail, fe.Email)
	s.login.setErr(fieldPassword, fe.Password)
	if !fe.OK() {
		return nil
	}
	return ErrorCmd(MsgLoginUnavailable)
}

func (s *AuthScreen) submitRegister() tea.Cmd {
	if s.busy {
		return nil
	}
	f := &s.register
	f.clearErrs()
	email := f.value(fieldEmail)
	password := f.value(fieldPassword)
	ok := validation.Fields(email, password, f.value(fieldConfirm),
		func(m string) { f.setErr(fieldEmail, m) },
		func(m string) { f.setErr(fieldPassword, m) },
		func(m string) { f.setErr(fieldConfirm, m) },
	)
	if !ok {
		return nil
	}
	s.busy = true
	ch := s.reg.Register(api.RegisterRequest{Email: strings.TrimSpace(email), Password: password})
	return tea.Batch(StatusCmd(msgRegistering), waitRegister(ch))
}

func (s *AuthScreen) registered(res state.RegisterResult) tea.Cmd {
	s.busy = false
	if !res.OK() {
		return ErrorCmd(res.Message())
	}
	s.register.setValue(fieldPassword, "")
	s.register.setValue(fieldConfirm, "")
	next := s.newOrg()
	return func() tea.Msg { return pushScreenMsg{Screen: next, Status: MsgRegistered} }
}

func (s *AuthScreen) View(width, height int) string {
	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if i == s.tab {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	body := s.active().view()
	if email, ok := s.reg.RegisteredEmail(); ok && s.tab == tabRegister {
		body += "\n\n" + hintStyle.Render("Último registro: "+email)
	}
	if s.busy {
		body += "\n\n" + hintStyle.Render(msgRegistering)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		formStyle.Width(max(20, width-4)).Render(body),
		helpLine(keys.Next, keys.Submit, keys.SwitchTab, keys.Quit),
	)
}
