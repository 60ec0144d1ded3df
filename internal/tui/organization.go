package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/einar/transportapp/internal/countries"
	"github.com/einar/transportapp/internal/state"
	"github.com/einar/transportapp/internal/validation"
)

const (
	fieldName = iota
	fieldCountry
)

const (
	MsgOrganizationCreated = "Organización creada con éxito"
	msgCreating            = "Creando organización..."
	maxCountryRows         = 6
)

// OrganizationScreen creates an organization for the registered email. It owns
// its holder and closes it when popped.
type OrganizationScreen struct {
	holder    *state.Organization
	reg       *state.Registration
	countries []string
	form      form
	matches   []string
	cursor    int
	busy      bool
}

func NewOrganizationScreen(holder *state.Organization, reg *state.Registration, list []string) *OrganizationScreen {
	s := &OrganizationScreen{
		holder:    holder,
		reg:       reg,
		countries: list,
		form: newForm(
			formField{Label: "Nombre de la organización"},
			formField{Label: "País de operación"},
		),
	}
	s.matches = countries.Filter("", list)
	return s
}

func (s *OrganizationScreen) Init() tea.Cmd { return nil }

func (s *OrganizationScreen) Title() string { return "Crear organización" }

func (s *OrganizationScreen) Close() { s.holder.Close() }

func (s *OrganizationScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case organizationDoneMsg:
		return s, s.created(msg.Result)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Back):
			return s, func() tea.Msg { return popScreenMsg{} }
		case key.Matches(msg, keys.Submit):
			return s, s.submit()
		case s.form.focus == fieldCountry && key.Matches(msg, keys.Up):
			s.moveCursor(-1)
			return s, nil
		case s.form.focus == fieldCountry && key.Matches(msg, keys.Down):
			s.moveCursor(1)
			return s, nil
		}
	}
	before := s.form.value(fieldCountry)
	cmd := s.form.update(msg)
	if q := s.form.value(fieldCountry); q != before {
		s.matches = countries.Filter(q, s.countries)
		s.cursor = 0
	}
	return s, cmd
}

func (s *OrganizationScreen) moveCursor(dir int) {
	if len(s.matches) == 0 {
		return
	}
	s.cursor = (s.cursor + dir + len(s.matches)) % len(s.matches)
}

// country resolves the typed text to a list entry: a typo-tolerant match
// first, then the highlighted suggestion. Unresolvable text is returned as
// typed so validation can reject it.
func (s *OrganizationScreen) country() string {
	q := strings.TrimSpace(s.form.value(fieldCountry))
	if q == "" {
		return ""
	}
	if c, ok := countries.Match(q, s.countries); ok {
		return c
	}
	if s.cursor < len(s.matches) {
		return s.matches[s.cursor]
	}
	return q
}

func (s *OrganizationScreen) submit() tea.Cmd {
	if s.busy {
		return nil
	}
	s.form.clearErrs()
	email, _ := s.reg.RegisteredEmail()
	name := strings.TrimSpace(s.form.value(fieldName))
	country := s.country()
	err := validation.Organization(validation.OrganizationForm{
		Name:      name,
		Country:   country,
		Email:     email,
		Countries: s.countries,
	})
	if err != nil {
		var fe *validation.FieldError
		if !errors.As(err, &fe) {
			return ErrorCmd(err.Error())
		}
		switch fe.Field {
		case "nombre":
			s.form.setErr(fieldName, fe.Message)
		case "país":
			s.form.setErr(fieldCountry, fe.Message)
		default:
			return ErrorCmd(fe.Message)
		}
		return nil
	}
	s.busy = true
	s.form.setValue(fieldCountry, country)
	ch := s.holder.CreateOrganization(name, country, email)
	return tea.Batch(StatusCmd(msgCreating), waitOrganization(ch))
}

func (s *OrganizationScreen) created(res state.OrganizationResult) tea.Cmd {
	s.busy = false
	if !res.OK() {
		return ErrorCmd(res.Message())
	}
	return func() tea.Msg { return popScreenMsg{Status: MsgOrganizationCreated} }
}

func (s *OrganizationScreen) View(width, height int) string {
	body := s.form.view()
	if s.form.focus == fieldCountry {
		rows := make([]string, 0, maxCountryRows)
		start := max(0, s.cursor-maxCountryRows+1)
		for i := start; i < len(s.matches) && i < start+maxCountryRows; i++ {
			c := s.matches[i]
			if i == s.cursor {
				rows = append(rows, selectedStyle.Render("> "+c))
			} else {
				rows = append(rows, hintStyle.Render("  "+c))
			}
		}
		if len(rows) > 0 {
			body += "\n" + strings.Join(rows, "\n")
		}
	}
	if email, ok := s.reg.RegisteredEmail(); ok {
		body += "\n\n" + hintStyle.Render("Email: "+email)
	}
	if s.busy {
		body += "\n\n" + hintStyle.Render(msgCreating)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(s.Title()),
		formStyle.Width(max(20, width-4)).Render(body),
		helpLine(keys.Next, keys.Down, keys.Submit, keys.Back),
	)
}
