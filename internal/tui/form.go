package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formField struct {
	Label    string
	Password bool
}

// form is a focus-cycling group of text inputs with an error line under each.
type form struct {
	inputs []textinput.Model
	errs   []string
	focus  int
}

func newForm(fields ...formField) form {
	f := form{
		inputs: make([]textinput.Model, 0, len(fields)),
		errs:   make([]string, len(fields)),
	}
	for i, fd := range fields {
		inp := textinput.New()
		inp.Prompt = fd.Label + ": "
		inp.PromptStyle = titleStyle
		inp.Cursor.Style = cursorStyle
		inp.Cursor.SetMode(cursor.CursorStatic)
		if fd.Password {
			inp.EchoMode = textinput.EchoPassword
			inp.EchoCharacter = '•'
		}
		if i == 0 {
			inp.Focus()
		}
		f.inputs = append(f.inputs, inp)
	}
	return f
}

func (f *form) value(i int) string { return f.inputs[i].Value() }

func (f *form) setValue(i int, v string) { f.inputs[i].SetValue(v) }

func (f *form) setErr(i int, msg string) { f.errs[i] = msg }

func (f *form) clearErrs() {
	for i := range f.errs {
		f.errs[i] = ""
	}
}

func (f *form) move(dir int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + dir + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// update handles focus keys and forwards everything else to the focused
// input. Editing a field clears its error.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Next):
			f.move(1)
			return nil
		case key.Matches(k, keys.Prev):
			f.move(-1)
			return nil
		}
	}
	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if f.inputs[f.focus].Value() != before {
		f.errs[f.focus] = ""
	}
	return cmd
}

func (f *form) view() string {
	lines := make([]string, 0, len(f.inputs)*2)
	for i, in := range f.inputs {
		lines = append(lines, in.View())
		if f.errs[i] != "" {
			lines = append(lines, fieldErrStyle.Render("  "+f.errs[i]))
		}
	}
	return strings.Join(lines, "\n")
}
