package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginForm struct {
	email    textinput.Model
	password textinput.Model
	focus    int
}

func newLoginForm(email string) loginForm {
	e := textinput.New()
	e.Placeholder = "you@example.com"
	e.CharLimit = 200
	e.Width = 40
	e.SetValue(email)

	p := textinput.New()
	p.Placeholder = "password"
	p.CharLimit = 200
	p.Width = 40
	p.EchoMode = textinput.EchoPassword
	p.EchoCharacter = '•'

	f := loginForm{email: e, password: p}
	if email != "" {
		f.focus = 1
	}
	f.applyFocus()
	return f
}

func (f *loginForm) applyFocus() tea.Cmd {
	if f.focus == 0 {
		f.password.Blur()
		return f.email.Focus()
	}
	f.email.Blur()
	return f.password.Focus()
}

func (f *loginForm) toggle() tea.Cmd {
	f.focus = 1 - f.focus
	return f.applyFocus()
}

// credentials returns the trimmed email and the password, and whether both
// are filled in.
func (f *loginForm) credentials() (string, string, bool) {
	email := strings.TrimSpace(f.email.Value())
	password := f.password.Value()
	return email, password, email != "" && password != ""
}

func (f *loginForm) clearPassword() {
	f.password.SetValue("")
	f.focus = 1
	f.applyFocus()
}

func (f *loginForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == 0 {
		f.email, cmd = f.email.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return cmd
}

func (f *loginForm) view(s *Styles) string {
	field := func(label string, in textinput.Model, focused bool) string {
		style := s.Input
		if focused {
			style = s.InputFocused
		}
		return lipgloss.JoinVertical(lipgloss.Left, s.Label.Render(label), style.Render(in.View()))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Sign in to taskboard"),
		"",
		field("Email", f.email, f.focus == 0),
		field("Password", f.password, f.focus == 1),
		"",
		s.TitleMuted.Render("tab switch field • enter sign in • ctrl+c quit"),
	)
}
