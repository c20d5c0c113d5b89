package auth

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ebakir/newsreel/internal/api"
)

// SwitchToLoginMsg asks the root model to show the login form.
type SwitchToLoginMsg struct{}

const (
	fieldName = iota
	fieldSurname
	fieldEmail
	fieldPhone
	fieldPassword
	fieldConfirm
	fieldCount
)

// RegisterModel is the account registration form.
type RegisterModel struct {
	submit func(req api.RegisterRequest) tea.Cmd

	fields [fieldCount]textinput.Model
	focus  int
	busy   bool
	errMsg string
	width  int
	height int
}

// NewRegister creates the registration form.
func NewRegister(submit func(req api.RegisterRequest) tea.Cmd) RegisterModel {
	labels := [fieldCount]string{"Name", "Surname", "Email", "Phone", "Password", "Confirm password"}

	var m RegisterModel
	m.submit = submit
	for i := range m.fields {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 128
		if i == fieldPassword || i == fieldConfirm {
			in.EchoMode = textinput.EchoPassword
		}
		m.fields[i] = in
	}
	m.fields[fieldName].Focus()
	return m
}

// SetSize updates the view dimensions.
func (m *RegisterModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Fail surfaces a submit error and unlocks the form.
func (m *RegisterModel) Fail(msg string) {
	m.busy = false
	m.errMsg = msg
}

// Update handles form input.
func (m RegisterModel) Update(msg tea.Msg) (RegisterModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.busy {
			return m, nil
		}
		switch keyMsg.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "enter":
			return m.handleSubmit()
		case "esc":
			return m, func() tea.Msg { return SwitchToLoginMsg{} }
		}
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *RegisterModel) setFocus(i int) {
	m.fields[m.focus].Blur()
	m.focus = i
	m.fields[i].Focus()
}

func (m RegisterModel) value(i int) string {
	return strings.TrimSpace(m.fields[i].Value())
}

func (m RegisterModel) handleSubmit() (RegisterModel, tea.Cmd) {
	m.errMsg = ""

	switch {
	case m.value(fieldName) == "":
		m.errMsg = "name is required"
	case m.value(fieldSurname) == "":
		m.errMsg = "surname is required"
	case !ValidEmail(m.value(fieldEmail)):
		m.errMsg = "enter a valid email address"
	}
	if m.errMsg != "" {
		return m, nil
	}

	if err := ValidatePassword(m.fields[fieldPassword].Value()); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	if m.fields[fieldPassword].Value() != m.fields[fieldConfirm].Value() {
		m.errMsg = "passwords do not match"
		return m, nil
	}

	m.busy = true
	return m, m.submit(api.RegisterRequest{
		Name:     m.value(fieldName),
		Surname:  m.value(fieldSurname),
		Email:    m.value(fieldEmail),
		Phone:    m.value(fieldPhone),
		Password: m.fields[fieldPassword].Value(),
	})
}

// View renders the form.
func (m RegisterModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("62")).
		Padding(0, 1).
		Render("Newsreel · Create account")

	labels := [fieldCount]string{"Name", "Surname", "Email", "Phone", "Password", "Confirm password"}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	for i := range m.fields {
		label := labels[i]
		if i == m.focus {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Render(label))
		} else {
			b.WriteString(hintStyle.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(m.fields[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter create account · tab next field · esc back to sign in"))

	if m.busy {
		b.WriteString("\n\n" + hintStyle.Render("Working..."))
	}
	if m.errMsg != "" {
		b.WriteString("\n\n" + errStyle.Render(m.errMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
