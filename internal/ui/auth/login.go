package auth

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loginStep tracks which half of the two-step login is showing.
type loginStep int

const (
	stepCredentials loginStep = iota
	stepCode
)

// SwitchToRegisterMsg asks the root model to show the registration form.
type SwitchToRegisterMsg struct{}

// LoginModel is the two-step login form: email+password first, then the
// emailed verification code.
type LoginModel struct {
	submit func(email, password string) tea.Cmd
	verify func(email, code string) tea.Cmd

	step   loginStep
	email  textinput.Model
	pass   textinput.Model
	code   textinput.Model
	focus  int
	busy   bool
	errMsg string
	notice string
	width  int
	height int
}

// NewLogin creates the login form with the given command functions.
func NewLogin(submit func(email, password string) tea.Cmd, verify func(email, code string) tea.Cmd) LoginModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 128
	email.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.CharLimit = 128

	code := textinput.New()
	code.Placeholder = "6-digit code"
	code.CharLimit = 6

	return LoginModel{
		submit: submit,
		verify: verify,
		email:  email,
		pass:   pass,
		code:   code,
	}
}

// SetSize updates the view dimensions.
func (m *LoginModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetNotice shows a transient message, e.g. after registration.
func (m *LoginModel) SetNotice(msg string) {
	m.notice = msg
}

// Fail surfaces a submit error and unlocks the form.
func (m *LoginModel) Fail(msg string) {
	m.busy = false
	m.errMsg = msg
}

// CodeSent advances to the verification step.
func (m *LoginModel) CodeSent() {
	m.busy = false
	m.errMsg = ""
	m.step = stepCode
	m.email.Blur()
	m.pass.Blur()
	m.code.Focus()
}

// Email returns the address being logged in.
func (m LoginModel) Email() string {
	return strings.TrimSpace(m.email.Value())
}

// Update handles form input.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey && m.busy {
		return m, nil
	}

	if isKey {
		switch keyMsg.String() {
		case "tab", "shift+tab", "up", "down":
			if m.step == stepCredentials {
				m.toggleFocus()
			}
			return m, nil
		case "enter":
			return m.handleSubmit()
		case "ctrl+r":
			if m.step == stepCredentials {
				return m, func() tea.Msg { return SwitchToRegisterMsg{} }
			}
		case "esc":
			if m.step == stepCode {
				// Back to credentials; the code expires server-side.
				m.step = stepCredentials
				m.code.Blur()
				m.code.SetValue("")
				m.focus = 0
				m.email.Focus()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch {
	case m.step == stepCode:
		m.code, cmd = m.code.Update(msg)
	case m.focus == 0:
		m.email, cmd = m.email.Update(msg)
	default:
		m.pass, cmd = m.pass.Update(msg)
	}
	return m, cmd
}

func (m *LoginModel) toggleFocus() {
	m.focus = (m.focus + 1) % 2
	if m.focus == 0 {
		m.email.Focus()
		m.pass.Blur()
	} else {
		m.email.Blur()
		m.pass.Focus()
	}
}

func (m LoginModel) handleSubmit() (LoginModel, tea.Cmd) {
	m.errMsg = ""
	m.notice = ""

	if m.step == stepCode {
		code := strings.TrimSpace(m.code.Value())
		if code == "" {
			m.errMsg = "enter the code from your email"
			return m, nil
		}
		m.busy = true
		return m, m.verify(m.Email(), code)
	}

	if !ValidEmail(m.Email()) {
		m.errMsg = "enter a valid email address"
		return m, nil
	}
	if m.pass.Value() == "" {
		m.errMsg = "enter your password"
		return m, nil
	}
	m.busy = true
	return m, m.submit(m.Email(), m.pass.Value())
}

// View renders the form.
func (m LoginModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("62")).
		Padding(0, 1).
		Render("Newsreel · Sign in")

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")

	if m.step == stepCode {
		b.WriteString("A verification code was sent to " + m.Email() + "\n\n")
		b.WriteString("Code\n")
		b.WriteString(m.code.View())
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("enter verify · esc back"))
	} else {
		b.WriteString("Email\n")
		b.WriteString(m.email.View())
		b.WriteString("\n\nPassword\n")
		b.WriteString(m.pass.View())
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("enter sign in · tab next field · ctrl+r register"))
	}

	if m.busy {
		b.WriteString("\n\n" + hintStyle.Render("Working..."))
	}
	if m.errMsg != "" {
		b.WriteString("\n\n" + errStyle.Render(m.errMsg))
	}
	if m.notice != "" {
		b.WriteString("\n\n" + noticeStyle.Render(m.notice))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

var (
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
)
