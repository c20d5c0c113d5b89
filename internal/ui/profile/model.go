// Package profile implements the account view: profile fields, the
// server-computed interest scores, and profile editing.
package profile

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ebakir/newsreel/internal/api"
)

// BackMsg asks the root model to return to the feed.
type BackMsg struct{}

const (
	fieldName = iota
	fieldSurname
	fieldPhone
	fieldPassword
	fieldCount
)

// Model is the profile view. It starts read-only; "e" switches to edit
// mode.
type Model struct {
	save  func(up api.ProfileUpdate) tea.Cmd
	reset func() tea.Cmd

	account api.Account
	scores  []api.CategoryScore
	loaded  bool

	editing bool
	fields  [fieldCount]textinput.Model
	focus   int
	busy    bool
	errMsg  string
	notice  string
	width   int
	height  int
}

// New creates the profile view.
func New(save func(up api.ProfileUpdate) tea.Cmd, reset func() tea.Cmd) Model {
	labels := [fieldCount]string{"Name", "Surname", "Phone", "New password (optional)"}

	var m Model
	m.save = save
	m.reset = reset
	for i := range m.fields {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 128
		if i == fieldPassword {
			in.EchoMode = textinput.EchoPassword
		}
		m.fields[i] = in
	}
	return m
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetAccount installs the loaded profile record.
func (m *Model) SetAccount(acc api.Account) {
	m.account = acc
	m.loaded = true
	m.fields[fieldName].SetValue(acc.Name)
	m.fields[fieldSurname].SetValue(acc.Surname)
	m.fields[fieldPhone].SetValue(acc.PhoneNumber)
	m.fields[fieldPassword].SetValue("")
}

// SetScores installs the interest scores.
func (m *Model) SetScores(scores []api.CategoryScore) {
	m.scores = scores
}

// Saved confirms a profile update.
func (m *Model) Saved() {
	m.busy = false
	m.editing = false
	m.notice = "Profile saved"
	m.account.Name = strings.TrimSpace(m.fields[fieldName].Value())
	m.account.Surname = strings.TrimSpace(m.fields[fieldSurname].Value())
	m.account.PhoneNumber = strings.TrimSpace(m.fields[fieldPhone].Value())
}

// ScoresCleared confirms an interest profile reset.
func (m *Model) ScoresCleared() {
	m.busy = false
	m.scores = nil
	m.notice = "Interest scores reset"
}

// Fail surfaces an error and unlocks the view.
func (m *Model) Fail(msg string) {
	m.busy = false
	m.errMsg = msg
}

// Update handles profile input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey || m.busy {
		return m, nil
	}

	if m.editing {
		return m.updateEditing(keyMsg)
	}

	switch keyMsg.String() {
	case "e":
		m.editing = true
		m.errMsg = ""
		m.notice = ""
		m.setFocus(fieldName)
	case "r":
		m.busy = true
		m.notice = ""
		return m, m.reset()
	case "esc", "q", "backspace":
		return m, func() tea.Msg { return BackMsg{} }
	}
	return m, nil
}

func (m Model) updateEditing(keyMsg tea.KeyMsg) (Model, tea.Cmd) {
	switch keyMsg.String() {
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "esc":
		m.editing = false
		m.fields[m.focus].Blur()
		m.SetAccount(m.account) // discard edits
		return m, nil
	case "enter":
		return m.handleSave()
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(keyMsg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.fields[m.focus].Blur()
	m.focus = i
	m.fields[i].Focus()
}

func (m Model) handleSave() (Model, tea.Cmd) {
	m.errMsg = ""

	name := strings.TrimSpace(m.fields[fieldName].Value())
	surname := strings.TrimSpace(m.fields[fieldSurname].Value())
	if name == "" || surname == "" {
		m.errMsg = "name and surname are required"
		return m, nil
	}

	up := api.ProfileUpdate{
		Name:        name,
		Surname:     surname,
		PhoneNumber: strings.TrimSpace(m.fields[fieldPhone].Value()),
	}
	if pw := m.fields[fieldPassword].Value(); pw != "" {
		up.Password = pw
	}

	m.busy = true
	return m, m.save(up)
}

// View renders the profile.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("62")).
		Padding(0, 1).
		Render("Newsreel · Profile")

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(dimStyle.Render("Loading profile..."))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	if m.editing {
		labels := [fieldCount]string{"Name", "Surname", "Phone", "New password (optional)"}
		for i := range m.fields {
			if i == m.focus {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Render(labels[i]))
			} else {
				b.WriteString(dimStyle.Render(labels[i]))
			}
			b.WriteString("\n")
			b.WriteString(m.fields[i].View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter save · tab next field · esc cancel"))
	} else {
		b.WriteString(fmt.Sprintf("%s %s\n", m.account.Name, m.account.Surname))
		b.WriteString(dimStyle.Render(m.account.Email))
		b.WriteString("\n")
		if m.account.PhoneNumber != "" {
			b.WriteString(dimStyle.Render(m.account.PhoneNumber))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.renderScores())
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("e edit · r reset interest scores · esc back"))
	}

	if m.busy {
		b.WriteString("\n\n" + dimStyle.Render("Working..."))
	}
	if m.errMsg != "" {
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render(m.errMsg))
	}
	if m.notice != "" {
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Render(m.notice))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// renderScores draws the interest profile as horizontal bars.
func (m Model) renderScores() string {
	if len(m.scores) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("No interest profile yet.") + "\n"
	}

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Interests"))
	b.WriteString("\n")
	for _, s := range m.scores {
		width := 20
		filled := int(s.Score * float64(width))
		if filled > width {
			filled = width
		}
		if filled < 0 {
			filled = 0
		}
		bar := barStyle.Render(strings.Repeat("█", filled)) + emptyStyle.Render(strings.Repeat("░", width-filled))
		b.WriteString(fmt.Sprintf("%-14s %s %.0f%%\n", s.Category, bar, s.Score*100))
	}
	return b.String()
}
