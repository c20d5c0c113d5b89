// Package interests implements the one-time onboarding view where a new
// reader picks the categories that seed the personalized feed.
package interests

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Categories the feed service ranks by.
var Categories = []string{
	"Technology",
	"Science",
	"Business",
	"Sports",
	"Health",
	"Entertainment",
	"Politics",
	"Travel",
	"World",
}

// Model is the category picker.
type Model struct {
	submit func(categories []string) tea.Cmd

	cursor   int
	selected map[int]bool
	busy     bool
	errMsg   string
	width    int
	height   int
}

// New creates the picker.
func New(submit func(categories []string) tea.Cmd) Model {
	return Model{
		submit:   submit,
		selected: make(map[int]bool),
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Fail surfaces a submit error and unlocks the picker.
func (m *Model) Fail(msg string) {
	m.busy = false
	m.errMsg = msg
}

// Selected returns the chosen category names in display order.
func (m Model) Selected() []string {
	var out []string
	for i, name := range Categories {
		if m.selected[i] {
			out = append(out, name)
		}
	}
	return out
}

// Update handles picker input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.busy {
		return m, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(Categories)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
		m.errMsg = ""
	case "enter":
		picked := m.Selected()
		if len(picked) == 0 {
			m.errMsg = "pick at least one category"
			return m, nil
		}
		m.busy = true
		return m, m.submit(picked)
	}
	return m, nil
}

// View renders the picker.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("62")).
		Padding(0, 1).
		Render("Newsreel · What do you want to read?")

	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	checkedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	for i, name := range Categories {
		mark := "[ ]"
		line := name
		if m.selected[i] {
			mark = checkedStyle.Render("[x]")
		}
		if i == m.cursor {
			line = cursorStyle.Render("> " + mark + " " + name)
		} else {
			line = dimStyle.Render("  "+mark) + " " + name
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("space toggle · enter continue"))

	if m.busy {
		b.WriteString("\n\n" + dimStyle.Render("Saving..."))
	}
	if m.errMsg != "" {
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render(m.errMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
