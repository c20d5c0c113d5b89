// Package detail implements the full-article reading view. It times the
// reading session and reports the combined feed+detail record on close.
package detail

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ebakir/newsreel/internal/model"
	"github.com/ebakir/newsreel/internal/track"
)

// ClosedMsg is sent when the reader leaves the detail view. Snapshot is
// the feed-side record taken on click-through; Seconds is the reading time
// spent inside the detail view.
type ClosedMsg struct {
	Snapshot track.Record
	Seconds  float64
}

// Model is the detail view.
type Model struct {
	item     model.NewsItem
	snapshot track.Record
	now      track.Clock
	opened   int64 // unix nanos at open

	vp    viewport.Model
	ready bool
}

// New creates a detail model for the given item. A nil clock defaults to
// the snapshot-less real clock.
func New(item model.NewsItem, snapshot track.Record, now track.Clock) Model {
	if now == nil {
		now = time.Now
	}
	m := Model{
		item:     item,
		snapshot: snapshot,
		now:      now,
	}
	m.opened = m.now().UnixNano()
	return m
}

// Item returns the article being read.
func (m Model) Item() model.NewsItem {
	return m.item
}

// SetItem replaces the article once the full body arrives and re-renders
// the viewport. The reading clock keeps running from the original open.
func (m *Model) SetItem(item model.NewsItem) {
	m.item = item
	if m.ready {
		m.vp.SetContent(m.renderContent(m.vp.Width))
	}
}

// Seconds returns the elapsed reading time, rounded to whole seconds.
func (m Model) Seconds() float64 {
	d := m.now().UnixNano() - m.opened
	if d < 0 {
		d = 0
	}
	return math.Round(float64(d) / 1e9)
}

// SetSize sizes the content viewport.
func (m *Model) SetSize(width, height int) {
	headerHeight := 4
	vpHeight := height - headerHeight - 1
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.vp = viewport.New(width, vpHeight)
		m.vp.SetContent(m.renderContent(width))
		m.ready = true
		return
	}
	m.vp.Width = width
	m.vp.Height = vpHeight
	m.vp.SetContent(m.renderContent(width))
}

// Update handles reading input. Esc and backspace close the view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace", "q":
			return m, m.close()
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m Model) close() tea.Cmd {
	msg := ClosedMsg{Snapshot: m.snapshot, Seconds: m.Seconds()}
	return func() tea.Msg { return msg }
}

func (m Model) renderContent(width int) string {
	textWidth := width - 4
	if textWidth < 20 {
		textWidth = 20
	}

	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#c9d1d9")).
		Width(textWidth).
		Render(m.item.Content)

	link := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#58a6ff")).
		Underline(true)

	var b strings.Builder
	if m.item.ImageURL != "" {
		b.WriteString(link.Render(m.item.ImageURL))
		b.WriteString("\n\n")
	}
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(link.Render(m.item.URL))
	b.WriteString("\n")
	return b.String()
}

// View renders the article with a fixed header and a scrollable body.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Bold(true).
		Width(m.vp.Width).
		Render(m.item.Title)

	meta := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#8b949e")).
		Render(fmt.Sprintf("%s · %s · %s · %s", m.item.Category, m.item.Author, m.item.PublishDate, m.item.ReadTime))

	pct := fmt.Sprintf("%3.0f%%", m.vp.ScrollPercent()*100)
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(" " + pct + " · up/down scroll · esc back")

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(meta)
	b.WriteString("\n\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	b.WriteString(footer)
	return b.String()
}
