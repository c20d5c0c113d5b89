package feed

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Category colors for the card badge.
var categoryColors = map[string]lipgloss.Color{
	"technology":    lipgloss.Color("#58a6ff"), // blue
	"science":       lipgloss.Color("#7ee787"), // green
	"business":      lipgloss.Color("#ffa657"), // orange
	"sports":        lipgloss.Color("#3fb950"), // green
	"health":        lipgloss.Color("#f778ba"), // pink
	"entertainment": lipgloss.Color("#d2a8ff"), // purple
	"politics":      lipgloss.Color("#ff7b72"), // coral
	"travel":        lipgloss.Color("#a5d6ff"), // light blue
	"world":         lipgloss.Color("#c9d1d9"), // white
	"general":       lipgloss.Color("#8b949e"), // gray
}

func categoryColor(category string) lipgloss.Color {
	if c, ok := categoryColors[strings.ToLower(category)]; ok {
		return c
	}
	return lipgloss.Color("#8b949e")
}

// View renders one full-screen card. During the scroll animation a sliver
// of the neighboring card shows at the edge, tracking the spring position.
func (m Model) View() string {
	if m.loading {
		return m.centered("Loading your feed...")
	}
	if m.errMsg != "" {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#f85149"))
		return m.centered(style.Render("Error: " + m.errMsg + " (r to retry)"))
	}
	if len(m.items) == 0 {
		return m.centered("Nothing to read yet. Press r to refresh.")
	}

	cardHeight := m.height - 1
	if cardHeight < 3 {
		cardHeight = 3
	}

	// Offset of the viewport within the card strip, in rows.
	offsetRows := int(math.Round((m.scrollPos - math.Floor(m.scrollPos)) * float64(cardHeight)))
	first := int(math.Floor(m.scrollPos))

	var rows []string
	for i := first; i <= first+1 && len(rows) < cardHeight; i++ {
		if i < 0 || i >= len(m.items) {
			continue
		}
		card := strings.Split(m.renderCard(i, cardHeight), "\n")
		start := 0
		if i == first {
			start = offsetRows
		}
		for j := start; j < len(card) && len(rows) < cardHeight; j++ {
			rows = append(rows, card[j])
		}
	}
	for len(rows) < cardHeight {
		rows = append(rows, "")
	}

	return strings.Join(rows, "\n") + "\n" + m.statusBar()
}

// renderCard draws the card at index i at exactly height rows.
func (m Model) renderCard(i, height int) string {
	item := m.items[i]
	width := m.width - 4
	if width < 20 {
		width = 20
	}

	catColor := categoryColor(item.Category)
	badge := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#0d1117")).
		Background(catColor).
		Padding(0, 1).
		Render(item.Category)

	meta := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#8b949e")).
		Render(fmt.Sprintf("%s · %s · %s", item.Author, item.PublishDate, item.ReadTime))

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Bold(true).
		Width(width).
		Render(item.Title)

	bodyHeight := height - lipgloss.Height(badge) - lipgloss.Height(title) - 4
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#c9d1d9")).
		Width(width).
		MaxHeight(bodyHeight).
		Render(item.Summary)

	signals := m.renderSignals(i)

	content := strings.Join([]string{
		badge + "  " + meta,
		"",
		title,
		"",
		body,
		"",
		signals,
	}, "\n")

	container := lipgloss.NewStyle().
		BorderLeft(true).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(catColor).
		Padding(0, 1).
		Width(m.width - 2).
		Height(height)

	return container.Render(content)
}

// renderSignals shows the like/dislike/share state of the card.
func (m Model) renderSignals(i int) string {
	liked, disliked, shared := m.tracker.Signals(m.items[i].ID)

	on := lipgloss.NewStyle().Foreground(lipgloss.Color("#3fb950")).Bold(true)
	off := lipgloss.NewStyle().Foreground(lipgloss.Color("#484f58"))

	part := func(active bool, label string) string {
		if active {
			return on.Render("● " + label)
		}
		return off.Render("○ " + label)
	}

	return part(liked, "like") + "  " + part(disliked, "dislike") + "  " + part(shared, "shared")
}

func (m Model) statusBar() string {
	pos := fmt.Sprintf(" %d/%d ", m.index+1, len(m.items))
	hints := "j/k scroll · l like · d dislike · s share · enter read · p profile · q quit"

	left := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color("62")).
		Render(pos)
	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(" " + hints)

	return left + right
}

func (m Model) centered(content string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, style.Render(content))
}
