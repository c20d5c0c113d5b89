// Package feed implements the single-card reading view: one full-screen
// news card at a time, spring-animated scrolling between cards, and the
// visibility reconciler that decides which card is the active one.
package feed

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/ebakir/newsreel/internal/logging"
	"github.com/ebakir/newsreel/internal/model"
	"github.com/ebakir/newsreel/internal/reconcile"
	"github.com/ebakir/newsreel/internal/track"
)

// Recorder receives flushed interaction records and read receipts.
type Recorder interface {
	Submit(rec track.Record)
	MarkRead(newsID string)
}

// Positions persists the feed position between runs.
type Positions interface {
	SetFeedIndex(i int) error
	SetClickedIndex(i int) error
}

// Config carries the tunable scroll and reconciliation parameters.
type Config struct {
	// VisibilityThreshold is the minimum visible fraction before a card
	// can become active.
	VisibilityThreshold float64
	// Debounce is the quiet window before visibility samples are acted on.
	Debounce time.Duration
	// Transition is how long navigation is locked after a card change.
	Transition time.Duration
	// SwipeThreshold is the mouse drag distance, in rows, that counts as
	// a swipe.
	SwipeThreshold int
}

// OpenDetailMsg asks the root model to switch to the detail view. Snapshot
// carries the feed-side dwell time; the detail view reports the combined
// record on close.
type OpenDetailMsg struct {
	Item     model.NewsItem
	Snapshot track.Record
}

// Model is the feed view.
type Model struct {
	cfg     Config
	now     track.Clock
	rec     Recorder
	pos     Positions
	tracker *track.Tracker
	deb     *reconcile.Debouncer

	items   []model.NewsItem
	index   int
	width   int
	height  int
	loading bool
	errMsg  string

	// Navigation lock: card changes are ignored until this instant, so a
	// held-down key or a fast wheel advances one card per transition.
	transitionUntil time.Time

	// Smooth scrolling with harmonica spring physics. Positions are in
	// card units: card i occupies [i, i+1).
	spring         harmonica.Spring
	scrollPos      float64
	scrollVelocity float64
	scrollTarget   float64
	animating      bool

	// Mouse swipe state.
	dragging     bool
	dragStartRow int
}

// New creates a feed model. A nil clock defaults to time.Now.
func New(cfg Config, rec Recorder, pos Positions, now track.Clock) Model {
	if now == nil {
		now = time.Now
	}
	if cfg.VisibilityThreshold <= 0 {
		cfg.VisibilityThreshold = reconcile.DefaultThreshold
	}
	if cfg.Transition <= 0 {
		cfg.Transition = 500 * time.Millisecond
	}
	if cfg.SwipeThreshold <= 0 {
		cfg.SwipeThreshold = 3
	}

	return Model{
		cfg:     cfg,
		now:     now,
		rec:     rec,
		pos:     pos,
		tracker: track.New(now),
		deb:     reconcile.NewDebouncer(cfg.Debounce),
		spring:  harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.8),
		loading: true,
	}
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetItems installs the feed content and jumps straight to startIndex
// without animation. The card at startIndex becomes active immediately.
func (m *Model) SetItems(items []model.NewsItem, startIndex int) {
	m.items = items
	m.loading = false
	m.errMsg = ""

	if startIndex < 0 || startIndex >= len(items) {
		startIndex = 0
	}
	m.index = startIndex
	m.scrollPos = float64(startIndex)
	m.scrollTarget = float64(startIndex)
	m.scrollVelocity = 0
	m.animating = false

	if len(items) > 0 {
		m.activateCard(startIndex)
	}
}

// Reload puts the view back into its loading state before a refresh.
func (m *Model) Reload() {
	m.loading = true
	m.errMsg = ""
}

// SetError puts the view into its error state.
func (m *Model) SetError(msg string) {
	m.loading = false
	m.errMsg = msg
}

// Loading reports whether the view is still waiting for content.
func (m Model) Loading() bool {
	return m.loading
}

// Index returns the current card index.
func (m Model) Index() int {
	return m.index
}

// Items returns the current feed content.
func (m Model) Items() []model.NewsItem {
	return m.items
}

// Current returns the card at the current index.
func (m Model) Current() (model.NewsItem, bool) {
	if m.index < 0 || m.index >= len(m.items) {
		return model.NewsItem{}, false
	}
	return m.items[m.index], true
}

// GoToNext scrolls to the next card. A no-op on the last card or while a
// transition is still in flight.
func (m *Model) GoToNext() {
	m.goTo(m.index + 1)
}

// GoToPrevious scrolls to the previous card. A no-op on the first card or
// while a transition is still in flight.
func (m *Model) GoToPrevious() {
	m.goTo(m.index - 1)
}

func (m *Model) goTo(target int) {
	if m.now().Before(m.transitionUntil) {
		return
	}
	if target < 0 || target >= len(m.items) {
		return
	}
	m.index = target
	m.scrollTarget = float64(target)
	m.animating = true
	m.transitionUntil = m.now().Add(m.cfg.Transition)
	if err := m.pos.SetFeedIndex(target); err != nil {
		logging.Warn("feed index not persisted", "err", err)
	}
}

// Animating reports whether a frame tick is still needed.
func (m Model) Animating() bool {
	return m.animating
}

// Step advances the scroll animation by one frame and runs the visibility
// reconciler once the samples have been quiet for the debounce window.
func (m *Model) Step(now time.Time) {
	if !m.animating {
		return
	}

	m.scrollPos, m.scrollVelocity = m.spring.Update(m.scrollPos, m.scrollVelocity, m.scrollTarget)
	settled := math.Abs(m.scrollPos-m.scrollTarget) < 0.001 && math.Abs(m.scrollVelocity) < 0.001
	if settled {
		m.scrollPos = m.scrollTarget
		m.scrollVelocity = 0
		m.animating = false
	}

	m.deb.Offer(m.visibilitySamples(), now)
	if samples, ok := m.deb.Take(now); ok {
		m.reconcile(samples)
	} else if settled {
		// The animation ended; do not leave the last batch stranded
		// waiting for a frame tick that will never come.
		if samples, ok := m.deb.Take(now.Add(m.cfg.Debounce)); ok {
			m.reconcile(samples)
		}
	}
}

// visibilitySamples measures how much of each card overlaps the one-card
// viewport window at the current animated scroll position.
func (m Model) visibilitySamples() []reconcile.Sample {
	if len(m.items) == 0 {
		return nil
	}

	first := int(math.Floor(m.scrollPos))
	var samples []reconcile.Sample
	for i := first; i <= first+1; i++ {
		if i < 0 || i >= len(m.items) {
			continue
		}
		top := math.Max(float64(i), m.scrollPos)
		bottom := math.Min(float64(i+1), m.scrollPos+1)
		if ratio := bottom - top; ratio > 0 {
			samples = append(samples, reconcile.Sample{Index: i, Ratio: ratio})
		}
	}
	return samples
}

// reconcile promotes the most visible card to active. The active card only
// changes when a card clearly dominates the viewport; mid-animation both
// candidates sit below the threshold and nothing happens.
func (m *Model) reconcile(samples []reconcile.Sample) {
	picked := reconcile.Pick(samples, m.activeIndex(), m.cfg.VisibilityThreshold)
	if picked == m.activeIndex() {
		return
	}
	m.index = picked
	m.activateCard(picked)
	if err := m.pos.SetFeedIndex(picked); err != nil {
		logging.Warn("feed index not persisted", "err", err)
	}
}

// activeIndex returns the index of the tracker's active card, falling back
// to the navigation index before the first activation.
func (m Model) activeIndex() int {
	id := m.tracker.ActiveID()
	if id == "" {
		return m.index
	}
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return m.index
}

// activateCard starts timing the card at index i, flushing and reporting
// the previously active card.
func (m *Model) activateCard(i int) {
	item := m.items[i]
	if rec, ok := m.tracker.Activate(item.ID, item.Category); ok {
		m.rec.Submit(rec)
	}
}

// ensureActive returns the current card, activating it first if the
// tracker still holds the previous one. During the scroll animation the
// navigation index runs ahead of the tracker; an explicit interaction
// with the new card must not get lost in that window.
func (m *Model) ensureActive() (model.NewsItem, bool) {
	item, ok := m.Current()
	if !ok {
		return model.NewsItem{}, false
	}
	if m.tracker.ActiveID() != item.ID {
		m.activateCard(m.index)
	}
	return item, true
}

// Teardown flushes the active card. Called when the feed view goes away
// for good (quit or logout), not when the detail view opens.
func (m *Model) Teardown() {
	if rec, ok := m.tracker.Teardown(); ok {
		m.rec.Submit(rec)
	}
}

// openDetail snapshots the active card and hands off to the detail view.
func (m *Model) openDetail() tea.Cmd {
	item, ok := m.ensureActive()
	if !ok {
		return nil
	}
	snapshot, ok := m.tracker.ClickThrough(item.ID)
	if !ok {
		return nil
	}
	if err := m.pos.SetClickedIndex(m.index); err != nil {
		logging.Warn("clicked index not persisted", "err", err)
	}
	m.rec.MarkRead(item.ID)
	return func() tea.Msg {
		return OpenDetailMsg{Item: item, Snapshot: snapshot}
	}
}

// Update handles feed input. Frame ticks are handled by the root model,
// which calls Step directly.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}

	switch msg.String() {
	case "j", "down", "right":
		m.GoToNext()
	case "k", "up", "left":
		m.GoToPrevious()
	case "g", "home":
		if m.now().After(m.transitionUntil) || m.now().Equal(m.transitionUntil) {
			m.jumpTo(0)
		}
	case "G", "end":
		if m.now().After(m.transitionUntil) || m.now().Equal(m.transitionUntil) {
			m.jumpTo(len(m.items) - 1)
		}
	case "l":
		if item, ok := m.ensureActive(); ok {
			m.tracker.ToggleLike(item.ID)
		}
	case "d":
		if item, ok := m.ensureActive(); ok {
			m.tracker.ToggleDislike(item.ID)
		}
	case "s":
		if item, ok := m.ensureActive(); ok {
			m.tracker.MarkShared(item.ID)
		}
	case "enter", "o":
		return m, m.openDetail()
	}
	return m, nil
}

// jumpTo moves to an arbitrary card with the same animation and lock as
// single-step navigation.
func (m *Model) jumpTo(target int) {
	if target == m.index || target < 0 || target >= len(m.items) {
		return
	}
	m.index = target
	m.scrollTarget = float64(target)
	m.animating = true
	m.transitionUntil = m.now().Add(m.cfg.Transition)
	if err := m.pos.SetFeedIndex(target); err != nil {
		logging.Warn("feed index not persisted", "err", err)
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelDown:
		m.GoToNext()
	case tea.MouseButtonWheelUp:
		m.GoToPrevious()
	case tea.MouseButtonLeft:
		switch msg.Action {
		case tea.MouseActionPress:
			m.dragging = true
			m.dragStartRow = msg.Y
		case tea.MouseActionRelease:
			if m.dragging {
				m.dragging = false
				delta := m.dragStartRow - msg.Y
				if delta >= m.cfg.SwipeThreshold {
					m.GoToNext()
				} else if -delta >= m.cfg.SwipeThreshold {
					m.GoToPrevious()
				}
			}
		}
	}
	return m, nil
}

// Signals returns the interaction flags of the current card, for rendering.
func (m Model) Signals() (liked, disliked, shared bool) {
	item, ok := m.Current()
	if !ok {
		return false, false, false
	}
	return m.tracker.Signals(item.ID)
}
