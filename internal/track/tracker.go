// Package track times how long each news card stays active and accumulates
// the per-card interaction signals that get reported when the card loses
// focus.
package track

import (
	"math"
	"time"
)

// Clock returns the current time. Injectable so tests control elapsed time.
type Clock func() time.Time

// Record is the flushed outcome of one viewing of one card. Handed to the
// interaction reporter when the card becomes inactive.
type Record struct {
	NewsID        string
	Category      string
	Seconds       float64 // elapsed viewing time, rounded to whole seconds
	Liked         bool
	Disliked      bool
	Shared        bool
	ClickedDetail bool
}

// cardState is the per-card mutable interaction state. Exists only while
// the card is the active one: inserted on activate, removed on flush.
type cardState struct {
	category      string
	start         time.Time
	liked         bool
	disliked      bool
	shared        bool
	clickedDetail bool
}

// Tracker runs the Idle -> Viewing -> Idle state machine per card id.
// At most one card is Viewing at a time.
type Tracker struct {
	now    Clock
	active string
	cards  map[string]*cardState
}

// New creates a Tracker. A nil clock defaults to time.Now.
func New(now Clock) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		now:   now,
		cards: make(map[string]*cardState),
	}
}

// Activate makes the card with the given id the viewing one, flushing the
// previously active card. ok is false when there is nothing to report:
// no previous card, or the previous card was clicked through to the detail
// view (the detail view owns that report).
func (t *Tracker) Activate(id, category string) (Record, bool) {
	if id == t.active {
		return Record{}, false
	}

	rec, ok := t.deactivate()

	t.active = id
	t.cards[id] = &cardState{
		category: category,
		start:    t.now(),
	}

	return rec, ok
}

// Teardown flushes the currently viewing card, if any. Called when the feed
// view goes away.
func (t *Tracker) Teardown() (Record, bool) {
	return t.deactivate()
}

func (t *Tracker) deactivate() (Record, bool) {
	if t.active == "" {
		return Record{}, false
	}

	state := t.cards[t.active]
	id := t.active
	t.active = ""
	delete(t.cards, id)

	if state == nil {
		return Record{}, false
	}
	if state.clickedDetail {
		// The detail view reports the combined first+second spending time
		// for this visit. Reporting here would double-count.
		return Record{}, false
	}

	return Record{
		NewsID:   id,
		Category: state.category,
		Seconds:  t.elapsed(state),
		Liked:    state.liked,
		Disliked: state.disliked,
		Shared:   state.shared,
	}, true
}

// ClickThrough marks the active card as clicked through and returns a
// snapshot carrying the feed-side elapsed seconds. The detail view combines
// it with its own duration on teardown. ok is false when id is not the
// active card.
func (t *Tracker) ClickThrough(id string) (Record, bool) {
	state := t.activeState(id)
	if state == nil {
		return Record{}, false
	}
	state.clickedDetail = true

	return Record{
		NewsID:        id,
		Category:      state.category,
		Seconds:       t.elapsed(state),
		Liked:         state.liked,
		Disliked:      state.disliked,
		Shared:        state.shared,
		ClickedDetail: true,
	}, true
}

// ToggleLike flips the like flag on the active card and reports the new
// value. Liking clears a dislike; the two are mutually exclusive.
func (t *Tracker) ToggleLike(id string) bool {
	state := t.activeState(id)
	if state == nil {
		return false
	}
	state.liked = !state.liked
	if state.liked {
		state.disliked = false
	}
	return state.liked
}

// ToggleDislike flips the dislike flag on the active card, clearing any like.
func (t *Tracker) ToggleDislike(id string) bool {
	state := t.activeState(id)
	if state == nil {
		return false
	}
	state.disliked = !state.disliked
	if state.disliked {
		state.liked = false
	}
	return state.disliked
}

// MarkShared records that the active card was shared. Sharing is sticky.
func (t *Tracker) MarkShared(id string) {
	if state := t.activeState(id); state != nil {
		state.shared = true
	}
}

// Signals returns the current boolean signals for the active card, for
// rendering.
func (t *Tracker) Signals(id string) (liked, disliked, shared bool) {
	state := t.activeState(id)
	if state == nil {
		return false, false, false
	}
	return state.liked, state.disliked, state.shared
}

// ActiveID returns the id of the card currently viewing, or "".
func (t *Tracker) ActiveID() string {
	return t.active
}

func (t *Tracker) activeState(id string) *cardState {
	if id == "" || id != t.active {
		return nil
	}
	return t.cards[id]
}

func (t *Tracker) elapsed(state *cardState) float64 {
	d := t.now().Sub(state.start)
	if d < 0 {
		d = 0
	}
	return math.Round(d.Seconds())
}
