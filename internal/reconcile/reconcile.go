// Package reconcile decides which feed card is "most visible" in the
// viewport and promotes it to active, overriding programmatic navigation
// only when they disagree after the scroll settles.
package reconcile

import "time"

// DefaultThreshold is the minimum visibility ratio a card needs before it
// can be considered the active one. Below it (mid-fling between two cards)
// the index is left unchanged.
const DefaultThreshold = 0.3

// epsilon is the ratio band within which two cards count as tied. Ties
// prefer the currently active index to avoid flicker.
const epsilon = 0.01

// Sample is one card's visibility measurement: the fraction of its area
// inside the central band of the viewport, in [0, 1].
type Sample struct {
	Index int
	Ratio float64
}

// Pick returns the index of the most visible card among samples exceeding
// threshold, or current when no card qualifies. A threshold <= 0 falls back
// to DefaultThreshold.
func Pick(samples []Sample, current int, threshold float64) int {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	best := -1
	bestRatio := 0.0
	for _, s := range samples {
		if s.Ratio < threshold {
			continue
		}
		switch {
		case best == -1:
			best = s.Index
			bestRatio = s.Ratio
		case s.Ratio > bestRatio+epsilon:
			best = s.Index
			bestRatio = s.Ratio
		case s.Ratio >= bestRatio-epsilon && s.Index == current:
			// Stability bias: within the tie band, keep the active card.
			best = s.Index
			bestRatio = s.Ratio
		}
	}

	if best == -1 {
		return current
	}
	return best
}

// Debouncer coalesces rapid-fire scroll samples: it keeps only the latest
// batch and releases it once the configured quiet window has passed.
type Debouncer struct {
	window  time.Duration
	pending []Sample
	last    time.Time
	dirty   bool
}

// NewDebouncer creates a Debouncer with the given quiet window. A
// non-positive window releases every batch immediately.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Offer replaces the pending batch and restarts the quiet window.
func (d *Debouncer) Offer(samples []Sample, now time.Time) {
	d.pending = samples
	d.last = now
	d.dirty = true
}

// Take returns the pending batch once the quiet window has elapsed since
// the last Offer. ok is false while events are still arriving or nothing
// is pending.
func (d *Debouncer) Take(now time.Time) ([]Sample, bool) {
	if !d.dirty {
		return nil, false
	}
	if d.window > 0 && now.Sub(d.last) < d.window {
		return nil, false
	}
	d.dirty = false
	return d.pending, true
}
