// Package ui provides the Bubble Tea TUI for Newsreel.
package ui

import (
	"time"

	"github.com/ebakir/newsreel/internal/api"
	"github.com/ebakir/newsreel/internal/model"
)

// FeedLoaded is sent when the feed items are ready, either restored from
// the saved session or fetched from the feed service.
type FeedLoaded struct {
	Items      []model.NewsItem
	StartIndex int
	Restored   bool
	Err        error
}

// DetailLoaded is sent when the full article body arrives for an item the
// feed delivered without content.
type DetailLoaded struct {
	Item model.NewsItem
	Err  error
}

// LoginDone is sent when the first login step finishes. On success the
// service has emailed a verification code.
type LoginDone struct {
	Email string
	Err   error
}

// VerifyDone is sent when code verification finishes. On success Session
// carries the bearer token and the persisted user identity.
type VerifyDone struct {
	Session api.Session
	Err     error
}

// RegisterDone is sent when account registration finishes.
type RegisterDone struct {
	Err error
}

// SessionSaved is sent once the verified session has been written to the
// local store.
type SessionSaved struct {
	Err error
}

// AccountLoaded is sent when the profile record arrives.
type AccountLoaded struct {
	Account api.Account
	Err     error
}

// RecommendationsLoaded is sent when the per-category interest scores
// arrive.
type RecommendationsLoaded struct {
	Scores []api.CategoryScore
	Err    error
}

// CategoriesSubmitted is sent when the onboarding category selection has
// been accepted.
type CategoriesSubmitted struct {
	Err error
}

// ScoresReset is sent when the interest profile reset finishes.
type ScoresReset struct {
	Err error
}

// ProfileSaved is sent when a profile update finishes.
type ProfileSaved struct {
	Err error
}

// FrameTick drives the scroll animation at frame rate.
type FrameTick struct {
	Time time.Time
}
