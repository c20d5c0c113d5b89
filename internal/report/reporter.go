// Package report delivers interaction telemetry in the background. Reports
// are fire-and-forget: failures are logged and never surfaced to the UI or
// retried, so reading is never blocked on the tracking service.
package report

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ebakir/newsreel/internal/api"
	"github.com/ebakir/newsreel/internal/logging"
	"github.com/ebakir/newsreel/internal/track"
)

// Sender is the slice of the API client the reporter needs.
type Sender interface {
	SendInteraction(ctx context.Context, in api.Interaction) error
	TrackRead(ctx context.Context, userID, newsID string) error
}

// UserIDSource supplies the current user id. Lazy because the id only
// exists after login.
type UserIDSource func() string

// Reporter posts interaction records and read receipts asynchronously. A
// rate limiter keeps a fast-scrolling user from flooding the service.
type Reporter struct {
	sender  Sender
	userID  UserIDSource
	limiter *rate.Limiter
	timeout time.Duration
	log     *log.Logger
	wg      sync.WaitGroup
}

// New creates a Reporter for the given user.
func New(sender Sender, userID UserIDSource) *Reporter {
	if userID == nil {
		userID = func() string { return "" }
	}
	return &Reporter{
		sender:  sender,
		userID:  userID,
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		timeout: 10 * time.Second,
		log:     logging.WithPrefix("report"),
	}
}

// Submit queues one interaction record for delivery and returns immediately.
func (r *Reporter) Submit(rec track.Record) {
	in := api.Interaction{
		NewsID:             rec.NewsID,
		Category:           rec.Category,
		Like:               api.YesNo(rec.Liked),
		Dislike:            api.YesNo(rec.Disliked),
		Share:              api.YesNo(rec.Shared),
		ClickDetail:        api.YesNo(rec.ClickedDetail),
		FirstSpendingTime:  rec.Seconds,
		SecondSpendingTime: 0,
	}
	r.send(in)
}

// SubmitDetail queues the combined record for an item whose detail view was
// opened: the feed dwell time plus the reading time, in one report.
func (r *Reporter) SubmitDetail(rec track.Record, secondSeconds float64) {
	in := api.Interaction{
		NewsID:             rec.NewsID,
		Category:           rec.Category,
		Like:               api.YesNo(rec.Liked),
		Dislike:            api.YesNo(rec.Disliked),
		Share:              api.YesNo(rec.Shared),
		ClickDetail:        api.YesNo(true),
		FirstSpendingTime:  rec.Seconds,
		SecondSpendingTime: secondSeconds,
	}
	r.send(in)
}

// MarkRead queues a read receipt for the item.
func (r *Reporter) MarkRead(newsID string) {
	id := uuid.NewString()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.limiter.Wait(ctx); err != nil {
			r.log.Warn("read receipt dropped", "id", id, "news", newsID, "err", err)
			return
		}
		if err := r.sender.TrackRead(ctx, r.userID(), newsID); err != nil {
			r.log.Warn("read receipt failed", "id", id, "news", newsID, "err", err)
			return
		}
		r.log.Debug("read receipt sent", "id", id, "news", newsID)
	}()
}

func (r *Reporter) send(in api.Interaction) {
	id := uuid.NewString()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.limiter.Wait(ctx); err != nil {
			r.log.Warn("interaction dropped", "id", id, "news", in.NewsID, "err", err)
			return
		}
		if err := r.sender.SendInteraction(ctx, in); err != nil {
			r.log.Warn("interaction failed", "id", id, "news", in.NewsID, "err", err)
			return
		}
		r.log.Debug("interaction sent", "id", id, "news", in.NewsID, "first", in.FirstSpendingTime, "second", in.SecondSpendingTime)
	}()
}

// Flush waits for in-flight reports to finish, up to the given grace
// period. Used on shutdown so the final record usually makes it out.
func (r *Reporter) Flush(grace time.Duration) {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(grace):
		r.log.Warn("shutdown before all reports delivered")
	}
}
