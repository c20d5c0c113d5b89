package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ebakir/newsreel/internal/api"
	"github.com/ebakir/newsreel/internal/track"
)

type fakeSender struct {
	mu           sync.Mutex
	interactions []api.Interaction
	reads        []string
	err          error
}

func (f *fakeSender) SendInteraction(_ context.Context, in api.Interaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.interactions = append(f.interactions, in)
	return nil
}

func (f *fakeSender) TrackRead(_ context.Context, userID, newsID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.reads = append(f.reads, userID+"/"+newsID)
	return nil
}

func (f *fakeSender) sent() []api.Interaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]api.Interaction, len(f.interactions))
	copy(out, f.interactions)
	return out
}

func TestSubmitDeliversRecord(t *testing.T) {
	sender := &fakeSender{}
	r := New(sender, func() string { return "31" })

	r.Submit(track.Record{
		NewsID:   "n1",
		Category: "Tech",
		Seconds:  3,
		Liked:    true,
	})
	r.Flush(time.Second)

	got := sender.sent()
	if len(got) != 1 {
		t.Fatalf("got %d interactions, want 1", len(got))
	}
	in := got[0]
	if in.NewsID != "n1" || in.Like != "yes" || in.Dislike != "no" || in.ClickDetail != "no" {
		t.Errorf("interaction = %+v", in)
	}
	if in.FirstSpendingTime != 3 || in.SecondSpendingTime != 0 {
		t.Errorf("times = %v / %v", in.FirstSpendingTime, in.SecondSpendingTime)
	}
}

func TestSubmitDetailCarriesBothTimes(t *testing.T) {
	sender := &fakeSender{}
	r := New(sender, func() string { return "31" })

	r.SubmitDetail(track.Record{NewsID: "n2", Category: "Sports", Seconds: 2, ClickedDetail: true}, 7)
	r.Flush(time.Second)

	got := sender.sent()
	if len(got) != 1 {
		t.Fatalf("got %d interactions, want 1", len(got))
	}
	in := got[0]
	if in.ClickDetail != "yes" {
		t.Errorf("ClickDetail = %q", in.ClickDetail)
	}
	if in.FirstSpendingTime != 2 || in.SecondSpendingTime != 7 {
		t.Errorf("times = %v / %v", in.FirstSpendingTime, in.SecondSpendingTime)
	}
}

func TestMarkRead(t *testing.T) {
	sender := &fakeSender{}
	r := New(sender, func() string { return "31" })

	r.MarkRead("n3")
	r.Flush(time.Second)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.reads) != 1 || sender.reads[0] != "31/n3" {
		t.Errorf("reads = %v", sender.reads)
	}
}

func TestFailuresAreSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("service down")}
	r := New(sender, func() string { return "31" })

	r.Submit(track.Record{NewsID: "n1"})
	r.MarkRead("n1")
	r.Flush(time.Second)
	// No panic, no error surface; failures only go to the log.
}

func TestFlushWaitsForInflight(t *testing.T) {
	sender := &fakeSender{}
	r := New(sender, func() string { return "31" })

	for i := 0; i < 5; i++ {
		r.Submit(track.Record{NewsID: "n1", Seconds: float64(i)})
	}
	r.Flush(2 * time.Second)

	if got := len(sender.sent()); got != 5 {
		t.Errorf("delivered %d of 5 reports before flush returned", got)
	}
}
