package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ebakir/newsreel/internal/api"
	"github.com/ebakir/newsreel/internal/model"
	"github.com/ebakir/newsreel/internal/track"
	"github.com/ebakir/newsreel/internal/ui/detail"
	"github.com/ebakir/newsreel/internal/ui/feed"
	"github.com/ebakir/newsreel/internal/ui/profile"
)

type nopRecorder struct{}

func (nopRecorder) Submit(track.Record) {}
func (nopRecorder) MarkRead(string)     {}

type nopPositions struct{}

func (nopPositions) SetFeedIndex(int) error    { return nil }
func (nopPositions) SetClickedIndex(int) error { return nil }

type fakeReports struct {
	snapshots []track.Record
	seconds   []float64
}

func (r *fakeReports) SubmitDetail(rec track.Record, secondSeconds float64) {
	r.snapshots = append(r.snapshots, rec)
	r.seconds = append(r.seconds, secondSeconds)
}

func newTestApp(authenticated bool) (App, *fakeReports, *int) {
	loads := 0
	cmds := Commands{
		LoadFeed: func(refresh bool) tea.Cmd {
			loads++
			return nil
		},
	}
	reports := &fakeReports{}
	fd := feed.New(feed.Config{}, nopRecorder{}, nopPositions{}, nil)
	app := NewApp(cmds, reports, fd, authenticated, nil)
	return app, reports, &loads
}

func resize(a App) App {
	m, _ := a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m.(App)
}

func TestStartsAtLoginWithoutSession(t *testing.T) {
	app, _, loads := newTestApp(false)
	if app.Mode() != int(modeLogin) {
		t.Errorf("mode = %d, want login", app.Mode())
	}
	if cmd := app.Init(); cmd != nil {
		t.Error("Init must not load the feed before login")
	}
	if *loads != 0 {
		t.Errorf("feed loaded %d times", *loads)
	}
}

func TestStartsAtFeedWithSession(t *testing.T) {
	app, _, loads := newTestApp(true)
	if app.Mode() != int(modeFeed) {
		t.Errorf("mode = %d, want feed", app.Mode())
	}
	app.Init()
	if *loads != 1 {
		t.Errorf("feed loaded %d times, want 1", *loads)
	}
}

func TestVerifyColdStartRoutesToInterests(t *testing.T) {
	app, _, loads := newTestApp(false)

	m, _ := app.Update(VerifyDone{Session: api.Session{UserID: "1", Token: "t", ColdStart: true}})
	app = m.(App)

	if app.Mode() != int(modeInterests) {
		t.Errorf("mode = %d, want interests for a cold-start session", app.Mode())
	}
	if *loads != 0 {
		t.Error("feed must not load before onboarding")
	}
}

func TestVerifyWarmStartRoutesToFeed(t *testing.T) {
	app, _, loads := newTestApp(false)

	m, _ := app.Update(VerifyDone{Session: api.Session{UserID: "1", Token: "t", ColdStart: false}})
	app = m.(App)

	if app.Mode() != int(modeFeed) {
		t.Errorf("mode = %d, want feed", app.Mode())
	}
	if *loads != 1 {
		t.Errorf("feed loaded %d times, want 1", *loads)
	}
}

func TestFeedLoadWaitsForSessionSave(t *testing.T) {
	loads := 0
	var savedSession api.Session
	cmds := Commands{
		SaveSession: func(s api.Session) tea.Cmd {
			savedSession = s
			return func() tea.Msg { return SessionSaved{} }
		},
		LoadFeed: func(refresh bool) tea.Cmd {
			loads++
			return nil
		},
	}
	fd := feed.New(feed.Config{}, nopRecorder{}, nopPositions{}, nil)
	app := NewApp(cmds, &fakeReports{}, fd, false, nil)

	m, cmd := app.Update(VerifyDone{Session: api.Session{UserID: "42", Token: "tok"}})
	app = m.(App)

	// The feed must not load before the session hits the store: the feed
	// request reads the user id and token from there.
	if loads != 0 {
		t.Fatalf("feed loaded %d times before the session was saved", loads)
	}
	if cmd == nil || savedSession.UserID != "42" {
		t.Fatalf("verify must persist the session first, saved %+v", savedSession)
	}

	m, _ = app.Update(cmd())
	app = m.(App)
	if loads != 1 {
		t.Errorf("feed loaded %d times after save, want 1", loads)
	}

	// A second SessionSaved (profile edits etc.) must not reload the feed.
	items := []model.NewsItem{{ID: "a"}}
	m, _ = app.Update(FeedLoaded{Items: items})
	app = m.(App)
	m, _ = app.Update(SessionSaved{})
	app = m.(App)
	if loads != 1 {
		t.Errorf("feed loaded %d times, want no reload once populated", loads)
	}
}

func TestSessionSaveErrorDoesNotLoadFeed(t *testing.T) {
	loads := 0
	cmds := Commands{
		SaveSession: func(s api.Session) tea.Cmd {
			return func() tea.Msg { return SessionSaved{Err: errors.New("disk full")} }
		},
		LoadFeed: func(refresh bool) tea.Cmd {
			loads++
			return nil
		},
	}
	fd := feed.New(feed.Config{}, nopRecorder{}, nopPositions{}, nil)
	app := NewApp(cmds, &fakeReports{}, fd, false, nil)

	m, cmd := app.Update(VerifyDone{Session: api.Session{UserID: "42", Token: "tok"}})
	app = m.(App)
	m, _ = app.Update(cmd())
	app = m.(App)

	if loads != 0 {
		t.Errorf("feed loaded %d times with an unsaved session, want 0", loads)
	}
}

func TestVerifyErrorStaysOnLogin(t *testing.T) {
	app, _, _ := newTestApp(false)

	m, _ := app.Update(VerifyDone{Err: errors.New("bad code")})
	app = m.(App)

	if app.Mode() != int(modeLogin) {
		t.Errorf("mode = %d, want login after a failed verify", app.Mode())
	}
}

func TestCategoriesSubmittedLoadsFeed(t *testing.T) {
	app, _, loads := newTestApp(false)
	app.mode = modeInterests

	m, _ := app.Update(CategoriesSubmitted{})
	app = m.(App)

	if app.Mode() != int(modeFeed) {
		t.Errorf("mode = %d, want feed", app.Mode())
	}
	if *loads != 1 {
		t.Errorf("feed loaded %d times, want 1", *loads)
	}
}

func TestFeedLoadedInstallsItems(t *testing.T) {
	app, _, _ := newTestApp(true)
	app = resize(app)

	items := []model.NewsItem{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	m, _ := app.Update(FeedLoaded{Items: items, StartIndex: 2, Restored: true})
	app = m.(App)

	if got := app.Feed().Index(); got != 2 {
		t.Errorf("feed index = %d, want restored 2", got)
	}
	if app.Feed().Loading() {
		t.Error("feed should leave loading state")
	}
}

func TestDetailRoundTrip(t *testing.T) {
	app, reports, _ := newTestApp(true)
	app = resize(app)

	snapshot := track.Record{NewsID: "a", Category: "Tech", Seconds: 2, ClickedDetail: true}
	m, _ := app.Update(feed.OpenDetailMsg{
		Item:     model.NewsItem{ID: "a", Title: "T", Content: "body"},
		Snapshot: snapshot,
	})
	app = m.(App)
	if app.Mode() != int(modeDetail) {
		t.Fatalf("mode = %d, want detail", app.Mode())
	}

	m, _ = app.Update(detail.ClosedMsg{Snapshot: snapshot, Seconds: 7})
	app = m.(App)
	if app.Mode() != int(modeFeed) {
		t.Errorf("mode = %d, want feed after close", app.Mode())
	}
	if len(reports.snapshots) != 1 || reports.seconds[0] != 7 {
		t.Errorf("reports = %+v / %v", reports.snapshots, reports.seconds)
	}
	if reports.snapshots[0].NewsID != "a" {
		t.Errorf("snapshot = %+v", reports.snapshots[0])
	}
}

func TestRefreshClearsCachedFeed(t *testing.T) {
	var refreshes []bool
	cmds := Commands{
		LoadFeed: func(refresh bool) tea.Cmd {
			refreshes = append(refreshes, refresh)
			return nil
		},
	}
	fd := feed.New(feed.Config{}, nopRecorder{}, nopPositions{}, nil)
	app := NewApp(cmds, &fakeReports{}, fd, true, nil)
	app = resize(app)

	m, _ := app.Update(FeedLoaded{Items: []model.NewsItem{{ID: "a"}}})
	app = m.(App)

	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	app = m.(App)

	if len(refreshes) != 1 || !refreshes[0] {
		t.Errorf("refreshes = %v, want one forced refetch", refreshes)
	}
	if !app.Feed().Loading() {
		t.Error("feed should re-enter loading state on refresh")
	}

	app.mode = modeInterests
	m, _ = app.Update(CategoriesSubmitted{})
	app = m.(App)
	if len(refreshes) != 2 || !refreshes[1] {
		t.Errorf("refreshes = %v, want a forced refetch after onboarding", refreshes)
	}
}

func TestDetailFetchesMissingBody(t *testing.T) {
	var requested []string
	cmds := Commands{
		LoadDetail: func(id string) tea.Cmd {
			requested = append(requested, id)
			return nil
		},
	}
	fd := feed.New(feed.Config{}, nopRecorder{}, nopPositions{}, nil)
	app := NewApp(cmds, &fakeReports{}, fd, true, nil)
	app = resize(app)

	m, _ := app.Update(feed.OpenDetailMsg{Item: model.NewsItem{ID: "a", Title: "T"}})
	app = m.(App)
	if len(requested) != 1 || requested[0] != "a" {
		t.Fatalf("requested = %v, want the opened item", requested)
	}

	m, _ = app.Update(DetailLoaded{Item: model.NewsItem{ID: "a", Title: "T", Content: "full body"}})
	app = m.(App)
	if got := app.detail.Item().Content; got != "full body" {
		t.Errorf("detail content = %q, want the fetched body", got)
	}

	// An item that already has content needs no fetch.
	m, _ = app.Update(feed.OpenDetailMsg{Item: model.NewsItem{ID: "b", Content: "inline"}})
	app = m.(App)
	if len(requested) != 1 {
		t.Errorf("requested = %v, want no fetch for an inline body", requested)
	}
}

func TestProfileBackReturnsToFeed(t *testing.T) {
	app, _, _ := newTestApp(true)
	app.mode = modeProfile

	m, _ := app.Update(profile.BackMsg{})
	app = m.(App)
	if app.Mode() != int(modeFeed) {
		t.Errorf("mode = %d, want feed", app.Mode())
	}
}

func TestFrameTickStopsWhenSettled(t *testing.T) {
	app, _, _ := newTestApp(true)
	app = resize(app)

	m, _ := app.Update(FeedLoaded{Items: []model.NewsItem{{ID: "a"}, {ID: "b"}}})
	app = m.(App)

	// Navigate; animation starts and the frame loop begins.
	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = m.(App)
	if cmd == nil {
		t.Fatal("navigation should start the frame loop")
	}

	// Drive frames until the spring settles.
	now := time.Now()
	for i := 0; i < 600; i++ {
		now = now.Add(frameInterval)
		m, cmd = app.Update(FrameTick{Time: now})
		app = m.(App)
		if cmd == nil {
			break
		}
	}
	if cmd != nil {
		t.Error("frame loop should stop once the animation settles")
	}
	if app.Feed().Index() != 1 {
		t.Errorf("index = %d, want 1", app.Feed().Index())
	}
}
