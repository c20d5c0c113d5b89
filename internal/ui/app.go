package ui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ebakir/newsreel/internal/api"
	"github.com/ebakir/newsreel/internal/logging"
	"github.com/ebakir/newsreel/internal/track"
	"github.com/ebakir/newsreel/internal/ui/auth"
	"github.com/ebakir/newsreel/internal/ui/detail"
	"github.com/ebakir/newsreel/internal/ui/feed"
	"github.com/ebakir/newsreel/internal/ui/interests"
	"github.com/ebakir/newsreel/internal/ui/profile"
)

// frameInterval is the scroll animation frame rate.
const frameInterval = time.Second / 60

// Commands are the injected command functions. App never talks to the
// network or the store directly; it receives results via messages.
type Commands struct {
	Login               func(email, password string) tea.Cmd
	Verify              func(email, code string) tea.Cmd
	Register            func(req api.RegisterRequest) tea.Cmd
	SaveSession         func(s api.Session) tea.Cmd
	LoadFeed            func(refresh bool) tea.Cmd
	LoadDetail          func(id string) tea.Cmd
	LoadAccount         func() tea.Cmd
	LoadRecommendations func() tea.Cmd
	SubmitCategories    func(categories []string) tea.Cmd
	ResetScores         func() tea.Cmd
	SaveProfile         func(up api.ProfileUpdate) tea.Cmd
}

// Reports is the slice of the interaction reporter the root model needs:
// the detail view's combined record is submitted here on close.
type Reports interface {
	SubmitDetail(rec track.Record, secondSeconds float64)
}

type viewMode int

const (
	modeLogin viewMode = iota
	modeRegister
	modeInterests
	modeFeed
	modeDetail
	modeProfile
)

// App is the root Bubble Tea model.
type App struct {
	cmds    Commands
	reports Reports
	now     track.Clock

	mode      viewMode
	login     auth.LoginModel
	register  auth.RegisterModel
	interests interests.Model
	profile   profile.Model
	feed      feed.Model
	detail    detail.Model

	width   int
	height  int
	ready   bool
	ticking bool
}

// NewApp creates the root model. When authenticated is true the app opens
// straight into the feed; otherwise the login form shows first.
func NewApp(cmds Commands, reports Reports, fd feed.Model, authenticated bool, now track.Clock) App {
	if now == nil {
		now = time.Now
	}

	mode := modeLogin
	if authenticated {
		mode = modeFeed
	}

	return App{
		cmds:      cmds,
		reports:   reports,
		now:       now,
		mode:      mode,
		login:     auth.NewLogin(cmds.Login, cmds.Verify),
		register:  auth.NewRegister(cmds.Register),
		interests: interests.New(cmds.SubmitCategories),
		profile:   profile.New(cmds.SaveProfile, cmds.ResetScores),
		feed:      fd,
	}
}

// Init loads the feed when a session already exists.
func (a App) Init() tea.Cmd {
	if a.mode == modeFeed && a.cmds.LoadFeed != nil {
		return a.cmds.LoadFeed(false)
	}
	return nil
}

// Update handles messages and routes input to the active view.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.login.SetSize(msg.Width, msg.Height)
		a.register.SetSize(msg.Width, msg.Height)
		a.interests.SetSize(msg.Width, msg.Height)
		a.profile.SetSize(msg.Width, msg.Height)
		a.feed.SetSize(msg.Width, msg.Height)
		if a.mode == modeDetail {
			a.detail.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.feed.Teardown()
			return a, tea.Quit
		}

	case FrameTick:
		a.feed.Step(msg.Time)
		if a.feed.Animating() {
			return a, frameTick()
		}
		a.ticking = false
		return a, nil

	case LoginDone:
		if msg.Err != nil {
			a.login.Fail(humanize(msg.Err))
		} else {
			a.login.CodeSent()
		}
		return a, nil

	case VerifyDone:
		if msg.Err != nil {
			a.login.Fail(humanize(msg.Err))
			return a, nil
		}
		if msg.Session.ColdStart {
			a.mode = modeInterests
		} else {
			a.mode = modeFeed
		}
		if a.cmds.SaveSession != nil {
			// The feed load waits for SessionSaved: the request reads the
			// user id and token from the store, which is empty until the
			// verified session lands there.
			return a, a.cmds.SaveSession(msg.Session)
		}
		if a.mode == modeFeed && a.cmds.LoadFeed != nil {
			return a, a.cmds.LoadFeed(false)
		}
		return a, nil

	case SessionSaved:
		if msg.Err != nil {
			logging.Error("session not persisted", "err", msg.Err)
			return a, nil
		}
		if a.mode == modeFeed && a.feed.Loading() && a.cmds.LoadFeed != nil {
			return a, a.cmds.LoadFeed(false)
		}
		return a, nil

	case RegisterDone:
		if msg.Err != nil {
			a.register.Fail(humanize(msg.Err))
		} else {
			a.mode = modeLogin
			a.login.SetNotice("Account created. Check your email, then sign in.")
		}
		return a, nil

	case auth.SwitchToRegisterMsg:
		a.mode = modeRegister
		return a, nil

	case auth.SwitchToLoginMsg:
		a.mode = modeLogin
		return a, nil

	case CategoriesSubmitted:
		if msg.Err != nil {
			a.interests.Fail(humanize(msg.Err))
			return a, nil
		}
		a.mode = modeFeed
		if a.cmds.LoadFeed != nil {
			// Fresh preferences deserve a fresh feed, not the cached one.
			return a, a.cmds.LoadFeed(true)
		}
		return a, nil

	case FeedLoaded:
		if msg.Err != nil {
			a.feed.SetError(humanize(msg.Err))
			return a, nil
		}
		a.feed.SetItems(msg.Items, msg.StartIndex)
		if msg.Restored {
			logging.Info("feed restored from saved session", "items", len(msg.Items), "index", msg.StartIndex)
		}
		return a, nil

	case feed.OpenDetailMsg:
		a.detail = detail.New(msg.Item, msg.Snapshot, a.now)
		a.detail.SetSize(a.width, a.height)
		a.mode = modeDetail
		if msg.Item.Content == "" && a.cmds.LoadDetail != nil {
			// Feed payloads may carry only the summary; fetch the full
			// article while the reader looks at the header.
			return a, a.cmds.LoadDetail(msg.Item.ID)
		}
		return a, nil

	case DetailLoaded:
		if msg.Err != nil {
			logging.Warn("article body not loaded", "id", msg.Item.ID, "err", msg.Err)
			return a, nil
		}
		if a.mode == modeDetail {
			a.detail.SetItem(msg.Item)
		}
		return a, nil

	case detail.ClosedMsg:
		if a.reports != nil {
			a.reports.SubmitDetail(msg.Snapshot, msg.Seconds)
		}
		a.mode = modeFeed
		return a, nil

	case AccountLoaded:
		if msg.Err != nil {
			a.profile.Fail(humanize(msg.Err))
		} else {
			a.profile.SetAccount(msg.Account)
		}
		return a, nil

	case RecommendationsLoaded:
		if msg.Err != nil {
			logging.Warn("recommendations not loaded", "err", msg.Err)
		} else {
			a.profile.SetScores(msg.Scores)
		}
		return a, nil

	case ProfileSaved:
		if msg.Err != nil {
			a.profile.Fail(humanize(msg.Err))
		} else {
			a.profile.Saved()
		}
		return a, nil

	case ScoresReset:
		if msg.Err != nil {
			a.profile.Fail(humanize(msg.Err))
		} else {
			a.profile.ScoresCleared()
		}
		return a, nil

	case profile.BackMsg:
		a.mode = modeFeed
		return a, nil
	}

	return a.routeToView(msg)
}

// routeToView forwards input to the active view's model.
func (a App) routeToView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.mode {
	case modeLogin:
		a.login, cmd = a.login.Update(msg)
	case modeRegister:
		a.register, cmd = a.register.Update(msg)
	case modeInterests:
		a.interests, cmd = a.interests.Update(msg)
	case modeProfile:
		a.profile, cmd = a.profile.Update(msg)
	case modeDetail:
		a.detail, cmd = a.detail.Update(msg)
	case modeFeed:
		return a.updateFeed(msg)
	}
	return a, cmd
}

// updateFeed handles feed-mode input, including the keys that leave the
// feed, and keeps the animation frame loop running while needed.
func (a App) updateFeed(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "esc":
			a.feed.Teardown()
			return a, tea.Quit
		case "p":
			a.mode = modeProfile
			var cmds []tea.Cmd
			if a.cmds.LoadAccount != nil {
				cmds = append(cmds, a.cmds.LoadAccount())
			}
			if a.cmds.LoadRecommendations != nil {
				cmds = append(cmds, a.cmds.LoadRecommendations())
			}
			return a, tea.Batch(cmds...)
		case "r":
			if a.cmds.LoadFeed != nil {
				a.feed.Reload()
				return a, a.cmds.LoadFeed(true)
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.feed, cmd = a.feed.Update(msg)

	if a.feed.Animating() && !a.ticking {
		a.ticking = true
		return a, tea.Batch(cmd, frameTick())
	}
	return a, cmd
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return FrameTick{Time: t}
	})
}

// humanize strips the transport prefix off API errors for display.
func humanize(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// View renders the active view.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	switch a.mode {
	case modeLogin:
		return a.login.View()
	case modeRegister:
		return a.register.View()
	case modeInterests:
		return a.interests.View()
	case modeProfile:
		return a.profile.View()
	case modeDetail:
		return a.detail.View()
	default:
		return a.feed.View()
	}
}

// Mode exposes the active view for testing.
func (a App) Mode() int {
	return int(a.mode)
}

// Feed exposes the feed model for testing.
func (a App) Feed() feed.Model {
	return a.feed
}
