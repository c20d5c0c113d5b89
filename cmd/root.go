// Package cmd wires the CLI: the bare command runs the reading TUI,
// subcommands print account info and read history, and clear the session.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ebakir/newsreel/internal/api"
	"github.com/ebakir/newsreel/internal/config"
	"github.com/ebakir/newsreel/internal/logging"
	"github.com/ebakir/newsreel/internal/report"
	"github.com/ebakir/newsreel/internal/session"
	"github.com/ebakir/newsreel/internal/ui"
	"github.com/ebakir/newsreel/internal/ui/feed"
)

var (
	cfgFile string
	appCfg  config.Config
)

// rootCmd is the base command: running it starts the reading TUI.
var rootCmd = &cobra.Command{
	Use:   "newsreel",
	Short: "A card-based news reading client",
	Long:  "Newsreel is a terminal client for a personalized news feed: one story per screen, with reading behaviour feeding the recommendation engine.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
}

func initConfig() {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/newsreel")
	}
	v.SetEnvPrefix("NEWSREEL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	}

	if err := v.Unmarshal(&appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		os.Exit(1)
	}

	appCfg.FillDefaults()
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}

// openStore prepares the data directory and opens the session store.
func openStore(cfg config.Config) (*session.Store, error) {
	if err := os.MkdirAll(cfg.App.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return session.Open(cfg.SessionPath())
}

// newClient builds the API client reading its bearer token from the store.
func newClient(cfg config.Config, st *session.Store) *api.Client {
	return api.New(api.Config{
		AuthBaseURL:        cfg.Services.AuthBaseURL,
		FeedBaseURL:        cfg.Services.FeedBaseURL,
		OnboardingBaseURL:  cfg.Services.OnboardingBaseURL,
		InteractionBaseURL: cfg.Services.InteractionBaseURL,
		APIKey:             cfg.Services.APIKey,
		Timeout:            cfg.HTTPTimeout(),
	}, st.Token)
}

// fetchFeed produces the feed-load message. A saved session short-circuits
// the network fetch so the reader lands on the card they left off at;
// refresh clears the cache first and forces a fresh fetch.
func fetchFeed(st *session.Store, client *api.Client, refresh bool, timeout time.Duration) ui.FeedLoaded {
	if refresh {
		if err := st.ClearFeed(); err != nil {
			logging.Warn("stale feed not cleared", "err", err)
		}
	}

	if fs, ok := st.LoadFeed(); ok {
		return ui.FeedLoaded{Items: fs.Items, StartIndex: fs.CurrentIndex, Restored: true}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	items, err := client.Feed(ctx, st.UserID())
	if err != nil {
		return ui.FeedLoaded{Err: err}
	}
	if err := st.SaveFeed(items, 0); err != nil {
		logging.Warn("feed not persisted", "err", err)
	}
	return ui.FeedLoaded{Items: items}
}

// fetchAccount produces the profile-load message. The fetched record is
// cached in the store; when the account service is unreachable, the cached
// copy keeps the profile view readable.
func fetchAccount(st *session.Store, client *api.Client, timeout time.Duration) ui.AccountLoaded {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	acc, err := client.Account(ctx)
	if err != nil {
		var cached api.Account
		if st.AccountData(&cached) {
			logging.Warn("account service unreachable, using cached profile", "err", err)
			return ui.AccountLoaded{Account: cached}
		}
		return ui.AccountLoaded{Err: err}
	}

	if err := st.SaveAccountData(acc); err != nil {
		logging.Warn("account data not cached", "err", err)
	}
	return ui.AccountLoaded{Account: acc}
}

func runTUI() error {
	cfg := GetConfig()

	if err := logging.Init(cfg.App.DataDir, cfg.App.LogLevel); err != nil {
		return err
	}
	defer logging.Close()

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer st.Close()

	client := newClient(cfg, st)
	reporter := report.New(client, st.UserID)

	timeout := cfg.HTTPTimeout()
	withTimeout := func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), timeout)
	}

	cmds := ui.Commands{
		Login: func(email, password string) tea.Cmd {
			return func() tea.Msg {
				ctx, cancel := withTimeout()
				defer cancel()
				return ui.LoginDone{Email: email, Err: client.Login(ctx, email, password)}
			}
		},
		Verify: func(email, code string) tea.Cmd {
			return func() tea.Msg {
				ctx, cancel := withTimeout()
				defer cancel()
				s, err := client.Verify(ctx, email, code)
				return ui.VerifyDone{Session: s, Err: err}
			}
		},
		Register: func(req api.RegisterRequest) tea.Cmd {
			return func() tea.Msg {
				ctx, cancel := withTimeout()
				defer cancel()
				return ui.RegisterDone{Err: client.Register(ctx, req)}
			}
		},
		SaveSession: func(s api.Session) tea.Cmd {
			return func() tea.Msg {
				if err := st.SetToken(s.Token); err != nil {
					return ui.SessionSaved{Err: err}
				}
				if err := st.SetUserID(s.UserID); err != nil {
					return ui.SessionSaved{Err: err}
				}
				err := st.SaveUserData(session.UserData{
					ID:           s.UserID,
					Name:         s.Name,
					RefreshToken: s.RefreshToken,
					ColdStart:    s.ColdStart,
				})
				return ui.SessionSaved{Err: err}
			}
		},
		LoadFeed: func(refresh bool) tea.Cmd {
			return func() tea.Msg {
				return fetchFeed(st, client, refresh, timeout)
			}
		},
		LoadDetail: func(id string) tea.Cmd {
			return func() tea.Msg {
				ctx, cancel := withTimeout()
				defer cancel()
				item, err := client.NewsDetail(ctx, id)
				return ui.DetailLoaded{Item: item, Err: err}
			}
		},
		LoadAccount: func() tea.Cmd {
			return func() tea.Msg {
				return fetchAccount(st, client, timeout)
			}
		},
		LoadRecommendations: func() tea.Cmd {
			return func() tea.Msg {
				ctx, cancel := withTimeout()
				defer cancel()
				scores, err := client.Recommendations(ctx, st.UserID())
				return ui.RecommendationsLoaded{Scores: scores, Err: err}
			}
		},
		SubmitCategories: func(categories []string) tea.Cmd {
			return func() tea.Msg {
				ctx, cancel := withTimeout()
				defer cancel()
				return ui.CategoriesSubmitted{Err: client.SubmitCategories(ctx, categories)}
			}
		},
		ResetScores: func() tea.Cmd {
			return func() tea.Msg {
				ctx, cancel := withTimeout()
				defer cancel()
				return ui.ScoresReset{Err: client.ResetScores(ctx)}
			}
		},
		SaveProfile: func(up api.ProfileUpdate) tea.Cmd {
			return func() tea.Msg {
				ctx, cancel := withTimeout()
				defer cancel()
				return ui.ProfileSaved{Err: client.UpdateProfile(ctx, up)}
			}
		},
	}

	fd := feed.New(feed.Config{
		VisibilityThreshold: cfg.Feed.VisibilityThreshold,
		Debounce:            time.Duration(cfg.Feed.DebounceMs) * time.Millisecond,
		Transition:          time.Duration(cfg.Feed.TransitionMs) * time.Millisecond,
		SwipeThreshold:      cfg.Feed.SwipeThreshold,
	}, reporter, st, nil)

	app := ui.NewApp(cmds, reporter, fd, st.Token() != "", nil)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()

	// Give in-flight interaction reports a moment to drain.
	reporter.Flush(3 * time.Second)
	return err
}
