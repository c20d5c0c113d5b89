// Package config holds the typed application configuration, loaded through
// viper from config.yaml and the environment.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// ServicesConfig holds the base URLs of the external REST services. All
// business logic lives behind them; the client only formats and displays.
type ServicesConfig struct {
	AuthBaseURL        string `mapstructure:"auth_base_url"`
	FeedBaseURL        string `mapstructure:"feed_base_url"`
	OnboardingBaseURL  string `mapstructure:"onboarding_base_url"`
	InteractionBaseURL string `mapstructure:"interaction_base_url"`
	APIKey             string `mapstructure:"api_key"`
	Timeout            string `mapstructure:"timeout"` // duration string, e.g., "15s"
}

// AppConfig holds application-level settings.
type AppConfig struct {
	DataDir  string `mapstructure:"data_dir"`
	LogLevel string `mapstructure:"log_level"`
}

// FeedConfig tunes the card feed behaviour.
type FeedConfig struct {
	VisibilityThreshold float64 `mapstructure:"visibility_threshold"`
	DebounceMs          int     `mapstructure:"debounce_ms"`
	TransitionMs        int     `mapstructure:"transition_ms"`
	SwipeThreshold      int     `mapstructure:"swipe_threshold"` // rows of vertical drag
}

// Config is the top-level configuration structure.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Services ServicesConfig `mapstructure:"services"`
	Feed     FeedConfig     `mapstructure:"feed"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.DataDir == "" {
		home, _ := os.UserHomeDir()
		c.App.DataDir = filepath.Join(home, ".newsreel")
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Services.AuthBaseURL == "" {
		c.Services.AuthBaseURL = "http://localhost:8090/api"
	}
	if c.Services.FeedBaseURL == "" {
		c.Services.FeedBaseURL = "http://localhost:8001/api"
	}
	if c.Services.OnboardingBaseURL == "" {
		c.Services.OnboardingBaseURL = "http://localhost:8004/api"
	}
	if c.Services.InteractionBaseURL == "" {
		c.Services.InteractionBaseURL = c.Services.FeedBaseURL
	}
	if c.Services.Timeout == "" {
		c.Services.Timeout = "15s"
	}
	if c.Feed.VisibilityThreshold == 0 {
		c.Feed.VisibilityThreshold = 0.3
	}
	if c.Feed.DebounceMs == 0 {
		c.Feed.DebounceMs = 50
	}
	if c.Feed.TransitionMs == 0 {
		c.Feed.TransitionMs = 500
	}
	if c.Feed.SwipeThreshold == 0 {
		c.Feed.SwipeThreshold = 3
	}
}

// HTTPTimeout parses the configured request timeout, with a safe fallback.
func (c *Config) HTTPTimeout() time.Duration {
	d, err := time.ParseDuration(c.Services.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// SessionPath returns the sqlite session database location.
func (c *Config) SessionPath() string {
	return filepath.Join(c.App.DataDir, "session.db")
}
