package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFillDefaults(t *testing.T) {
	var c Config
	c.FillDefaults()

	if c.App.DataDir == "" || c.App.LogLevel != "info" {
		t.Errorf("app defaults = %+v", c.App)
	}
	if c.Services.AuthBaseURL == "" || c.Services.Timeout != "15s" {
		t.Errorf("service defaults = %+v", c.Services)
	}
	if c.Services.InteractionBaseURL != c.Services.FeedBaseURL {
		t.Error("interaction service should default to the feed service")
	}
	if c.Feed.VisibilityThreshold != 0.3 || c.Feed.TransitionMs != 500 {
		t.Errorf("feed defaults = %+v", c.Feed)
	}
}

func TestFillDefaultsKeepsExplicitValues(t *testing.T) {
	c := Config{
		Services: ServicesConfig{FeedBaseURL: "https://feed.internal/api"},
		Feed:     FeedConfig{TransitionMs: 250},
	}
	c.FillDefaults()

	if c.Services.FeedBaseURL != "https://feed.internal/api" {
		t.Errorf("feed URL = %q", c.Services.FeedBaseURL)
	}
	if c.Services.InteractionBaseURL != "https://feed.internal/api" {
		t.Errorf("interaction URL = %q", c.Services.InteractionBaseURL)
	}
	if c.Feed.TransitionMs != 250 {
		t.Errorf("transition = %d", c.Feed.TransitionMs)
	}
}

func TestHTTPTimeout(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"15s", 15 * time.Second},
		{"2m", 2 * time.Minute},
		{"", 15 * time.Second},
		{"nonsense", 15 * time.Second},
		{"-5s", 15 * time.Second},
	}
	for _, tt := range tests {
		c := Config{Services: ServicesConfig{Timeout: tt.raw}}
		if got := c.HTTPTimeout(); got != tt.want {
			t.Errorf("HTTPTimeout(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestSessionPath(t *testing.T) {
	c := Config{App: AppConfig{DataDir: "/tmp/nr"}}
	if got := c.SessionPath(); got != filepath.Join("/tmp/nr", "session.db") {
		t.Errorf("SessionPath = %q", got)
	}
}
