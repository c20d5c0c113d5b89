// Package api implements the HTTP clients for the external REST services:
// authentication/account, feed, onboarding/recommendation, and interaction
// tracking. The client formats requests and parses responses; all business
// logic lives server-side.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config carries the per-service base URLs and the static API key. Base
// URLs include the /api prefix and no trailing slash.
type Config struct {
	AuthBaseURL        string
	FeedBaseURL        string
	OnboardingBaseURL  string
	InteractionBaseURL string
	APIKey             string
	Timeout            time.Duration
}

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource func() string

// Client talks to all four services. Safe for concurrent use.
type Client struct {
	cfg   Config
	http  *http.Client
	token TokenSource
}

// Error is a non-2xx API response with its parsed (or raw) message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: HTTP %d", e.Status)
	}
	return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Message)
}

// envelope is the common response wrapper. Some endpoints return bare
// payloads instead; both shapes are accepted.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// New creates a Client.
func New(cfg Config, token TokenSource) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if token == nil {
		token = func() string { return "" }
	}
	cfg.AuthBaseURL = strings.TrimRight(cfg.AuthBaseURL, "/")
	cfg.FeedBaseURL = strings.TrimRight(cfg.FeedBaseURL, "/")
	cfg.OnboardingBaseURL = strings.TrimRight(cfg.OnboardingBaseURL, "/")
	cfg.InteractionBaseURL = strings.TrimRight(cfg.InteractionBaseURL, "/")
	if cfg.InteractionBaseURL == "" {
		cfg.InteractionBaseURL = cfg.FeedBaseURL
	}

	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		token: token,
	}
}

// do sends a request and returns the raw body of a 2xx response. Non-2xx
// responses become *Error with the message extracted defensively: JSON
// envelope first, raw text otherwise.
func (c *Client) do(ctx context.Context, method, url string, body any, authed bool) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.cfg.APIKey)
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Message: messageFrom(raw)}
	}

	return raw, nil
}

// messageFrom extracts a human-readable message from a response body that
// may be a JSON envelope, arbitrary JSON, or plain text.
func messageFrom(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return strings.TrimSpace(string(raw))
}

// unwrap returns the data payload of an enveloped response, or the body
// itself when the endpoint answered with a bare payload.
func unwrap(raw []byte) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		return env.Data
	}
	return raw
}

func joinURL(base, path string) string {
	return base + "/" + strings.TrimLeft(path, "/")
}
