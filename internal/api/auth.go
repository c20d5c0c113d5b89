package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// Session is the result of a successful login verification.
type Session struct {
	UserID       string
	Token        string
	RefreshToken string
	Name         string
	ColdStart    bool
}

// RegisterRequest is the registration form payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Login starts the two-step login: the service emails a verification code
// to the given address. The bearer token only arrives after Verify.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	_, err := c.do(ctx, http.MethodPost, joinURL(c.cfg.AuthBaseURL, "/auth/login"), body, false)
	return err
}

// Verify completes the login with the emailed code and returns the session.
func (c *Client) Verify(ctx context.Context, email, code string) (Session, error) {
	body := map[string]string{"email": email, "code": code}
	raw, err := c.do(ctx, http.MethodPost, joinURL(c.cfg.AuthBaseURL, "/auth/verify"), body, false)
	if err != nil {
		return Session{}, err
	}

	var data struct {
		ID           json.RawMessage `json:"id"`
		Token        string          `json:"token"`
		RefreshToken string          `json:"refreshToken"`
		Name         string          `json:"name"`
		ColdStart    *bool           `json:"coldStart"`
	}
	if err := json.Unmarshal(unwrap(raw), &data); err != nil {
		return Session{}, &Error{Status: http.StatusOK, Message: "unexpected verify response"}
	}

	s := Session{
		UserID:       flexString(data.ID),
		Token:        data.Token,
		RefreshToken: data.RefreshToken,
		Name:         data.Name,
		ColdStart:    true,
	}
	if data.ColdStart != nil {
		s.ColdStart = *data.ColdStart
	}
	return s, nil
}

// Register creates a new account. The service sends its own verification
// email; the client routes back to the login flow afterwards.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	_, err := c.do(ctx, http.MethodPost, joinURL(c.cfg.AuthBaseURL, "/auth/register"), req, false)
	return err
}

// flexString accepts string or numeric JSON values.
func flexString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
