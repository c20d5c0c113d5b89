package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// Account is the server-side profile record.
type Account struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	FirstLogin  bool   `json:"firstLogin"`
}

// ProfileUpdate is the mutable subset of the profile. Password is optional;
// empty means unchanged.
type ProfileUpdate struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password,omitempty"`
}

// ContactForm is one submitted contact-page form, visible to admins.
type ContactForm struct {
	ID      json.RawMessage `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Subject string          `json:"subject"`
	Message string          `json:"message"`
	Date    string          `json:"createdAt"`
}

// Account fetches the authenticated user's profile.
func (c *Client) Account(ctx context.Context) (Account, error) {
	raw, err := c.do(ctx, http.MethodGet, joinURL(c.cfg.AuthBaseURL, "/users/account"), nil, true)
	if err != nil {
		return Account{}, err
	}

	var acc Account
	if err := json.Unmarshal(unwrap(raw), &acc); err != nil {
		return Account{}, &Error{Status: http.StatusOK, Message: "unexpected account response"}
	}
	return acc, nil
}

// UpdateProfile writes profile changes back to the account service.
func (c *Client) UpdateProfile(ctx context.Context, req ProfileUpdate) error {
	_, err := c.do(ctx, http.MethodPut, joinURL(c.cfg.AuthBaseURL, "/users/update"), req, true)
	return err
}

// ContactForms lists submitted contact forms (admin only).
func (c *Client) ContactForms(ctx context.Context) ([]ContactForm, error) {
	raw, err := c.do(ctx, http.MethodGet, joinURL(c.cfg.AuthBaseURL, "/users/allForm"), nil, true)
	if err != nil {
		return nil, err
	}

	var forms []ContactForm
	if err := json.Unmarshal(unwrap(raw), &forms); err != nil {
		return nil, &Error{Status: http.StatusOK, Message: "unexpected contact forms response"}
	}
	return forms, nil
}
