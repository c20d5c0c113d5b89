package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ebakir/newsreel/internal/model"
)

// CategoryScore is one entry of the recommendation profile: a category and
// the server-computed interest score.
type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// SubmitCategories sends the one-time category-interest selection that
// seeds the personalized feed.
func (c *Client) SubmitCategories(ctx context.Context, categories []string) error {
	body := map[string][]string{"categories": categories}
	_, err := c.do(ctx, http.MethodPost, joinURL(c.cfg.OnboardingBaseURL, "/onboarding"), body, true)
	return err
}

// ResetScores wipes the server-side interest profile.
func (c *Client) ResetScores(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, joinURL(c.cfg.OnboardingBaseURL, "/reset-scores"), nil, true)
	return err
}

// Recommendations fetches the per-category interest scores for the user.
func (c *Client) Recommendations(ctx context.Context, userID string) ([]CategoryScore, error) {
	raw, err := c.do(ctx, http.MethodGet, joinURL(c.cfg.OnboardingBaseURL, "/recommendations/"+userID), nil, true)
	if err != nil {
		return nil, err
	}

	var scores []CategoryScore
	if err := json.Unmarshal(unwrap(raw), &scores); err != nil {
		return nil, &Error{Status: http.StatusOK, Message: "unexpected recommendations response"}
	}
	return scores, nil
}

// ReadHistory lists the items the user has read, newest first.
func (c *Client) ReadHistory(ctx context.Context) ([]model.NewsItem, error) {
	raw, err := c.do(ctx, http.MethodGet, joinURL(c.cfg.OnboardingBaseURL, "/user/read-history"), nil, true)
	if err != nil {
		return nil, err
	}

	var wire []model.APIItem
	if err := json.Unmarshal(unwrap(raw), &wire); err != nil {
		return nil, &Error{Status: http.StatusOK, Message: "unexpected read history response"}
	}
	return model.FromAPIList(wire), nil
}
