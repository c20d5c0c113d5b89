package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ebakir/newsreel/internal/model"
)

// Feed fetches the ranked item list for the user and converts it into
// NewsItem records with safe placeholders for missing fields.
func (c *Client) Feed(ctx context.Context, userID string) ([]model.NewsItem, error) {
	raw, err := c.do(ctx, http.MethodGet, joinURL(c.cfg.FeedBaseURL, "/feed/"+userID), nil, true)
	if err != nil {
		return nil, err
	}

	var wire []model.APIItem
	if err := json.Unmarshal(unwrap(raw), &wire); err != nil {
		return nil, &Error{Status: http.StatusOK, Message: "unexpected feed response"}
	}
	return model.FromAPIList(wire), nil
}

// NewsDetail fetches a single item, used when the feed cache does not hold
// the requested id.
func (c *Client) NewsDetail(ctx context.Context, id string) (model.NewsItem, error) {
	raw, err := c.do(ctx, http.MethodGet, joinURL(c.cfg.FeedBaseURL, "/news/detail/"+id), nil, true)
	if err != nil {
		return model.NewsItem{}, err
	}

	var wire model.APIItem
	if err := json.Unmarshal(unwrap(raw), &wire); err != nil {
		return model.NewsItem{}, &Error{Status: http.StatusOK, Message: "unexpected news detail response"}
	}
	return model.FromAPI(wire), nil
}

// TrackRead notifies the feed service that the user read an item.
func (c *Client) TrackRead(ctx context.Context, userID, newsID string) error {
	body := map[string]string{"user_id": userID, "news_id": newsID}
	_, err := c.do(ctx, http.MethodPost, joinURL(c.cfg.FeedBaseURL, "/track-read"), body, true)
	return err
}
