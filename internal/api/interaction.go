package api

import (
	"context"
	"net/http"
)

// Interaction is the one-shot telemetry payload for one viewing of one
// item. Boolean signals are serialized as "yes"/"no", times in seconds.
type Interaction struct {
	NewsID             string  `json:"news_id"`
	Category           string  `json:"category"`
	Like               string  `json:"like"`
	Dislike            string  `json:"dislike"`
	Share              string  `json:"share"`
	ClickDetail        string  `json:"click_detail"`
	FirstSpendingTime  float64 `json:"first_spending_time"`
	SecondSpendingTime float64 `json:"second_spending_time"`
}

// YesNo converts a boolean signal to the wire representation.
func YesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// SendInteraction posts one interaction report to the tracking service.
func (c *Client) SendInteraction(ctx context.Context, in Interaction) error {
	_, err := c.do(ctx, http.MethodPost, joinURL(c.cfg.InteractionBaseURL, "/interaction"), in, true)
	return err
}
