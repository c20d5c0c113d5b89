// Package model defines the news item domain type and the conversion from
// the feed service's wire format.
package model

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultImageURL is used whenever a feed item carries no usable image.
const DefaultImageURL = "https://images.unsplash.com/photo-1504711434969-e33886168f5c?w=1200&h=800&fit=crop&q=80"

// Fallbacks for fields the feed service may omit.
const (
	fallbackTitle    = "Untitled"
	fallbackCategory = "General"
	fallbackContent  = "No content available."
	fallbackAuthor   = "News Desk"
	fallbackReadTime = "5 min"
)

// NewsItem is one entry of a feed session. Immutable for the lifetime of the
// session; replaced wholesale on re-fetch.
type NewsItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	Author      string `json:"author"`
	PublishDate string `json:"publish_date"`
	ReadTime    string `json:"read_time"`
	URL         string `json:"url"`
}

// APIItem mirrors the feed service response. IDs arrive as either JSON
// strings or numbers, so the field is raw until conversion.
type APIItem struct {
	ID          json.RawMessage `json:"id"`
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Description string          `json:"description"`
	Summary     string          `json:"summary"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	Author      string          `json:"author"`
	PublishDate string          `json:"publish_date"`
	ReadTime    string          `json:"read_time"`
	URL         string          `json:"url"`
}

// ValidateImageURL returns raw unchanged if it parses as an absolute http or
// https URL, otherwise the empty string. Malformed input is a normal case,
// not an error.
func ValidateImageURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return raw
}

// ImageOrDefault validates raw and substitutes the default image when it
// does not hold up.
func ImageOrDefault(raw string) string {
	if v := ValidateImageURL(raw); v != "" {
		return v
	}
	return DefaultImageURL
}

// FromAPI converts a wire item into a NewsItem, defaulting missing fields to
// safe placeholders.
func FromAPI(in APIItem) NewsItem {
	item := NewsItem{
		ID:          normalizeID(in.ID),
		Title:       in.Title,
		Content:     in.Content,
		Description: in.Description,
		Summary:     in.Summary,
		ImageURL:    ImageOrDefault(in.ImageURL),
		Category:    in.Category,
		Author:      in.Author,
		PublishDate: in.PublishDate,
		ReadTime:    in.ReadTime,
		URL:         in.URL,
	}

	if item.Title == "" {
		item.Title = fallbackTitle
	}
	if item.Content == "" {
		item.Content = in.Description
	}
	if item.Content == "" {
		item.Content = fallbackContent
	}
	if item.Summary == "" {
		item.Summary = in.Description
	}
	if item.Category == "" {
		item.Category = fallbackCategory
	}
	if item.Author == "" {
		item.Author = fallbackAuthor
	}
	if item.PublishDate == "" {
		item.PublishDate = time.Now().Format("02.01.2006")
	}
	if item.ReadTime == "" {
		item.ReadTime = fallbackReadTime
	}
	if item.URL == "" {
		item.URL = "#"
	}

	return item
}

// FromAPIList converts a feed response, skipping entries with no usable ID.
func FromAPIList(in []APIItem) []NewsItem {
	items := make([]NewsItem, 0, len(in))
	for _, raw := range in {
		item := FromAPI(raw)
		if item.ID == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// normalizeID accepts string or numeric JSON ids and returns the string form.
func normalizeID(raw json.RawMessage) string {
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

// StringID is a convenience for building an APIItem id from a plain string.
func StringID(id string) json.RawMessage {
	return json.RawMessage(strconv.Quote(id))
}
