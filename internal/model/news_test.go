package model

import (
	"encoding/json"
	"testing"
)

func TestValidateImageURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"valid https", "https://x.com/a.png", "https://x.com/a.png"},
		{"valid http", "http://cdn.example.org/img/1.jpg", "http://cdn.example.org/img/1.jpg"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"not a url", "not a url", ""},
		{"wrong scheme ftp", "ftp://x.com/a.png", ""},
		{"wrong scheme data", "data:image/png;base64,AAAA", ""},
		{"relative path", "/images/a.png", ""},
		{"missing host", "https://", ""},
		{"scheme only", "https:", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateImageURL(tt.in); got != tt.want {
				t.Errorf("ValidateImageURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestImageOrDefault(t *testing.T) {
	if got := ImageOrDefault("garbage"); got != DefaultImageURL {
		t.Errorf("malformed URL should fall back to default, got %q", got)
	}
	if got := ImageOrDefault("https://x.com/a.png"); got != "https://x.com/a.png" {
		t.Errorf("well-formed URL should pass through unchanged, got %q", got)
	}
}

func TestFromAPIDefaults(t *testing.T) {
	item := FromAPI(APIItem{ID: StringID("42")})

	if item.ID != "42" {
		t.Errorf("ID = %q, want %q", item.ID, "42")
	}
	if item.Title != "Untitled" {
		t.Errorf("Title = %q, want placeholder", item.Title)
	}
	if item.Category != "General" {
		t.Errorf("Category = %q, want placeholder", item.Category)
	}
	if item.ImageURL != DefaultImageURL {
		t.Errorf("ImageURL = %q, want default image", item.ImageURL)
	}
	if item.Content == "" {
		t.Error("Content should never be empty after conversion")
	}
	if item.URL != "#" {
		t.Errorf("URL = %q, want %q", item.URL, "#")
	}
}

func TestFromAPIContentFallsBackToDescription(t *testing.T) {
	item := FromAPI(APIItem{
		ID:          StringID("1"),
		Description: "short description",
	})
	if item.Content != "short description" {
		t.Errorf("Content = %q, want description fallback", item.Content)
	}
	if item.Summary != "short description" {
		t.Errorf("Summary = %q, want description fallback", item.Summary)
	}
}

func TestNormalizeNumericID(t *testing.T) {
	var in APIItem
	if err := json.Unmarshal([]byte(`{"id": 1071, "title": "t"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	item := FromAPI(in)
	if item.ID != "1071" {
		t.Errorf("numeric id normalized to %q, want \"1071\"", item.ID)
	}
}

func TestFromAPIListSkipsMissingIDs(t *testing.T) {
	in := []APIItem{
		{ID: StringID("a"), Title: "first"},
		{Title: "no id"},
		{ID: StringID("b"), Title: "second"},
	}
	items := FromAPIList(in)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != "a" || items[1].ID != "b" {
		t.Errorf("unexpected ids: %q, %q", items[0].ID, items[1].ID)
	}
}
