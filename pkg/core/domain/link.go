package domain

import (
	"regexp"
	"strings"
	"time"
)

// FavoriteLink is one entry of a profile's link-in-bio list
type FavoriteLink struct {
	ID        int64     `json:"id"`
	ProfileID int64     `json:"profile_id"`
	Label     string    `json:"label"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	Clicks    int64     `json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LinkChange is one row of a links batch submitted during onboarding.
type LinkChange struct {
	ID       int64  `json:"id,omitempty"`
	Label    string `json:"label"`
	URL      string `json:"url"`
	Position *int   `json:"position,omitempty"`
	Destroy  bool   `json:"_destroy,omitempty"`
}

// Blank reports a row the user never filled in.
func (c LinkChange) Blank() bool {
	return c.ID == 0 && strings.TrimSpace(c.Label) == "" && strings.TrimSpace(c.URL) == ""
}

var schemeRegex = regexp.MustCompile(`(?i)^https?://`)

// NormalizeURL trims the value and prepends https:// when no http(s) scheme is present.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u != "" && !schemeRegex.MatchString(u) {
		u = "https://" + u
	}
	return u
}
