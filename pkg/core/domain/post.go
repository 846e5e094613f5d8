package domain

import "time"

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post is a blog entry owned by a profile. Only what view counting needs is modelled here.
type Post struct {
	ID          int64      `json:"id"`
	ProfileID   int64      `json:"profile_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Status      string     `json:"status"`
	Views       int64      `json:"views"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *Post) Published() bool {
	return p.Status == PostStatusPublished
}
