package domain

import (
	"strconv"
	"time"
)

// EventType identifies what kind of engagement is being counted
type EventType string

const (
	EventProfileVisit EventType = "visit"
	EventLinkClick    EventType = "link_click"
	EventPostView     EventType = "post_view"
)

// DedupTTL is how long a repeat event from the same actor is suppressed.
var DedupTTL = map[EventType]time.Duration{
	EventProfileVisit: time.Hour,
	EventLinkClick:    30 * time.Minute,
	EventPostView:     30 * time.Minute,
}

// Actor is whoever triggered an engagement event
type Actor struct {
	ProfileID   int64  `json:"profile_id,omitempty"` // Zero for anonymous viewers
	Fingerprint string `json:"fingerprint"`          // Hashed client address
}

// Owns reports whether the actor is the signed-in owner of the subject.
func (a Actor) Owns(ownerID int64) bool {
	return a.ProfileID != 0 && a.ProfileID == ownerID
}

// DedupKey builds the cache key for one (event, subject, actor) triple.
func DedupKey(event EventType, subjectID int64, fingerprint string) string {
	return string(event) + ":" + strconv.FormatInt(subjectID, 10) + ":" + fingerprint
}
