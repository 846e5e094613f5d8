package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfilePresentation(t *testing.T) {
	username := "bobo"

	p := &Profile{Email: "bo@example.com"}
	assert.Equal(t, "", p.FullName())
	assert.Equal(t, "bo", p.Handle())
	assert.Equal(t, "bo", p.DisplayName())

	p.GivenName = " Bo "
	p.FamilyName = "Bo"
	p.Username = &username
	assert.Equal(t, "Bo Bo", p.FullName())
	assert.Equal(t, "bobo", p.Handle())
	assert.Equal(t, "Bo Bo", p.DisplayName())

	assert.False(t, p.Onboarded())
	now := time.Now()
	p.CompletedAt = &now
	assert.True(t, p.Onboarded())
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com", NormalizeURL("  example.com "))
	assert.Equal(t, "http://example.com", NormalizeURL("http://example.com"))
	assert.Equal(t, "HTTPS://example.com", NormalizeURL("HTTPS://example.com"))
	assert.Equal(t, "", NormalizeURL("   "))
}

func TestLinkChangeBlank(t *testing.T) {
	assert.True(t, LinkChange{Label: " ", URL: ""}.Blank())
	assert.False(t, LinkChange{ID: 3}.Blank())
	assert.False(t, LinkChange{URL: "x.io"}.Blank())
}

func TestActor(t *testing.T) {
	assert.True(t, Actor{ProfileID: 7}.Owns(7))
	assert.False(t, Actor{ProfileID: 7}.Owns(8))
	assert.False(t, Actor{}.Owns(0))
	assert.Equal(t, "post_view:12:abc", DedupKey(EventPostView, 12, "abc"))
}
