package domain

import (
	"strings"
	"time"
)

// Profile is the identity a registered account owns (the public page behind /u/{username})
type Profile struct {
	ID          int64          `json:"id"`
	Email       string         `json:"email"`
	GivenName   string         `json:"given_name"`
	FamilyName  string         `json:"family_name"`
	Username    *string        `json:"username,omitempty"` // Nil until chosen during onboarding
	Bio         string         `json:"bio"`
	Website     *string        `json:"website,omitempty"`
	AvatarRef   *string        `json:"avatar_ref,omitempty"`
	Visits      int64          `json:"visits"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"` // Write-once
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Links       []FavoriteLink `json:"links,omitempty"` // Populated when fetching full profile
}

// Onboarded reports whether the onboarding workflow has been finalized.
func (p *Profile) Onboarded() bool {
	return p.CompletedAt != nil
}

func (p *Profile) FullName() string {
	parts := []string{}
	for _, s := range []string{p.GivenName, p.FamilyName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Handle is the username, or the local part of the email before one is chosen.
func (p *Profile) Handle() string {
	if p.Username != nil && *p.Username != "" {
		return *p.Username
	}
	local, _, _ := strings.Cut(p.Email, "@")
	return local
}

func (p *Profile) DisplayName() string {
	if name := p.FullName(); name != "" {
		return name
	}
	return p.Handle()
}
