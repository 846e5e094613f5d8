package validator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
)

func TestUsernameFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"letters", "bobo", true},
		{"letters and digits", "bo42", true},
		{"too short", "bo", false},
		{"too long", strings.Repeat("a", 31), false},
		{"max length", strings.Repeat("a", 30), true},
		{"digits only", "12345", false},
		{"underscore", "bo_bo", false},
		{"uppercase", "Bobo", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, UsernameFormatOK(tt.in))
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "bobo", NormalizeUsername("  BoBo "))
	assert.True(t, IsReservedUsername("admin"))
	assert.True(t, IsReservedUsername("Admin"))
	assert.False(t, IsReservedUsername("bobo"))
}

func TestValidateName(t *testing.T) {
	assert.False(t, ValidateName("Bo", "Bo").HasErrors())

	errs := ValidateName(" ", "")
	assert.Contains(t, errs, "given_name")
	assert.Contains(t, errs, "family_name")

	errs = ValidateName(strings.Repeat("x", MaxNameLength+1), "Bo")
	assert.Equal(t, "Name is too long", errs["given_name"])
}

func TestValidateBio(t *testing.T) {
	assert.False(t, ValidateBio("").HasErrors())
	assert.False(t, ValidateBio(strings.Repeat("é", MaxBioLength)).HasErrors())
	assert.True(t, ValidateBio(strings.Repeat("a", MaxBioLength+1)).HasErrors())
}

func TestLinkURLError(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"example.com", false},
		{"https://sub.example.co/path?q=1", false},
		{"http://example.io", false},
		{"", true},
		{"ftp://example.com", true},
		{"https://localhost", true},
		{"https://127.0.0.1", true},
		{"https://[::1]", true},
		{"https://example.c", true},
		{"https://example.com/" + strings.Repeat("a", MaxURLLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			msg := LinkURLError(tt.in)
			if tt.wantErr {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestValidateLinks(t *testing.T) {
	t.Run("blank rows are ignored", func(t *testing.T) {
		errs := ValidateLinks([]domain.LinkChange{{}, {Label: " ", URL: " "}}, nil)
		assert.False(t, errs.HasErrors())
	})

	t.Run("row errors are keyed by index", func(t *testing.T) {
		errs := ValidateLinks([]domain.LinkChange{
			{Label: "Site", URL: "example.com"},
			{Label: "", URL: "not a url"},
		}, nil)
		assert.Contains(t, errs, "links.1.label")
		assert.Contains(t, errs, "links.1.url")
		assert.NotContains(t, errs, "links.0.label")
	})

	t.Run("cap counts existing rows", func(t *testing.T) {
		rows := []domain.LinkChange{{Label: "A", URL: "a.com"}, {Label: "B", URL: "b.com"}}
		assert.False(t, ValidateLinks(rows, storedLinks(MaxLinks-2)).HasErrors())
		assert.Contains(t, ValidateLinks(rows, storedLinks(MaxLinks-1)), "links")
	})

	t.Run("destroyed rows free a slot", func(t *testing.T) {
		rows := []domain.LinkChange{
			{ID: 1, Destroy: true},
			{Label: "New", URL: "new.com"},
		}
		assert.False(t, ValidateLinks(rows, storedLinks(MaxLinks)).HasErrors())
	})

	t.Run("rows already stored are not counted again", func(t *testing.T) {
		existing := []domain.FavoriteLink{
			{ID: 1, Label: "A", URL: "https://a.com"},
			{ID: 2, Label: "B", URL: "https://b.com"},
			{ID: 3, Label: "C", URL: "https://c.com"},
			{ID: 4, Label: "D", URL: "https://d.com"},
		}
		resubmitted := []domain.LinkChange{
			{Label: "A", URL: "a.com"},
			{Label: " B ", URL: "https://b.com"},
			{Label: "C", URL: "c.com"},
			{Label: "D", URL: "d.com"},
		}
		assert.False(t, ValidateLinks(resubmitted, existing).HasErrors())

		more := append(resubmitted, domain.LinkChange{Label: "E", URL: "e.com"}, domain.LinkChange{Label: "F", URL: "f.com"})
		assert.False(t, ValidateLinks(more, existing).HasErrors())

		tooMany := append(more, domain.LinkChange{Label: "G", URL: "g.com"})
		assert.Contains(t, ValidateLinks(tooMany, existing), "links")
	})

	t.Run("identical new rows in one batch count once", func(t *testing.T) {
		rows := []domain.LinkChange{{Label: "A", URL: "a.com"}, {Label: "A", URL: "https://a.com"}}
		assert.False(t, ValidateLinks(rows, storedLinks(MaxLinks-1)).HasErrors())
	})
}

func storedLinks(n int) []domain.FavoriteLink {
	links := make([]domain.FavoriteLink, n)
	for i := range links {
		links[i] = domain.FavoriteLink{ID: int64(i + 1), Label: fmt.Sprintf("Stored %d", i), URL: fmt.Sprintf("https://stored%d.com", i)}
	}
	return links
}

func TestValidateAvatar(t *testing.T) {
	assert.False(t, ValidateAvatar(nil).HasErrors())
	assert.False(t, ValidateAvatar(&domain.AvatarUpload{ContentType: "image/png", Data: []byte{1}}).HasErrors())
	assert.False(t, ValidateAvatar(&domain.AvatarUpload{ContentType: "IMAGE/JPEG", Data: []byte{1}}).HasErrors())
	assert.True(t, ValidateAvatar(&domain.AvatarUpload{ContentType: "image/gif", Data: []byte{1}}).HasErrors())
	assert.True(t, ValidateAvatar(&domain.AvatarUpload{ContentType: "image/webp", Data: make([]byte, MaxAvatarBytes+1)}).HasErrors())
}
