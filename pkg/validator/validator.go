package validator

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
)

const (
	MaxNameLength   = 80
	MaxBioLength    = 280
	MaxLabelLength  = 40
	MaxURLLength    = 2048
	MaxLinks        = 6
	MaxAvatarBytes  = 5 << 20
	usernameMinimum = 3
	usernameMaximum = 30
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var (
	usernameRegex = regexp.MustCompile(`^[a-z0-9]{3,30}$`)
	letterRegex   = regexp.MustCompile(`[a-z]`)
	hostRegex     = regexp.MustCompile(`(?i)^([a-z0-9-]+\.)+[a-z]{2,}$`)
)

// reservedUsernames collide with routes or system words.
var reservedUsernames = map[string]struct{}{
	"admin": {}, "administrator": {}, "api": {}, "app": {}, "auth": {}, "blog": {},
	"dashboard": {}, "help": {}, "login": {}, "logout": {}, "me": {}, "metrics": {},
	"new": {}, "onboarding": {}, "posts": {}, "profile": {}, "root": {}, "settings": {},
	"signup": {}, "support": {}, "system": {}, "u": {}, "users": {}, "www": {},
}

// NormalizeUsername trims and lowercases a candidate username.
func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// UsernameFormatOK expects an already normalized value.
func UsernameFormatOK(username string) bool {
	return usernameRegex.MatchString(username) && letterRegex.MatchString(username)
}

func IsReservedUsername(username string) bool {
	_, ok := reservedUsernames[strings.ToLower(username)]
	return ok
}

// UsernameFormatMessage describes the accepted format.
func UsernameFormatMessage() string {
	return fmt.Sprintf("Must be %d–%d chars, lowercase letters and digits only, with at least one letter", usernameMinimum, usernameMaximum)
}

func ValidateName(givenName, familyName string) ValidationErrors {
	errs := make(ValidationErrors)

	givenName = strings.TrimSpace(givenName)
	if givenName == "" {
		errs.Add("given_name", "Name is required")
	} else if utf8.RuneCountInString(givenName) > MaxNameLength {
		errs.Add("given_name", "Name is too long")
	}

	familyName = strings.TrimSpace(familyName)
	if familyName == "" {
		errs.Add("family_name", "Family name is required")
	} else if utf8.RuneCountInString(familyName) > MaxNameLength {
		errs.Add("family_name", "Family name is too long")
	}

	return errs
}

func ValidateBio(bio string) ValidationErrors {
	errs := make(ValidationErrors)
	if utf8.RuneCountInString(strings.TrimSpace(bio)) > MaxBioLength {
		errs.Add("bio", fmt.Sprintf("Bio must be at most %d characters", MaxBioLength))
	}
	return errs
}

// ValidateLinks checks a links batch against the links the profile already has. Blank rows are
// ignored. A new row whose label and URL match an existing link is not counted towards the cap,
// since storing it again is a no-op. Field keys use the row's index in the batch.
func ValidateLinks(rows []domain.LinkChange, existing []domain.FavoriteLink) ValidationErrors {
	errs := make(ValidationErrors)

	stored := make(map[linkKey]struct{}, len(existing))
	for _, l := range existing {
		stored[newLinkKey(l.Label, l.URL)] = struct{}{}
	}

	count := len(existing)
	for i, row := range rows {
		if row.Blank() {
			continue
		}
		if row.Destroy {
			if row.ID != 0 {
				count--
			}
			continue
		}
		if row.ID == 0 {
			key := newLinkKey(row.Label, row.URL)
			if _, dup := stored[key]; !dup {
				stored[key] = struct{}{}
				count++
			}
		}

		label := strings.TrimSpace(row.Label)
		if label == "" {
			errs.Add(linkField(i, "label"), "Label is required")
		} else if utf8.RuneCountInString(label) > MaxLabelLength {
			errs.Add(linkField(i, "label"), fmt.Sprintf("Label must be at most %d characters", MaxLabelLength))
		}

		if msg := LinkURLError(row.URL); msg != "" {
			errs.Add(linkField(i, "url"), msg)
		}
	}

	if count > MaxLinks {
		errs.Add("links", fmt.Sprintf("You can add at most %d links", MaxLinks))
	}

	return errs
}

// LinkURLError returns a message for an unacceptable link URL, or "" when it is fine.
func LinkURLError(raw string) string {
	u := domain.NormalizeURL(raw)
	if u == "" {
		return "URL is required"
	}

	parsed, err := url.Parse(u)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "URL must start with http:// or https://"
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "URL must include a host"
	}
	if net.ParseIP(host) != nil || strings.Contains(host, ":") {
		return "URL must be a domain, not an IP address"
	}
	if !hostRegex.MatchString(host) {
		return "URL must be a valid domain like example.com"
	}
	if len(u) > MaxURLLength {
		return "URL is too long"
	}
	return ""
}

var allowedAvatarTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpg":  {},
	"image/jpeg": {},
	"image/webp": {},
}

func ValidateAvatar(upload *domain.AvatarUpload) ValidationErrors {
	errs := make(ValidationErrors)
	if upload == nil {
		return errs
	}

	if _, ok := allowedAvatarTypes[strings.ToLower(upload.ContentType)]; !ok {
		errs.Add("avatar", "Avatar must be PNG, JPG, or WEBP")
	} else if len(upload.Data) > MaxAvatarBytes {
		errs.Add("avatar", "Avatar must be smaller than 5 MB")
	}

	return errs
}

type linkKey struct{ label, url string }

// newLinkKey matches the label/url pair the repository compares when skipping repeated inserts.
func newLinkKey(label, url string) linkKey {
	return linkKey{label: strings.TrimSpace(label), url: domain.NormalizeURL(url)}
}

func linkField(i int, field string) string {
	return fmt.Sprintf("links.%d.%s", i, field)
}
