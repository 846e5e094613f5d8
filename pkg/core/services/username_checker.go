package services

import (
	"context"
	"fmt"

	"github.com/wadjakorntonsri/linkfolio/pkg/adapters/metrics"
	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
	"github.com/wadjakorntonsri/linkfolio/pkg/validator"
)

const (
	usernamePromptText    = "Type a username…"
	usernameAvailableText = "Available ✓"
	usernameTakenText     = "Taken"
)

type UsernameChecker struct {
	repo    ports.ProfileRepository
	metrics *metrics.Collector
}

func NewUsernameChecker(repo ports.ProfileRepository, m *metrics.Collector) *UsernameChecker {
	return &UsernameChecker{repo: repo, metrics: m}
}

// Verify normalizes raw and classifies it. Storage is consulted only for well-formed,
// unreserved candidates.
func (c *UsernameChecker) Verify(ctx context.Context, raw string, excludingID int64) (string, domain.UsernameVerdict, error) {
	username := validator.NormalizeUsername(raw)

	switch {
	case username == "":
		return username, domain.UsernameBlank, nil
	case !validator.UsernameFormatOK(username):
		return username, domain.UsernameBadFormat, nil
	case validator.IsReservedUsername(username):
		return username, domain.UsernameReserved, nil
	}

	inUse, err := c.repo.UsernameInUse(ctx, username, excludingID)
	if err != nil {
		return username, domain.UsernameBlank, fmt.Errorf("checking username: %w", err)
	}
	if inUse {
		return username, domain.UsernameTaken, nil
	}
	return username, domain.UsernameAvailable, nil
}

// Check maps a verdict onto what the live check displays. Reserved names read as taken.
func (c *UsernameChecker) Check(ctx context.Context, raw string, excludingID int64) (domain.UsernameStatus, error) {
	_, verdict, err := c.Verify(ctx, raw, excludingID)
	if err != nil {
		return domain.UsernameStatus{}, err
	}

	var status domain.UsernameStatus
	switch verdict {
	case domain.UsernameBlank:
		status = domain.UsernameStatus{Tone: domain.ToneMuted, Text: usernamePromptText}
	case domain.UsernameBadFormat:
		status = domain.UsernameStatus{Tone: domain.ToneError, Text: validator.UsernameFormatMessage()}
	case domain.UsernameReserved, domain.UsernameTaken:
		status = domain.UsernameStatus{Tone: domain.ToneError, Text: usernameTakenText}
	default:
		status = domain.UsernameStatus{Tone: domain.ToneOK, Text: usernameAvailableText}
	}

	c.metrics.ObserveUsernameCheck(string(status.Tone))
	return status, nil
}

var _ ports.UsernameChecker = (*UsernameChecker)(nil)
