package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/adapters/metrics"
	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
	"github.com/wadjakorntonsri/linkfolio/pkg/validator"
)

// OnboardingService walks a profile through the onboarding steps. The current step always
// comes from the caller; nothing about progress is kept between calls except the profile row.
type OnboardingService struct {
	repo     ports.ProfileRepository
	checker  ports.UsernameChecker
	blobs    ports.BlobStore
	notifier ports.Notifier
	metrics  *metrics.Collector
	logger   *zap.Logger
	now      func() time.Time
}

func NewOnboardingService(
	repo ports.ProfileRepository,
	checker ports.UsernameChecker,
	blobs ports.BlobStore,
	notifier ports.Notifier,
	m *metrics.Collector,
	logger *zap.Logger,
) *OnboardingService {
	return &OnboardingService{
		repo:     repo,
		checker:  checker,
		blobs:    blobs,
		notifier: notifier,
		metrics:  m,
		logger:   logger.With(zap.String("component", "onboarding")),
		now:      time.Now,
	}
}

func (s *OnboardingService) Show(ctx context.Context, profileID int64, step string) (*domain.OnboardingResult, error) {
	profile, err := s.load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.Onboarded() {
		return s.completed(true), nil
	}

	res := display(domain.ParseStep(step))
	if res.Step == domain.StepLinks {
		links, err := s.repo.ListLinks(ctx, profileID)
		if err != nil {
			return nil, fmt.Errorf("listing links: %w", err)
		}
		res.SeedLinkRow = len(links) == 0
	}
	return res, nil
}

func (s *OnboardingService) Update(ctx context.Context, profileID int64, step string, payload domain.OnboardingPayload, skip bool) (*domain.OnboardingResult, error) {
	profile, err := s.load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.Onboarded() {
		return s.completed(true), nil
	}

	current := domain.Step(step)
	if !domain.IsValidStep(current) {
		return display(domain.FirstStep()), nil
	}

	var res *domain.OnboardingResult
	switch current {
	case domain.StepName:
		res, err = s.updateName(ctx, profileID, payload)
	case domain.StepUsername:
		res, err = s.updateUsername(ctx, profileID, payload)
	case domain.StepBio:
		res, err = s.updateBio(ctx, profileID, payload, skip)
	case domain.StepLinks:
		res, err = s.updateLinks(ctx, profileID, payload, skip)
	case domain.StepAvatar:
		res, err = s.updateAvatar(ctx, profileID, payload, skip)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveOnboarding(string(current), string(res.Outcome))
	return res, nil
}

// Finalize marks the profile onboarded. Only the first caller observes the transition.
func (s *OnboardingService) Finalize(ctx context.Context, profileID int64) (*domain.OnboardingResult, error) {
	profile, err := s.load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.Onboarded() {
		return s.completed(true), nil
	}

	at := s.now().UTC()
	transitioned, err := s.repo.MarkCompleted(ctx, profileID, at)
	if err != nil {
		return nil, fmt.Errorf("completing onboarding: %w", err)
	}
	if !transitioned {
		return s.completed(true), nil
	}

	profile.CompletedAt = &at
	s.logger.Info("onboarding completed", zap.Int64("profile_id", profileID))

	if s.notifier != nil {
		if err := s.notifier.Welcome(ctx, profile); err != nil {
			s.logger.Warn("welcome notification failed", zap.Int64("profile_id", profileID), zap.Error(err))
		}
	}

	return s.completed(false), nil
}

func (s *OnboardingService) updateName(ctx context.Context, profileID int64, payload domain.OnboardingPayload) (*domain.OnboardingResult, error) {
	if errs := validator.ValidateName(payload.GivenName, payload.FamilyName); errs.HasErrors() {
		return redisplay(domain.StepName, errs), nil
	}

	givenName := strings.TrimSpace(payload.GivenName)
	familyName := strings.TrimSpace(payload.FamilyName)
	if err := s.repo.UpdateName(ctx, profileID, givenName, familyName); err != nil {
		return nil, fmt.Errorf("saving name: %w", err)
	}
	return advance(domain.StepName), nil
}

func (s *OnboardingService) updateUsername(ctx context.Context, profileID int64, payload domain.OnboardingPayload) (*domain.OnboardingResult, error) {
	username, verdict, err := s.checker.Verify(ctx, payload.Username, profileID)
	if err != nil {
		return nil, err
	}

	errs := make(validator.ValidationErrors)
	switch verdict {
	case domain.UsernameBlank:
		errs.Add("username", "Username is required")
	case domain.UsernameBadFormat:
		errs.Add("username", validator.UsernameFormatMessage())
	case domain.UsernameReserved:
		errs.Add("username", "Username is reserved")
	case domain.UsernameTaken:
		errs.Add("username", "Username has already been taken")
	}
	if errs.HasErrors() {
		return redisplay(domain.StepUsername, errs), nil
	}

	// A concurrent claim that slips past Verify surfaces here as ErrUsernameConflict.
	err = s.repo.UpdateUsername(ctx, profileID, username)
	if errors.Is(err, domain.ErrUsernameConflict) {
		errs.Add("username", "Username has already been taken")
		return redisplay(domain.StepUsername, errs), nil
	}
	if err != nil {
		return nil, fmt.Errorf("saving username: %w", err)
	}
	return advance(domain.StepUsername), nil
}

func (s *OnboardingService) updateBio(ctx context.Context, profileID int64, payload domain.OnboardingPayload, skip bool) (*domain.OnboardingResult, error) {
	if skip {
		return advance(domain.StepBio), nil
	}

	if errs := validator.ValidateBio(payload.Bio); errs.HasErrors() {
		return redisplay(domain.StepBio, errs), nil
	}
	if err := s.repo.UpdateBio(ctx, profileID, strings.TrimSpace(payload.Bio)); err != nil {
		return nil, fmt.Errorf("saving bio: %w", err)
	}
	return advance(domain.StepBio), nil
}

func (s *OnboardingService) updateLinks(ctx context.Context, profileID int64, payload domain.OnboardingPayload, skip bool) (*domain.OnboardingResult, error) {
	if skip {
		return advance(domain.StepLinks), nil
	}

	existing, err := s.repo.ListLinks(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	if errs := validator.ValidateLinks(payload.Links, existing); errs.HasErrors() {
		return redisplay(domain.StepLinks, errs), nil
	}

	changes := make([]domain.LinkChange, 0, len(payload.Links))
	for _, row := range payload.Links {
		if row.Blank() {
			continue
		}
		if row.Position == nil {
			zero := 0
			row.Position = &zero
		}
		row.Label = strings.TrimSpace(row.Label)
		row.URL = domain.NormalizeURL(row.URL)
		changes = append(changes, row)
	}

	if len(changes) > 0 {
		err := s.repo.ApplyLinkChanges(ctx, profileID, changes)
		if errors.Is(err, domain.ErrLinkNotFound) {
			errs := make(validator.ValidationErrors)
			errs.Add("links", "One of the links no longer exists")
			return redisplay(domain.StepLinks, errs), nil
		}
		if err != nil {
			return nil, fmt.Errorf("saving links: %w", err)
		}
	}
	return advance(domain.StepLinks), nil
}

func (s *OnboardingService) updateAvatar(ctx context.Context, profileID int64, payload domain.OnboardingPayload, skip bool) (*domain.OnboardingResult, error) {
	upload := payload.Avatar
	if skip || upload == nil || len(upload.Data) == 0 {
		return s.Finalize(ctx, profileID)
	}

	if errs := validator.ValidateAvatar(upload); errs.HasErrors() {
		return redisplay(domain.StepAvatar, errs), nil
	}

	// One key per profile so a repeated upload replaces the previous avatar.
	ref, err := s.blobs.Put(ctx, fmt.Sprintf("avatars/%d", profileID), upload.Data, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("storing avatar: %w", err)
	}
	if err := s.repo.SetAvatar(ctx, profileID, ref); err != nil {
		return nil, fmt.Errorf("saving avatar: %w", err)
	}
	return s.Finalize(ctx, profileID)
}

func (s *OnboardingService) load(ctx context.Context, profileID int64) (*domain.Profile, error) {
	profile, err := s.repo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (s *OnboardingService) completed(already bool) *domain.OnboardingResult {
	if already {
		s.metrics.ObserveOnboarding(string(domain.StepFinalize), "already_completed")
	}
	return &domain.OnboardingResult{
		Outcome:          domain.OutcomeCompleted,
		Progress:         100,
		AlreadyCompleted: already,
	}
}

func display(step domain.Step) *domain.OnboardingResult {
	return &domain.OnboardingResult{
		Outcome:  domain.OutcomeDisplay,
		Step:     step,
		Progress: domain.ProgressPercent(step),
	}
}

func advance(from domain.Step) *domain.OnboardingResult {
	next := domain.NextStep(from)
	return &domain.OnboardingResult{
		Outcome:  domain.OutcomeAdvance,
		Step:     next,
		Progress: domain.ProgressPercent(next),
	}
}

func redisplay(step domain.Step, errs validator.ValidationErrors) *domain.OnboardingResult {
	return &domain.OnboardingResult{
		Outcome:  domain.OutcomeRedisplay,
		Step:     step,
		Progress: domain.ProgressPercent(step),
		Errors:   errs,
	}
}

var _ ports.OnboardingService = (*OnboardingService)(nil)
