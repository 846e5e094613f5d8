package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
)

type ProfileService struct {
	repo ports.ProfileRepository
}

func NewProfileService(repo ports.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Register finds the profile for email, creating an empty one on first sign-in.
func (s *ProfileService) Register(ctx context.Context, email string) (*domain.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	profile := &domain.Profile{
		Email:     email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetPublicProfile returns an onboarded profile with its links. Profiles still onboarding are
// reported as not found.
func (s *ProfileService) GetPublicProfile(ctx context.Context, username string) (*domain.Profile, error) {
	profile, err := s.publicProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	links, err := s.repo.ListLinks(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	profile.Links = links
	return profile, nil
}

func (s *ProfileService) GetPublicLink(ctx context.Context, username string, linkID int64) (*domain.FavoriteLink, error) {
	profile, err := s.publicProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	link, err := s.repo.GetLink(ctx, profile.ID, linkID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, domain.ErrLinkNotFound
	}
	return link, nil
}

func (s *ProfileService) GetPublicPost(ctx context.Context, username string, postID int64) (*domain.Post, error) {
	profile, err := s.publicProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.GetPublishedPost(ctx, profile.ID, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}

func (s *ProfileService) publicProfile(ctx context.Context, username string) (*domain.Profile, error) {
	profile, err := s.repo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}
	if profile == nil || !profile.Onboarded() {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

var _ ports.ProfileService = (*ProfileService)(nil)
