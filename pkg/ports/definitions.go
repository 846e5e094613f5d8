package ports

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
)

// ProfileRepository defines storage operations for profiles and the rows they own
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id int64) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error) // Case-insensitive
	UsernameInUse(ctx context.Context, username string, excludingID int64) (bool, error)
	Dump(ctx context.Context) ([]domain.Profile, error) // For migration

	// Onboarding writes
	UpdateName(ctx context.Context, id int64, givenName, familyName string) error
	UpdateUsername(ctx context.Context, id int64, username string) error
	UpdateBio(ctx context.Context, id int64, bio string) error
	SetAvatar(ctx context.Context, id int64, ref string) error
	MarkCompleted(ctx context.Context, id int64, at time.Time) (bool, error) // Only if not completed yet

	// Links
	ListLinks(ctx context.Context, profileID int64) ([]domain.FavoriteLink, error)
	GetLink(ctx context.Context, profileID, linkID int64) (*domain.FavoriteLink, error)
	ApplyLinkChanges(ctx context.Context, profileID int64, changes []domain.LinkChange) error // All or nothing

	// Posts
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPublishedPost(ctx context.Context, profileID, postID int64) (*domain.Post, error)
}

// CounterRepository increments engagement counters in place
type CounterRepository interface {
	IncrementVisits(ctx context.Context, profileID int64) error
	IncrementLinkClicks(ctx context.Context, linkID int64) error
	IncrementPostViews(ctx context.Context, postID int64) error
}

// CacheStore is the volatile key-value store behind engagement deduplication
type CacheStore interface {
	// SetNX writes a presence marker if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// BlobStore keeps uploaded files such as avatars
type BlobStore interface {
	// Put stores data under key, replacing any previous content, and returns a stable reference.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Notifier dispatches messages after onboarding is finalized
type Notifier interface {
	Welcome(ctx context.Context, profile *domain.Profile) error
}

// UsernameChecker defines the live username check
type UsernameChecker interface {
	Check(ctx context.Context, raw string, excludingID int64) (domain.UsernameStatus, error)
	Verify(ctx context.Context, raw string, excludingID int64) (string, domain.UsernameVerdict, error)
}

// OnboardingService defines the onboarding workflow operations
type OnboardingService interface {
	Show(ctx context.Context, profileID int64, step string) (*domain.OnboardingResult, error)
	Update(ctx context.Context, profileID int64, step string, payload domain.OnboardingPayload, skip bool) (*domain.OnboardingResult, error)
	Finalize(ctx context.Context, profileID int64) (*domain.OnboardingResult, error)
}

// EngagementService defines the counting operations called by public pages
type EngagementService interface {
	RecordVisit(ctx context.Context, profileID int64, actor domain.Actor) error
	RecordLinkClick(ctx context.Context, linkID, ownerID int64, actor domain.Actor) error
	RecordPostView(ctx context.Context, postID, ownerID int64, actor domain.Actor) error
}

// ProfileService defines registration and public profile reads
type ProfileService interface {
	Register(ctx context.Context, email string) (*domain.Profile, error)
	GetPublicProfile(ctx context.Context, username string) (*domain.Profile, error)
	GetPublicLink(ctx context.Context, username string, linkID int64) (*domain.FavoriteLink, error)
	GetPublicPost(ctx context.Context, username string, postID int64) (*domain.Post, error)
}
