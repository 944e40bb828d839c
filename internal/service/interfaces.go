package service

import (
	"context"

	"directory-service/internal/models"
	"directory-service/internal/platform"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ProfileStore is the persistence surface the services need; implemented by
// reporsitory.ProfileRepository.
type ProfileStore interface {
	FindOrCreate(ctx context.Context, userID, experienceID string, defaults models.ProfileDefaults) (*models.Profile, bool, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Profile, error)
	FindByUserAndExperience(ctx context.Context, userID, experienceID string) (*models.Profile, error)
	FindByExperience(ctx context.Context, experienceID string) ([]*models.Profile, error)
	UpdateFields(ctx context.Context, id bson.ObjectID, fields bson.M) (*models.Profile, error)
	SetPremium(ctx context.Context, userID, experienceID string) (bool, error)
}

// SettingsStore is implemented by reporsitory.SettingsRepository.
type SettingsStore interface {
	Get(ctx context.Context, experienceID string) (*models.ExperienceSettings, error)
	Upsert(ctx context.Context, experienceID, color string, enabled []models.SectionType) (*models.ExperienceSettings, error)
}

// ListingCache is implemented by cache.DirectoryCache.
type ListingCache interface {
	GetListing(ctx context.Context, experienceID string) ([]*models.Profile, bool)
	SetListing(ctx context.Context, experienceID string, profiles []*models.Profile)
	Invalidate(ctx context.Context, experienceID string)
}

// UserLookup resolves host-platform user records for profile defaults.
type UserLookup interface {
	GetUser(ctx context.Context, userID string) (*platform.User, error)
}

// MemberLister feeds the admin member sync.
type MemberLister interface {
	ListMembers(ctx context.Context, experienceID string) ([]platform.Member, error)
}

// Announcer delivers best-effort introduction messages. Failures are logged,
// never surfaced.
type Announcer interface {
	SendChatMessage(ctx context.Context, experienceID, message string) error
	CreateForumPost(ctx context.Context, experienceID, title, content string) error
}

// PaymentsClient is the payments collaborator: charge creation and the owner
// payout transfer.
type PaymentsClient interface {
	TransferFunds(ctx context.Context, input platform.TransferInput) error
	ChargeUser(ctx context.Context, input platform.ChargeInput) (*platform.CheckoutSession, error)
}
