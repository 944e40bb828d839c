package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"directory-service/internal/event"
	"directory-service/internal/models"
	"directory-service/internal/normalize"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type ProfileService struct {
	profiles      ProfileStore
	cache         ListingCache
	publisher     event.Publisher
	users         UserLookup
	members       MemberLister
	announcer     Announcer
	effectTimeout time.Duration
}

func NewProfileService(profiles ProfileStore, cache ListingCache, publisher event.Publisher, users UserLookup, members MemberLister, announcer Announcer, effectTimeout time.Duration) *ProfileService {
	return &ProfileService{
		profiles:      profiles,
		cache:         cache,
		publisher:     publisher,
		users:         users,
		members:       members,
		announcer:     announcer,
		effectTimeout: effectTimeout,
	}
}

// FindOrCreate provisions the member's profile on first visit and converges
// on repeated calls: it never duplicates a profile and never overwrites a
// non-empty field with a default. The boolean reports whether the profile was
// created by this call.
func (s *ProfileService) FindOrCreate(ctx context.Context, userID, experienceID string, defaults models.ProfileDefaults) (*models.Profile, bool, error) {
	if userID == "" || experienceID == "" {
		return nil, false, fmt.Errorf("user ID and experience ID are required")
	}

	profile, created, err := s.profiles.FindOrCreate(ctx, userID, experienceID, defaults)
	if err != nil {
		return nil, false, fmt.Errorf("failed to reconcile profile: %w", err)
	}

	if !created {
		fill := bson.M{}
		if profile.Username == "" && defaults.Username != "" {
			fill["username"] = defaults.Username
		}
		if profile.Name == "" && defaults.Name != "" {
			fill["name"] = defaults.Name
		}
		if profile.Bio == "" && defaults.Bio != "" {
			fill["bio"] = defaults.Bio
		}
		if profile.AvatarURL == "" && defaults.AvatarURL != "" {
			fill["avatarUrl"] = defaults.AvatarURL
		}
		if len(fill) > 0 {
			profile, err = s.profiles.UpdateFields(ctx, profile.ID, fill)
			if err != nil {
				return nil, false, fmt.Errorf("failed to fill profile defaults: %w", err)
			}
		}
	}

	if created {
		s.cache.Invalidate(ctx, experienceID)
		if err := s.publisher.PublishProfileEvent(&models.ProfileEvent{
			EventType:    models.EventTypeProfileCreated,
			ProfileID:    profile.ID.Hex(),
			UserID:       profile.UserID,
			ExperienceID: profile.ExperienceID,
			Timestamp:    time.Now().Unix(),
		}); err != nil {
			log.Printf("Failed to publish profile created event: %v", err)
		}
	}

	normalize.Profile(profile)
	return profile, created, nil
}

// FindOrCreateForUser resolves the caller's platform user record for the
// defaults before reconciling. A platform failure degrades to empty defaults
// rather than blocking the visit.
func (s *ProfileService) FindOrCreateForUser(ctx context.Context, userID, experienceID string) (*models.Profile, bool, error) {
	defaults := models.ProfileDefaults{}
	if user, err := s.users.GetUser(ctx, userID); err != nil {
		log.Printf("Could not fetch platform user %s, creating with empty defaults: %v", userID, err)
	} else {
		defaults = models.ProfileDefaults{
			Username:  user.Username,
			Name:      user.Name,
			Bio:       user.Bio,
			AvatarURL: user.AvatarURL,
		}
	}

	return s.FindOrCreate(ctx, userID, experienceID, defaults)
}

// GetByUserAndExperience returns the member's profile, or nil (not an error)
// when none exists.
func (s *ProfileService) GetByUserAndExperience(ctx context.Context, userID, experienceID string) (*models.Profile, error) {
	if userID == "" || experienceID == "" {
		return nil, fmt.Errorf("user ID and experience ID are required")
	}

	profile, err := s.profiles.FindByUserAndExperience(ctx, userID, experienceID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	normalize.Profile(profile)
	return profile, nil
}

// Save performs a full replace of the profile's mutable fields. Section
// payloads are coerced per the registry; sections left empty are dropped.
func (s *ProfileService) Save(ctx context.Context, profileID string, req *models.SaveProfileRequest) (*models.Profile, error) {
	if profileID == "" {
		return nil, fmt.Errorf("profile ID is required")
	}

	objectID, err := bson.ObjectIDFromHex(profileID)
	if err != nil {
		return nil, fmt.Errorf("invalid profile ID format: %w", err)
	}

	existing, err := s.profiles.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("profile not found")
		}
		return nil, fmt.Errorf("failed to get existing profile: %w", err)
	}

	wasFresh := existing.IsFresh()
	sections := normalize.Sections(req.Sections)
	if sections == nil {
		sections = []models.Section{}
	}

	updated, err := s.profiles.UpdateFields(ctx, objectID, bson.M{
		"username": req.Username,
		"name":     req.Name,
		"bio":      req.Bio,
		"sections": sections,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.cache.Invalidate(ctx, updated.ExperienceID)

	if err := s.publisher.PublishProfileEvent(&models.ProfileEvent{
		EventType:    models.EventTypeProfileUpdated,
		ProfileID:    updated.ID.Hex(),
		UserID:       updated.UserID,
		ExperienceID: updated.ExperienceID,
		Timestamp:    time.Now().Unix(),
	}); err != nil {
		log.Printf("Failed to publish profile updated event: %v", err)
	}

	// First real save of a freshly provisioned profile introduces the member
	// to the community. Delivery is best-effort.
	if wasFresh && updated.Name != "" {
		s.announce(updated)
	}

	normalize.Profile(updated)
	return updated, nil
}

func (s *ProfileService) announce(profile *models.Profile) {
	ctx, cancel := context.WithTimeout(context.Background(), s.effectTimeout)
	defer cancel()

	title := fmt.Sprintf("👋 Meet %s (@%s)", profile.Name, profile.Username)
	message := title
	if profile.Bio != "" {
		message += "\n" + profile.Bio
	}

	if err := s.announcer.SendChatMessage(ctx, profile.ExperienceID, message); err != nil {
		log.Printf("Failed to send intro chat message for profile %s: %v", profile.ID.Hex(), err)
	}
	if err := s.announcer.CreateForumPost(ctx, profile.ExperienceID, title, profile.Bio); err != nil {
		log.Printf("Failed to create intro forum post for profile %s: %v", profile.ID.Hex(), err)
	}
}

// ProvisionMember backs the membership event consumer and the admin sync:
// same reconciliation as a first visit, with platform-sourced defaults.
func (s *ProfileService) ProvisionMember(ctx context.Context, experienceID, userID, username, name string) error {
	_, _, err := s.FindOrCreate(ctx, userID, experienceID, models.ProfileDefaults{
		Username: username,
		Name:     name,
	})
	return err
}

// SyncMembers provisions a profile for every current member of the
// experience, reporting how many were newly created.
func (s *ProfileService) SyncMembers(ctx context.Context, experienceID string) (*models.SyncResult, error) {
	if experienceID == "" {
		return nil, fmt.Errorf("experience ID is required")
	}

	members, err := s.members.ListMembers(ctx, experienceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list experience members: %w", err)
	}

	result := &models.SyncResult{MembersSeen: len(members)}
	for _, member := range members {
		_, created, err := s.FindOrCreate(ctx, member.ID, experienceID, models.ProfileDefaults{
			Username: member.Username,
			Name:     member.Name,
		})
		if err != nil {
			log.Printf("Failed to sync member %s: %v", member.ID, err)
			continue
		}
		if created {
			result.ProfilesCreated++
		}
	}

	return result, nil
}
