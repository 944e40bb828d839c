package service

import (
	"context"
	"fmt"

	"directory-service/internal/models"
	"directory-service/internal/platform"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func pairKey(userID, experienceID string) string {
	return userID + "|" + experienceID
}

type fakeProfileStore struct {
	profiles      map[string]*models.Profile
	findOrCreates int
	setPremiumErr error
	updateErr     error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[string]*models.Profile)}
}

func (f *fakeProfileStore) add(p *models.Profile) *models.Profile {
	if p.ID.IsZero() {
		p.ID = bson.NewObjectID()
	}
	f.profiles[pairKey(p.UserID, p.ExperienceID)] = p
	return p
}

func (f *fakeProfileStore) FindOrCreate(ctx context.Context, userID, experienceID string, defaults models.ProfileDefaults) (*models.Profile, bool, error) {
	f.findOrCreates++
	if existing, ok := f.profiles[pairKey(userID, experienceID)]; ok {
		clone := *existing
		return &clone, false, nil
	}

	profile := &models.Profile{
		ID:           bson.NewObjectID(),
		UserID:       userID,
		ExperienceID: experienceID,
		Username:     defaults.Username,
		Name:         defaults.Name,
		Bio:          defaults.Bio,
		AvatarURL:    defaults.AvatarURL,
		Sections:     []models.Section{},
	}
	f.profiles[pairKey(userID, experienceID)] = profile
	clone := *profile
	return &clone, true, nil
}

func (f *fakeProfileStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeProfileStore) FindByUserAndExperience(ctx context.Context, userID, experienceID string) (*models.Profile, error) {
	if p, ok := f.profiles[pairKey(userID, experienceID)]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeProfileStore) FindByExperience(ctx context.Context, experienceID string) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range f.profiles {
		if p.ExperienceID == experienceID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeProfileStore) UpdateFields(ctx context.Context, id bson.ObjectID, fields bson.M) (*models.Profile, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for _, p := range f.profiles {
		if p.ID != id {
			continue
		}
		for k, v := range fields {
			switch k {
			case "username":
				p.Username = v.(string)
			case "name":
				p.Name = v.(string)
			case "bio":
				p.Bio = v.(string)
			case "avatarUrl":
				p.AvatarURL = v.(string)
			case "sections":
				p.Sections = v.([]models.Section)
			}
		}
		clone := *p
		return &clone, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeProfileStore) SetPremium(ctx context.Context, userID, experienceID string) (bool, error) {
	if f.setPremiumErr != nil {
		return false, f.setPremiumErr
	}
	p, ok := f.profiles[pairKey(userID, experienceID)]
	if !ok {
		return false, nil
	}
	p.IsPremiumMember = true
	return true, nil
}

type fakeSettingsStore struct {
	settings map[string]*models.ExperienceSettings
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{settings: make(map[string]*models.ExperienceSettings)}
}

func (f *fakeSettingsStore) Get(ctx context.Context, experienceID string) (*models.ExperienceSettings, error) {
	if s, ok := f.settings[experienceID]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeSettingsStore) Upsert(ctx context.Context, experienceID, color string, enabled []models.SectionType) (*models.ExperienceSettings, error) {
	s := &models.ExperienceSettings{
		ID:                  bson.NewObjectID(),
		ExperienceID:        experienceID,
		Color:               color,
		EnabledSectionTypes: enabled,
	}
	if existing, ok := f.settings[experienceID]; ok {
		s.ID = existing.ID
	}
	f.settings[experienceID] = s
	clone := *s
	return &clone, nil
}

type fakeCache struct {
	invalidations []string
}

func (f *fakeCache) GetListing(ctx context.Context, experienceID string) ([]*models.Profile, bool) {
	return nil, false
}

func (f *fakeCache) SetListing(ctx context.Context, experienceID string, profiles []*models.Profile) {
}

func (f *fakeCache) Invalidate(ctx context.Context, experienceID string) {
	f.invalidations = append(f.invalidations, experienceID)
}

type fakeUserLookup struct {
	users map[string]*platform.User
	err   error
}

func (f *fakeUserLookup) GetUser(ctx context.Context, userID string) (*platform.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s not found", userID)
}

type fakeMemberLister struct {
	members []platform.Member
	err     error
}

func (f *fakeMemberLister) ListMembers(ctx context.Context, experienceID string) ([]platform.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members, nil
}

type fakeAnnouncer struct {
	chatMessages []string
	forumPosts   []string
	err          error
}

func (f *fakeAnnouncer) SendChatMessage(ctx context.Context, experienceID, message string) error {
	if f.err != nil {
		return f.err
	}
	f.chatMessages = append(f.chatMessages, message)
	return nil
}

func (f *fakeAnnouncer) CreateForumPost(ctx context.Context, experienceID, title, content string) error {
	if f.err != nil {
		return f.err
	}
	f.forumPosts = append(f.forumPosts, title)
	return nil
}

type fakePayments struct {
	transfers   []platform.TransferInput
	transferErr error
	session     *platform.CheckoutSession
	chargeErr   error
}

func (f *fakePayments) TransferFunds(ctx context.Context, input platform.TransferInput) error {
	if f.transferErr != nil {
		return f.transferErr
	}
	f.transfers = append(f.transfers, input)
	return nil
}

func (f *fakePayments) ChargeUser(ctx context.Context, input platform.ChargeInput) (*platform.CheckoutSession, error) {
	if f.chargeErr != nil {
		return nil, f.chargeErr
	}
	return f.session, nil
}
