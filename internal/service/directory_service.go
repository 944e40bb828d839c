package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"directory-service/internal/models"
	"directory-service/internal/normalize"
	"directory-service/internal/registry"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	TabAll      = "all"
	TabVerified = "verified"
)

type DirectoryService struct {
	profiles ProfileStore
	settings SettingsStore
	cache    ListingCache
}

func NewDirectoryService(profiles ProfileStore, settings SettingsStore, cache ListingCache) *DirectoryService {
	return &DirectoryService{
		profiles: profiles,
		settings: settings,
		cache:    cache,
	}
}

// Query filters the experience's directory. Profiles arrive newest first from
// the store; filtering order is tab, then search. Community sizes are in the
// hundreds, so the whole set is filtered in memory without pagination.
func (s *DirectoryService) Query(ctx context.Context, query *models.DirectoryQuery) (*models.DirectoryResult, error) {
	if query.ExperienceID == "" {
		return nil, fmt.Errorf("experience ID is required")
	}

	profiles, err := s.listing(ctx, query.ExperienceID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx, query.ExperienceID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to load experience settings: %w", err)
	}

	filtered := filterByTab(profiles, query.Tab, settings)
	filtered = filterBySearch(filtered, query.Search)

	for _, profile := range filtered {
		normalize.Profile(profile)
	}

	return &models.DirectoryResult{
		Profiles:   filtered,
		TotalCount: len(filtered),
	}, nil
}

func (s *DirectoryService) listing(ctx context.Context, experienceID string) ([]*models.Profile, error) {
	if cached, ok := s.cache.GetListing(ctx, experienceID); ok {
		return cached, nil
	}

	profiles, err := s.profiles.FindByExperience(ctx, experienceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	s.cache.SetListing(ctx, experienceID, profiles)
	return profiles, nil
}

// filterByTab keeps the profiles the tab selects. A tab naming a section type
// the admin disabled yields nothing; the data stays hidden, not deleted.
func filterByTab(profiles []*models.Profile, tab string, settings *models.ExperienceSettings) []*models.Profile {
	if tab == "" || tab == TabAll {
		return profiles
	}

	if tab == TabVerified {
		var out []*models.Profile
		for _, p := range profiles {
			if p.IsPremiumMember {
				out = append(out, p)
			}
		}
		return out
	}

	sectionType, ok := registry.TypeForTab(tab)
	if !ok {
		return profiles
	}
	if !sectionTypeEnabled(sectionType, settings) {
		return nil
	}

	var out []*models.Profile
	for _, p := range profiles {
		if p.HasSection(sectionType) {
			out = append(out, p)
		}
	}
	return out
}

// sectionTypeEnabled treats missing settings as everything enabled; the admin
// has not restricted anything yet.
func sectionTypeEnabled(t models.SectionType, settings *models.ExperienceSettings) bool {
	if settings == nil {
		return true
	}
	return settings.SectionEnabled(t)
}

func filterBySearch(profiles []*models.Profile, search string) []*models.Profile {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return profiles
	}

	var out []*models.Profile
	for _, p := range profiles {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Username), needle) ||
			strings.Contains(strings.ToLower(p.Bio), needle) {
			out = append(out, p)
		}
	}
	return out
}
