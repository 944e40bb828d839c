package service

import (
	"context"
	"errors"
	"fmt"

	"directory-service/internal/models"
	"directory-service/internal/registry"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

type SettingsService struct {
	settings SettingsStore
}

func NewSettingsService(settings SettingsStore) *SettingsService {
	return &SettingsService{settings: settings}
}

// Get returns the experience settings, or nil when the admin never saved any.
func (s *SettingsService) Get(ctx context.Context, experienceID string) (*models.ExperienceSettings, error) {
	if experienceID == "" {
		return nil, fmt.Errorf("experience ID is required")
	}

	settings, err := s.settings.Get(ctx, experienceID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return settings, nil
}

// Upsert saves the experience settings. Section types the registry does not
// know are dropped rather than rejected; the authorization check happened
// before we got here.
func (s *SettingsService) Upsert(ctx context.Context, experienceID string, req *models.SaveSettingsRequest) (*models.ExperienceSettings, error) {
	if experienceID == "" {
		return nil, fmt.Errorf("experience ID is required")
	}
	if req.Color == "" {
		return nil, fmt.Errorf("color is required")
	}

	enabled := make([]models.SectionType, 0, len(req.EnabledSectionTypes))
	seen := make(map[models.SectionType]struct{})
	for _, t := range req.EnabledSectionTypes {
		if !registry.Known(t) {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		enabled = append(enabled, t)
	}

	settings, err := s.settings.Upsert(ctx, experienceID, req.Color, enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	return settings, nil
}
