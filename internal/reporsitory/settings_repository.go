package reporsitory

import (
	"context"
	"fmt"
	"time"

	"directory-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{
		collection: db.Collection("experience_settings"),
	}
}

func (r *SettingsRepository) Get(ctx context.Context, experienceID string) (*models.ExperienceSettings, error) {
	var settings models.ExperienceSettings
	err := r.collection.FindOne(ctx, bson.M{"experienceId": experienceID}).Decode(&settings)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert writes the settings for an experience, inserting on first save and
// updating in place afterwards. The unique experienceId index keeps it to one
// document per experience.
func (r *SettingsRepository) Upsert(ctx context.Context, experienceID, color string, enabled []models.SectionType) (*models.ExperienceSettings, error) {
	now := time.Now().Unix()

	filter := bson.M{"experienceId": experienceID}
	update := bson.M{
		"$set": bson.M{
			"color":               color,
			"enabledSectionTypes": enabled,
			"metadata.updatedAt":  now,
		},
		"$setOnInsert": bson.M{
			"experienceId":       experienceID,
			"metadata.createdAt": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var settings models.ExperienceSettings
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&settings); err != nil {
		return nil, fmt.Errorf("failed to upsert settings: %w", err)
	}

	return &settings, nil
}

func (r *SettingsRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "experienceId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
