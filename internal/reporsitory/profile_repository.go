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

type ProfileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		collection: db.Collection("profiles"),
	}
}

// FindOrCreate returns the profile for (userID, experienceID), inserting one
// with the supplied defaults if none exists. The insert is conditional at the
// storage layer ($setOnInsert under the unique compound index), so concurrent
// first visits cannot create duplicates. The boolean reports whether this
// call performed the insert.
func (r *ProfileRepository) FindOrCreate(ctx context.Context, userID, experienceID string, defaults models.ProfileDefaults) (*models.Profile, bool, error) {
	now := time.Now().Unix()
	newID := bson.NewObjectID()

	filter := bson.M{"userId": userID, "experienceId": experienceID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":             newID,
			"userId":          userID,
			"experienceId":    experienceID,
			"username":        defaults.Username,
			"name":            defaults.Name,
			"bio":             defaults.Bio,
			"avatarUrl":       defaults.AvatarURL,
			"sections":        []models.Section{},
			"isPremiumMember": false,
			"metadata":        models.Metadata{CreatedAt: now, UpdatedAt: now},
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile models.Profile
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&profile); err != nil {
		return nil, false, fmt.Errorf("failed to find or create profile: %w", err)
	}

	return &profile, profile.ID == newID, nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByUserAndExperience(ctx context.Context, userID, experienceID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "experienceId": experienceID}).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByExperience returns every profile of an experience, newest first.
func (r *ProfileRepository) FindByExperience(ctx context.Context, experienceID string) ([]*models.Profile, error) {
	opts := options.Find().SetSort(bson.M{"metadata.createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"experienceId": experienceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []*models.Profile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	return profiles, nil
}

// UpdateFields sets the given fields on one profile and bumps updatedAt.
func (r *ProfileRepository) UpdateFields(ctx context.Context, id bson.ObjectID, fields bson.M) (*models.Profile, error) {
	set := bson.M{"metadata.updatedAt": time.Now().Unix()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &updated, nil
}

// SetPremium flips the premium flag for (userID, experienceID). The boolean
// reports whether a profile matched; an unknown pair is not an error.
func (r *ProfileRepository) SetPremium(ctx context.Context, userID, experienceID string) (bool, error) {
	update := bson.M{
		"$set": bson.M{
			"isPremiumMember":    true,
			"metadata.updatedAt": time.Now().Unix(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID, "experienceId": experienceID}, update)
	if err != nil {
		return false, fmt.Errorf("failed to set premium flag: %w", err)
	}

	return result.MatchedCount > 0, nil
}

func (r *ProfileRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "experienceId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "experienceId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "metadata.createdAt", Value: -1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
