package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ExperienceSettings is the per-experience admin policy: the display theme and
// which section types members may fill in. At most one document exists per
// experience (unique index on experienceId); writes are upserts.
type ExperienceSettings struct {
	ID                  bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ExperienceID        string        `json:"experienceId" bson:"experienceId"`
	Color               string        `json:"color" bson:"color"`
	EnabledSectionTypes []SectionType `json:"enabledSectionTypes" bson:"enabledSectionTypes"`
	Metadata            Metadata      `json:"metadata" bson:"metadata"`
}

// SectionEnabled reports whether the admin left the given section type on.
func (s *ExperienceSettings) SectionEnabled(t SectionType) bool {
	if s == nil {
		return false
	}
	for _, enabled := range s.EnabledSectionTypes {
		if enabled == t {
			return true
		}
	}
	return false
}
