package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Section is one admin-configurable block of a profile. Data maps field names
// to a string, a list of strings, or a string-to-string map; the normalize
// package owns coercion between raw payloads and that closed set of shapes.
// Unknown field names are preserved as-is for forward compatibility.
type Section struct {
	Type  SectionType    `json:"type" bson:"type"`
	Title string         `json:"title" bson:"title"`
	Data  map[string]any `json:"data" bson:"data"`
}

type Metadata struct {
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// Profile is one member's entry in one experience's directory. At most one
// profile exists per (userId, experienceId) pair, enforced by a unique
// compound index.
type Profile struct {
	ID              bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          string        `json:"userId" bson:"userId"`
	ExperienceID    string        `json:"experienceId" bson:"experienceId"`
	Username        string        `json:"username" bson:"username"`
	Name            string        `json:"name" bson:"name"`
	Bio             string        `json:"bio" bson:"bio"`
	AvatarURL       string        `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	Sections        []Section     `json:"sections" bson:"sections"`
	IsPremiumMember bool          `json:"isPremiumMember" bson:"isPremiumMember"`
	Metadata        Metadata      `json:"metadata" bson:"metadata"`
}

// IsFresh reports whether the profile was provisioned but never edited;
// callers use it to push the member into the edit flow.
func (p *Profile) IsFresh() bool {
	return p.Name == "" && p.Username == ""
}

// HasSection reports whether the profile carries at least one section of the
// given type.
func (p *Profile) HasSection(t SectionType) bool {
	for _, s := range p.Sections {
		if s.Type == t {
			return true
		}
	}
	return false
}
