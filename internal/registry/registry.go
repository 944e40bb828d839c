// Package registry holds the static catalog of profile section types. It is
// loaded once at process start and read-only afterwards.
package registry

import (
	"directory-service/internal/models"
)

type FieldSchema struct {
	Name        string           `json:"name"`
	Label       string           `json:"label"`
	Kind        models.FieldKind `json:"kind"`
	Placeholder string           `json:"placeholder,omitempty"`
	Max         int              `json:"max,omitempty"`
}

type SectionSchema struct {
	Key         models.SectionType `json:"key"`
	Label       string             `json:"label"`
	Description string             `json:"description"`
	Icon        string             `json:"icon"`
	Color       string             `json:"color"`
	Fields      []FieldSchema      `json:"fields"`
}

var sections = []SectionSchema{
	{
		Key:         models.SectionGamer,
		Label:       "Gamer",
		Description: "Show off your gaming skills, favorite titles, and platforms.",
		Icon:        "gamepad",
		Color:       "indigo",
		Fields: []FieldSchema{
			{Name: "games", Label: "Favorite Games", Kind: models.FieldTags, Placeholder: "Add a game", Max: 8},
			{Name: "platforms", Label: "Platforms", Kind: models.FieldTags, Placeholder: "e.g. PC, PS5", Max: 5},
			{Name: "handles", Label: "Gamer Handles", Kind: models.FieldKeyValue, Placeholder: "e.g. Steam, Xbox", Max: 5},
		},
	},
	{
		Key:         models.SectionCreator,
		Label:       "Creator",
		Description: "Share your creative outlets, channels, and content.",
		Icon:        "paintbrush",
		Color:       "pink",
		Fields: []FieldSchema{
			{Name: "mediums", Label: "Mediums", Kind: models.FieldTags, Placeholder: "e.g. YouTube, Art", Max: 5},
			{Name: "links", Label: "Links", Kind: models.FieldKeyValue, Placeholder: "e.g. Channel, Portfolio", Max: 5},
		},
	},
	{
		Key:         models.SectionDeveloper,
		Label:       "Developer",
		Description: "Highlight your dev skills, languages, and projects.",
		Icon:        "code",
		Color:       "green",
		Fields: []FieldSchema{
			{Name: "languages", Label: "Languages", Kind: models.FieldTags, Placeholder: "e.g. JS, Python", Max: 8},
			{Name: "frameworks", Label: "Frameworks", Kind: models.FieldTags, Placeholder: "e.g. React, Django", Max: 5},
			{Name: "projects", Label: "Projects", Kind: models.FieldKeyValue, Placeholder: "Name & Link", Max: 5},
		},
	},
	{
		Key:         models.SectionTrader,
		Label:       "Trader",
		Description: "Share your trading interests, assets, and platforms.",
		Icon:        "chart-line",
		Color:       "yellow",
		Fields: []FieldSchema{
			{Name: "assets", Label: "Assets", Kind: models.FieldTags, Placeholder: "e.g. Stocks, Crypto", Max: 8},
			{Name: "platforms", Label: "Platforms", Kind: models.FieldTags, Placeholder: "e.g. Robinhood", Max: 5},
		},
	},
	{
		Key:         models.SectionStudent,
		Label:       "Student",
		Description: "Show your studies, interests, and achievements.",
		Icon:        "graduation-cap",
		Color:       "blue",
		Fields: []FieldSchema{
			{Name: "subjects", Label: "Subjects", Kind: models.FieldTags, Placeholder: "e.g. Math, CS", Max: 8},
			{Name: "achievements", Label: "Achievements", Kind: models.FieldKeyValue, Placeholder: "e.g. Award, GPA", Max: 5},
		},
	},
}

// List returns every section schema in display order.
func List() []SectionSchema {
	out := make([]SectionSchema, len(sections))
	copy(out, sections)
	return out
}

// Get returns the schema for a section type.
func Get(t models.SectionType) (SectionSchema, bool) {
	for _, s := range sections {
		if s.Key == t {
			return s, true
		}
	}
	return SectionSchema{}, false
}

// Known reports whether t belongs to the catalog.
func Known(t models.SectionType) bool {
	_, ok := Get(t)
	return ok
}

// PluralKey returns the directory tab key for a section type ("developer" ->
// "developers").
func PluralKey(t models.SectionType) string {
	return string(t) + "s"
}

// TypeForTab maps a directory tab key back to a section type. Returns false
// for "all", "verified", and anything not in the catalog.
func TypeForTab(tab string) (models.SectionType, bool) {
	if len(tab) < 2 || tab[len(tab)-1] != 's' {
		return "", false
	}
	t := models.SectionType(tab[:len(tab)-1])
	if !Known(t) {
		return "", false
	}
	return t, true
}
