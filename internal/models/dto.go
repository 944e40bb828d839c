package models

type ProfileDefaults struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatarUrl"`
}

type CreateProfileRequest struct {
	ExperienceID string `json:"experienceId"`
}

// SectionInput is one section as edited by the member, before normalization.
type SectionInput struct {
	Type SectionType    `json:"type"`
	Data map[string]any `json:"data"`
}

type SaveProfileRequest struct {
	ExperienceID string         `json:"experienceId"`
	Username     string         `json:"username"`
	Name         string         `json:"name"`
	Bio          string         `json:"bio"`
	Sections     []SectionInput `json:"sections"`
}

type SaveSettingsRequest struct {
	Color               string        `json:"color"`
	EnabledSectionTypes []SectionType `json:"enabledSectionTypes"`
}

// DirectoryQuery selects and orders profiles for the directory view.
// Tab is "all", "verified", or the plural form of a section type key.
type DirectoryQuery struct {
	ExperienceID string `json:"experienceId"`
	Tab          string `json:"tab"`
	Search       string `json:"search"`
}

type DirectoryResult struct {
	Profiles   []*Profile `json:"profiles"`
	TotalCount int        `json:"totalCount"`
}

type SyncResult struct {
	MembersSeen     int `json:"membersSeen"`
	ProfilesCreated int `json:"profilesCreated"`
}
