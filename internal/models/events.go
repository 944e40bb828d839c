package models

type EventType string

const (
	EventTypeProfileCreated   EventType = "profile.created"
	EventTypeProfileUpdated   EventType = "profile.updated"
	EventTypePremiumActivated EventType = "profile.premium.activated"
)

type ProfileEvent struct {
	EventType    EventType `json:"eventType"`
	ProfileID    string    `json:"profileId"`
	UserID       string    `json:"userId"`
	ExperienceID string    `json:"experienceId"`
	Timestamp    int64     `json:"timestamp"`
}

// PaymentEvent is the inbound payment confirmation. The premium marker and
// experience id ride in the metadata the charge was created with.
type PaymentEvent struct {
	Type        string               `json:"type"`
	UserID      string               `json:"userId"`
	AmountCents int                  `json:"amount"`
	Currency    string               `json:"currency"`
	Metadata    PaymentEventMetadata `json:"metadata"`
	Timestamp   int64                `json:"timestamp"`
}

type PaymentEventMetadata struct {
	Premium      bool   `json:"premium"`
	ExperienceID string `json:"experienceId"`
}

type MembershipEvent struct {
	UserID       string `json:"userId"`
	ExperienceID string `json:"experienceId"`
	Username     string `json:"username"`
	Name         string `json:"name"`
}
