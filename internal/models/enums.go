package models

type SectionType string

const (
	SectionGamer     SectionType = "gamer"
	SectionCreator   SectionType = "creator"
	SectionDeveloper SectionType = "developer"
	SectionTrader    SectionType = "trader"
	SectionStudent   SectionType = "student"
)

type FieldKind string

const (
	FieldTags     FieldKind = "tags"
	FieldKeyValue FieldKind = "key-value"
	FieldText     FieldKind = "text"
)

// AccessLevel is supplied by the host platform; this service only compares it.
type AccessLevel string

const (
	AccessAdmin    AccessLevel = "admin"
	AccessCustomer AccessLevel = "customer"
	AccessNone     AccessLevel = "no_access"
)
