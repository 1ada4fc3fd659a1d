package types

type PurposeKind string

const (
	PurposeKindFreeText PurposeKind = "free_text"
	PurposeKindPermit   PurposeKind = "permit"
)

// Purpose is the decoded form of Application.Purpose. Exactly one of Text or
// Permit is meaningful, selected by Kind.
type Purpose struct {
	Kind   PurposeKind
	Text   string
	Permit *PermitDetails
}

type PermitDetails struct {
	EventName     string
	EventPurpose  string
	EventDateTime string
	EventVenue    string
}
