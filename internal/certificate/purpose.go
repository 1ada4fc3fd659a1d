package certificate

import (
	"strings"

	"barangay/pkg/types"
)

const (
	dateTimeLabel = "date/time:"
	venueLabel    = "venue:"
	eventSep      = " - "
)

// ParsePermitPurpose decodes "eventPurpose - eventName|Date/Time: ...|Venue: ...".
// The first unlabeled segment carries the purpose and event name, wherever it
// sits. Absent or unrecognised segments are left blank; it never fails.
func ParsePermitPurpose(raw string) types.PermitDetails {
	var details types.PermitDetails
	named := false

	for _, rawSegment := range strings.Split(raw, "|") {
		segment := singleLine(rawSegment)
		if segment == "" {
			continue
		}
		lower := strings.ToLower(segment)

		switch {
		case strings.HasPrefix(lower, dateTimeLabel):
			details.EventDateTime = strings.TrimSpace(segment[len(dateTimeLabel):])
		case strings.HasPrefix(lower, venueLabel):
			details.EventVenue = strings.TrimSpace(segment[len(venueLabel):])
		case !named:
			named = true
			purpose, name, _ := strings.Cut(rawSegment, eventSep)
			details.EventPurpose = singleLine(purpose)
			details.EventName = singleLine(name)
		}
	}

	return details
}

// ParsePurpose decodes the stored purpose text for the given template.
func ParsePurpose(raw string, tmpl types.CertificateTemplate) types.Purpose {
	if tmpl == types.CertificateTemplatePermit {
		details := ParsePermitPurpose(raw)
		return types.Purpose{Kind: types.PurposeKindPermit, Permit: &details}
	}

	return types.Purpose{Kind: types.PurposeKindFreeText, Text: singleLine(raw)}
}

// singleLine collapses runs of whitespace, line breaks included, to one space.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
