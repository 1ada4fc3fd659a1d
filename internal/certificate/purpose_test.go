package certificate

import (
	"testing"

	"barangay/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestParsePermitPurpose(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected types.PermitDetails
	}{
		{
			name: "all segments",
			raw:  "Block Party - Barangay Fiesta|Date/Time: 2024-05-01 6PM|Venue: Main Plaza",
			expected: types.PermitDetails{
				EventName:     "Barangay Fiesta",
				EventPurpose:  "Block Party",
				EventDateTime: "2024-05-01 6PM",
				EventVenue:    "Main Plaza",
			},
		},
		{
			name:     "empty",
			raw:      "",
			expected: types.PermitDetails{},
		},
		{
			name:     "purpose without event name",
			raw:      "Fundraising",
			expected: types.PermitDetails{EventPurpose: "Fundraising"},
		},
		{
			name:     "venue only",
			raw:      "|Venue: Covered Court",
			expected: types.PermitDetails{EventVenue: "Covered Court"},
		},
		{
			name: "segments out of order and odd casing",
			raw:  "Concert - Youth Night | venue: Gym | DATE/TIME: Sat 7PM",
			expected: types.PermitDetails{
				EventName:     "Youth Night",
				EventPurpose:  "Concert",
				EventDateTime: "Sat 7PM",
				EventVenue:    "Gym",
			},
		},
		{
			name:     "malformed pipes",
			raw:      "|||garbage|",
			expected: types.PermitDetails{EventPurpose: "garbage"},
		},
		{
			name: "event segment after date",
			raw:  "Date/Time: 5PM|Block Party - Fiesta",
			expected: types.PermitDetails{
				EventName:     "Fiesta",
				EventPurpose:  "Block Party",
				EventDateTime: "5PM",
			},
		},
		{
			name: "only the first unlabeled segment names the event",
			raw:  "Block Party - Fiesta|Covered Court",
			expected: types.PermitDetails{
				EventName:    "Fiesta",
				EventPurpose: "Block Party",
			},
		},
		{
			name: "line breaks inside segments",
			raw:  "Block\n\nParty - Barangay\r\nFiesta|Venue: Main\n\nPlaza",
			expected: types.PermitDetails{
				EventName:    "Barangay Fiesta",
				EventPurpose: "Block Party",
				EventVenue:   "Main Plaza",
			},
		},
		{
			name:     "labels without values",
			raw:      "Parade - |Date/Time:|Venue:",
			expected: types.PermitDetails{EventPurpose: "Parade"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.expected, ParsePermitPurpose(tt.raw))
			})
		})
	}
}

func TestParsePurpose(t *testing.T) {
	free := ParsePurpose("  employment ", types.CertificateTemplateClearance)
	assert.Equal(t, types.PurposeKindFreeText, free.Kind)
	assert.Equal(t, "employment", free.Text)
	assert.Nil(t, free.Permit)

	multiline := ParsePurpose("scholarship\n\n  application ", types.CertificateTemplateGeneral)
	assert.Equal(t, "scholarship application", multiline.Text)

	permit := ParsePurpose("Block Party - Fiesta", types.CertificateTemplatePermit)
	assert.Equal(t, types.PurposeKindPermit, permit.Kind)
	if assert.NotNil(t, permit.Permit) {
		assert.Equal(t, "Fiesta", permit.Permit.EventName)
	}
}
