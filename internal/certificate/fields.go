package certificate

import (
	"fmt"
	"strings"
	"time"

	"barangay/pkg/types"
)

// DefaultResidencyYears stands in for residents who never recorded the year
// they moved in.
const DefaultResidencyYears = 5

const (
	placeholder       = "________"
	addressNotOnFile  = "Not provided"
	validityMonths    = 6
	validityDateStyle = "1/2/2006"
)

// Ordinal returns the day with its English suffix: 1st, 2nd, 3rd, 4th,
// 11th, 12th, 13th, 21st and so on.
func Ordinal(day int) string {
	suffix := "th"
	if day%100 < 11 || day%100 > 13 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", day, suffix)
}

// Age is the number of whole years between birthday and now.
func Age(birthday, now time.Time) int {
	years := now.Year() - birthday.Year()
	if now.Month() < birthday.Month() || (now.Month() == birthday.Month() && now.Day() < birthday.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// YearsOfResidency returns now's year minus yearStarted, never less than one.
// known is false when yearStarted is nil and DefaultResidencyYears was used.
func YearsOfResidency(yearStarted *int, now time.Time) (years int, known bool) {
	if yearStarted == nil {
		return DefaultResidencyYears, false
	}

	years = now.Year() - *yearStarted
	if years < 1 {
		years = 1
	}
	return years, true
}

// ValidUntil is the indigency validity window end, formatted M/D/YYYY.
func ValidUntil(issued time.Time) string {
	return issued.AddDate(0, validityMonths, 0).Format(validityDateStyle)
}

// FullAddress prefers the structured house number and street, then the free
// text address.
func FullAddress(u *types.User) string {
	if u == nil {
		return addressNotOnFile
	}

	var parts []string
	if u.HouseNumber != nil && strings.TrimSpace(*u.HouseNumber) != "" {
		parts = append(parts, strings.TrimSpace(*u.HouseNumber))
	}
	if u.Street != nil && strings.TrimSpace(*u.Street) != "" {
		parts = append(parts, strings.TrimSpace(*u.Street))
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}

	if u.Address != nil && strings.TrimSpace(*u.Address) != "" {
		return strings.TrimSpace(*u.Address)
	}

	return addressNotOnFile
}

type issueDate struct {
	Day     int
	Ordinal string
	Month   string
	Year    int
}

func newIssueDate(t time.Time) issueDate {
	return issueDate{
		Day:     t.Day(),
		Ordinal: Ordinal(t.Day()),
		Month:   t.Month().String(),
		Year:    t.Year(),
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func pluralYears(n int) string {
	if n == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", n)
}
