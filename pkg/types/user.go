package types

import (
	"strings"
	"time"
)

// User is a registered resident. Certificate rendering only reads it.
type User struct {
	ID                int64      `db:"id" json:"id"`
	GivenName         string     `db:"given_name" json:"givenName"`
	MiddleName        *string    `db:"middle_name" json:"middleName,omitempty"`
	FamilyName        string     `db:"family_name" json:"familyName"`
	Email             *string    `db:"email" json:"email,omitempty"`
	Phone             *string    `db:"phone" json:"phone,omitempty"`
	HouseNumber       *string    `db:"house_number" json:"houseNumber,omitempty"`
	Street            *string    `db:"street" json:"street,omitempty"`
	Address           *string    `db:"address" json:"address,omitempty"`
	Birthday          *time.Time `db:"birthday" json:"birthday,omitempty"`
	YearStartedLiving *int       `db:"year_started_living" json:"yearStartedLiving,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
}

func (u *User) FullName() string {
	parts := []string{strings.TrimSpace(u.GivenName)}
	if u.MiddleName != nil {
		parts = append(parts, strings.TrimSpace(*u.MiddleName))
	}
	parts = append(parts, strings.TrimSpace(u.FamilyName))

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
