package seed

import (
	"context"
	"fmt"
	"time"

	"barangay/internal/store"
	"barangay/internal/utils"
	"barangay/pkg/types"
)

type fakeResidentSeed struct {
	Email             string
	GivenName         string
	MiddleName        string
	FamilyName        string
	HouseNumber       string
	Street            string
	Birthday          time.Time
	YearStartedLiving int
}

var fakeResidents = []fakeResidentSeed{
	{Email: "maria.reyes+seed1@example.com", GivenName: "Maria", MiddleName: "Santos", FamilyName: "Reyes", HouseNumber: "12", Street: "Mabini St.", Birthday: time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC), YearStartedLiving: 2015},
	{Email: "jose.garcia+seed2@example.com", GivenName: "Jose", FamilyName: "Garcia", HouseNumber: "4", Street: "Rizal Ave.", Birthday: time.Date(1978, time.January, 3, 0, 0, 0, 0, time.UTC), YearStartedLiving: 1998},
	{Email: "ana.bautista+seed3@example.com", GivenName: "Ana", MiddleName: "Cruz", FamilyName: "Bautista", Street: "Purok 3", Birthday: time.Date(2001, time.November, 22, 0, 0, 0, 0, time.UTC)},
	{Email: "ramon.delosreyes+seed4@example.com", GivenName: "Ramon", FamilyName: "De los Reyes", HouseNumber: "88", Street: "Bonifacio St.", YearStartedLiving: 2022},
}

func (f fakeResidentSeed) user() *types.User {
	user := &types.User{
		Email:      utils.StringPtr(f.Email),
		GivenName:  f.GivenName,
		FamilyName: f.FamilyName,
	}
	if f.MiddleName != "" {
		user.MiddleName = utils.StringPtr(f.MiddleName)
	}
	if f.HouseNumber != "" {
		user.HouseNumber = utils.StringPtr(f.HouseNumber)
	}
	if f.Street != "" {
		user.Street = utils.StringPtr(f.Street)
	}
	if !f.Birthday.IsZero() {
		user.Birthday = utils.TimePtr(f.Birthday)
	}
	if f.YearStartedLiving != 0 {
		user.YearStartedLiving = utils.IntPtr(f.YearStartedLiving)
	}
	return user
}

// SeedFakeResidents upserts the demo residents by email.
func SeedFakeResidents(ctx context.Context, userRepo *store.UserRepository) ([]*types.User, error) {
	users := make([]*types.User, 0, len(fakeResidents))
	for _, resident := range fakeResidents {
		user := resident.user()
		if err := userRepo.UpsertUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to seed resident %s: %w", resident.Email, err)
		}
		users = append(users, user)
	}

	fmt.Printf("Fake residents seeded: %d upserted\n", len(users))
	return users, nil
}
