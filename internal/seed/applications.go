package seed

import (
	"context"
	"fmt"

	"barangay/internal/store"
	"barangay/pkg/types"
)

type fakeApplicationSeed struct {
	Resident int
	Service  string
	Status   types.ApplicationStatus
	Purpose  string
	Remarks  string
	Files    []string
}

var fakeApplications = []fakeApplicationSeed{
	{Resident: 0, Service: "Barangay Clearance", Status: types.ApplicationStatusPending, Purpose: "employment", Files: []string{"seed/valid-id.jpg", "seed/cedula.jpg"}},
	{Resident: 1, Service: "Certificate of Indigency", Status: types.ApplicationStatusProcessing, Purpose: "hospital bill assistance"},
	{Resident: 2, Service: "Special Event Permit", Status: types.ApplicationStatusPending, Purpose: "Birthday celebration - Street Party|Date/Time: December 20, 2024 6:00 PM|Venue: Purok 3 covered court"},
	{Resident: 3, Service: "Certificate of Residency", Status: types.ApplicationStatusApproved, Remarks: "Ready for pick-up"},
	{Resident: 0, Service: "Medical Assistance Referral", Status: types.ApplicationStatusPending, Purpose: "medicine purchase"},
}

// SeedFakeApplications creates the demo applications for residents that have
// none yet, so re-running seed does not pile up duplicates.
func SeedFakeApplications(ctx context.Context, repo *store.ApplicationRepository, residents []*types.User, services map[string]*types.Service) error {
	skip := make(map[int64]bool, len(residents))
	for _, resident := range residents {
		existing, err := repo.ApplicationsByApplicant(ctx, resident.ID)
		if err != nil {
			return fmt.Errorf("failed to check applications for resident %d: %w", resident.ID, err)
		}
		skip[resident.ID] = len(existing) > 0
	}

	created := 0
	for _, fake := range fakeApplications {
		if fake.Resident >= len(residents) {
			continue
		}
		resident := residents[fake.Resident]
		if skip[resident.ID] {
			continue
		}

		service, ok := services[fake.Service]
		if !ok {
			return fmt.Errorf("fake application references unknown service %q", fake.Service)
		}

		application := &types.Application{
			ApplicantID:      resident.ID,
			ServiceType:      service.Type,
			ServiceID:        service.ID,
			Status:           fake.Status,
			Purpose:          fake.Purpose,
			Remarks:          fake.Remarks,
			RequirementFiles: fake.Files,
		}
		if err := repo.CreateApplication(ctx, application); err != nil {
			return fmt.Errorf("failed to seed application for resident %d: %w", resident.ID, err)
		}
		created++
	}

	fmt.Printf("Fake applications seeded: %d created\n", created)
	return nil
}
