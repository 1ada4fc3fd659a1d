package seed

import (
	"context"
	"fmt"

	"barangay/internal/store"
	"barangay/internal/utils"
	"barangay/pkg/types"
)

// catalog is the source of truth for the services residents can apply for.
// Entries are matched by name, so renaming one creates a new row.
var catalog = []types.Service{
	{
		Type:         types.ServiceTypeBarangay,
		Name:         "Barangay Clearance",
		Requirements: utils.StringPtr("Valid ID, Cedula"),
		IsActive:     true,
	},
	{
		Type:         types.ServiceTypeBarangay,
		Name:         "Certificate of Indigency",
		Requirements: utils.StringPtr("Valid ID"),
		IsActive:     true,
	},
	{
		Type:         types.ServiceTypeBarangay,
		Name:         "Certificate of Residency",
		Requirements: utils.StringPtr("Valid ID, Proof of billing"),
		IsActive:     true,
	},
	{
		Type:         types.ServiceTypeBarangay,
		Name:         "Special Event Permit",
		Requirements: utils.StringPtr("Letter of intent, Venue sketch"),
		IsActive:     true,
	},
	{
		Type:                types.ServiceTypeBarangay,
		Name:                "Business Permit Endorsement",
		Requirements:        utils.StringPtr("DTI registration, Valid ID"),
		CertificateTemplate: utils.StringPtr(string(types.CertificateTemplateClearance)),
		IsActive:            true,
	},
	{
		Type:                types.ServiceTypeHealth,
		Name:                "Medical Assistance Referral",
		Requirements:        utils.StringPtr("Medical abstract, Valid ID"),
		CertificateTemplate: utils.StringPtr(string(types.CertificateTemplateIndigency)),
		IsActive:            true,
	},
	{
		Type:         types.ServiceTypeHealth,
		Name:         "Health Certificate",
		Requirements: utils.StringPtr("Laboratory results"),
		IsActive:     true,
	},
}

// SeedServices upserts the catalog and returns the stored rows keyed by name.
func SeedServices(ctx context.Context, repo *store.ServiceRepository) (map[string]*types.Service, error) {
	seeded := make(map[string]*types.Service, len(catalog))
	for _, entry := range catalog {
		service := entry
		if err := repo.UpsertService(ctx, &service); err != nil {
			return nil, fmt.Errorf("failed to seed service %q: %w", service.Name, err)
		}
		seeded[service.Name] = &service
	}

	fmt.Printf("Services seeded: %d upserted\n", len(seeded))
	return seeded, nil
}
