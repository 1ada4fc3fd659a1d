package types

import (
	"fmt"
	"strings"
	"time"
)

type CertificateTemplate string

const (
	CertificateTemplateIndigency CertificateTemplate = "indigency"
	CertificateTemplateClearance CertificateTemplate = "clearance"
	CertificateTemplatePermit    CertificateTemplate = "permit"
	CertificateTemplateResidency CertificateTemplate = "residency"
	CertificateTemplateGeneral   CertificateTemplate = "general"
)

func ParseCertificateTemplate(s string) (CertificateTemplate, error) {
	switch t := CertificateTemplate(strings.ToLower(strings.TrimSpace(s))); t {
	case CertificateTemplateIndigency,
		CertificateTemplateClearance,
		CertificateTemplatePermit,
		CertificateTemplateResidency,
		CertificateTemplateGeneral:
		return t, nil
	}
	return "", fmt.Errorf("unknown certificate template %q", s)
}

// Service is an entry in either the barangay or the health service catalog.
// CertificateTemplate is empty for rows created before the column existed.
type Service struct {
	ID                  int64       `db:"id" json:"id"`
	Type                ServiceType `db:"-" json:"type"`
	Name                string      `db:"name" json:"name"`
	Requirements        *string     `db:"requirements" json:"requirements,omitempty"`
	CertificateTemplate *string     `db:"certificate_template" json:"certificateTemplate,omitempty"`
	IsActive            bool        `db:"is_active" json:"isActive"`
	CreatedAt           time.Time   `db:"created_at" json:"createdAt"`
}
