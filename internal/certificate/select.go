package certificate

import (
	"strings"

	"barangay/pkg/types"
)

// templateKeywords is checked in order; the first hit wins.
var templateKeywords = []struct {
	keywords []string
	template types.CertificateTemplate
}{
	{keywords: []string{"indigency", "indigent"}, template: types.CertificateTemplateIndigency},
	{keywords: []string{"clearance"}, template: types.CertificateTemplateClearance},
	{keywords: []string{"permit"}, template: types.CertificateTemplatePermit},
	{keywords: []string{"residency"}, template: types.CertificateTemplateResidency},
}

// SelectTemplate uses the catalog's explicit template when set and falls back
// to matching keywords in the service name for older rows.
func SelectTemplate(service *types.Service) types.CertificateTemplate {
	if service == nil {
		return types.CertificateTemplateGeneral
	}

	if service.CertificateTemplate != nil {
		if tmpl, err := types.ParseCertificateTemplate(*service.CertificateTemplate); err == nil {
			return tmpl
		}
	}

	return TemplateForName(service.Name)
}

func TemplateForName(name string) types.CertificateTemplate {
	name = strings.ToLower(name)
	for _, rule := range templateKeywords {
		for _, keyword := range rule.keywords {
			if strings.Contains(name, keyword) {
				return rule.template
			}
		}
	}

	return types.CertificateTemplateGeneral
}
