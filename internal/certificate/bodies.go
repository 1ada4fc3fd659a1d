package certificate

import (
	"strings"
	"text/template"

	"barangay/pkg/types"
)

// Every certificate body is a named template; paragraphs are separated by a
// blank line.
const bodySource = `
{{- define "issued" -}}
Issued this {{.Issued.Ordinal}} day of {{.Issued.Month}}, {{.Issued.Year}} at {{.Office.BarangayName}}, {{.Office.Municipality}}, {{.Office.Province}}.
{{- end}}

{{- define "indigency" -}}
This is to certify that {{.Name}}, {{.Age}} years old, a resident of {{.Address}}, {{.Office.BarangayName}}, is known to belong to an indigent family in this barangay and has no regular source of income.

This certification is issued upon the request of the above-named person for {{.Purpose}}.

{{template "issued" .}}
{{- end}}

{{- define "clearance" -}}
This is to certify that {{.Name}}, {{.Age}} years old, residing at {{.Address}}, has been a resident of this barangay for {{.Residency}} and has no derogatory record on file in this office as of this date.

This clearance is issued upon the request of the above-named person for {{.Purpose}}.

{{template "issued" .}}
{{- end}}

{{- define "residency" -}}
This is to certify that {{.Name}}, {{.Age}} years old, is a bona fide resident of {{.Address}}, {{.Office.BarangayName}}, and has been residing in this barangay for {{.Residency}}.

This certification is issued upon the request of the above-named person for {{.Purpose}}.

{{template "issued" .}}
{{- end}}

{{- define "permit" -}}
Permission is hereby granted to {{.Name}} of {{.Address}} to hold {{.Permit.EventName}} for the purpose of {{.Permit.EventPurpose}}.

The activity is scheduled on {{.Permit.EventDateTime}} at {{.Permit.EventVenue}}.

The permittee shall maintain peace and order during the activity and restore the venue to its original condition afterwards.

{{template "issued" .}}
{{- end}}

{{- define "general" -}}
This is to certify that {{.Name}}, {{.Age}} years old, residing at {{.Address}}, is a resident of this barangay for {{.Residency}}.

This certification is issued upon the request of the above-named person for {{.Purpose}}.

{{template "issued" .}}
{{- end}}
`

var bodies = template.Must(template.New("bodies").Parse(bodySource))

type layout struct {
	title          string
	defaultPurpose string
}

var layouts = map[types.CertificateTemplate]layout{
	types.CertificateTemplateIndigency: {
		title:          "CERTIFICATE OF INDIGENCY",
		defaultPurpose: "medical and financial assistance",
	},
	types.CertificateTemplateClearance: {
		title:          "BARANGAY CLEARANCE",
		defaultPurpose: "whatever legal purpose it may serve",
	},
	types.CertificateTemplateResidency: {
		title:          "CERTIFICATE OF RESIDENCY",
		defaultPurpose: "residency verification",
	},
	types.CertificateTemplatePermit: {
		title: "BARANGAY PERMIT",
	},
	types.CertificateTemplateGeneral: {
		title:          "BARANGAY CERTIFICATION",
		defaultPurpose: "whatever legal purpose it may serve",
	},
}

type bodyData struct {
	Name      string
	Age       string
	Address   string
	Residency string
	Purpose   string
	Permit    types.PermitDetails
	Issued    issueDate
	Office    types.Office
}

func renderBody(tmpl types.CertificateTemplate, data bodyData) ([]string, error) {
	var sb strings.Builder
	if err := bodies.ExecuteTemplate(&sb, string(tmpl), data); err != nil {
		return nil, err
	}

	var paragraphs []string
	for _, p := range strings.Split(sb.String(), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	return paragraphs, nil
}
