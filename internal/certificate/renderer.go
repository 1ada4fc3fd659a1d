// Package certificate turns an application, its applicant and the requested
// service into certificate content.
package certificate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"barangay/internal/numbering"
	"barangay/pkg/types"
)

type Options struct {
	Office types.Office

	// FreezeDatesAtApproval prints the processed date instead of today when
	// the application has one. Off by default: certificates always show the
	// day they are rendered.
	FreezeDatesAtApproval bool

	// Now defaults to time.Now.
	Now func() time.Time
}

type Renderer struct {
	office types.Office
	freeze bool
	now    func() time.Time
}

func NewRenderer(opts Options) *Renderer {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Renderer{
		office: opts.Office,
		freeze: opts.FreezeDatesAtApproval,
		now:    now,
	}
}

// Render builds the certificate for app. user may be nil, in which case
// applicant fields print as placeholders; service may be nil, in which case
// the general template is used.
func (r *Renderer) Render(app *types.Application, user *types.User, service *types.Service) (*types.CertificateDocument, error) {
	if app == nil {
		return nil, types.ErrApplicationNotFound
	}

	issued := r.issueTime(app)
	tmpl := SelectTemplate(service)
	layout := layouts[tmpl]

	data := bodyData{
		Name:      placeholder,
		Age:       placeholder,
		Address:   singleLine(FullAddress(user)),
		Issued:    newIssueDate(issued),
		Office:    r.office,
		Residency: pluralYears(DefaultResidencyYears),
	}

	if user != nil {
		data.Name = orPlaceholder(singleLine(user.FullName()))
		if user.Birthday != nil {
			data.Age = strconv.Itoa(Age(*user.Birthday, issued))
		}
		years, _ := YearsOfResidency(user.YearStartedLiving, issued)
		data.Residency = pluralYears(years)
	}

	purpose := ParsePurpose(app.Purpose, tmpl)
	switch purpose.Kind {
	case types.PurposeKindPermit:
		data.Permit = types.PermitDetails{
			EventName:     orPlaceholder(purpose.Permit.EventName),
			EventPurpose:  orPlaceholder(purpose.Permit.EventPurpose),
			EventDateTime: orPlaceholder(purpose.Permit.EventDateTime),
			EventVenue:    orPlaceholder(purpose.Permit.EventVenue),
		}
	default:
		data.Purpose = purpose.Text
		if data.Purpose == "" {
			data.Purpose = layout.defaultPurpose
		}
	}

	paragraphs, err := renderBody(tmpl, data)
	if err != nil {
		return nil, fmt.Errorf("render %s certificate body: %w", tmpl, err)
	}

	doc := &types.CertificateDocument{
		Template: tmpl,
		Title:    layout.title,
		Header: []string{
			"Republic of the Philippines",
			r.office.Province,
			r.office.Municipality,
			strings.ToUpper(r.office.BarangayName),
			"OFFICE OF THE PUNONG BARANGAY",
		},
		Salutation: "TO WHOM IT MAY CONCERN:",
		Sections:   []types.CertificateSection{{Paragraphs: paragraphs}},
		Signature: types.SignatureBlock{
			Name:     r.office.CaptainName,
			Position: "Punong Barangay",
		},
		ReferenceNumber: numbering.ReferenceNumber(app.ID, app.ReferenceYear(issued)),
		IssuedAt:        issued,
	}

	doc.Fields = []types.CertificateField{
		{Label: "Name", Value: data.Name},
		{Label: "Address", Value: data.Address},
	}

	switch tmpl {
	case types.CertificateTemplateIndigency:
		doc.IndigencyNumber = numbering.IndigencyNumber(app.ID, issued)
		doc.ValidUntil = ValidUntil(issued)
		doc.Fields = append(doc.Fields,
			types.CertificateField{Label: "Age", Value: data.Age},
			types.CertificateField{Label: "Purpose", Value: data.Purpose},
			types.CertificateField{Label: "Indigency No.", Value: doc.IndigencyNumber},
			types.CertificateField{Label: "Valid Until", Value: doc.ValidUntil},
		)
	case types.CertificateTemplatePermit:
		doc.Fields = append(doc.Fields,
			types.CertificateField{Label: "Event", Value: data.Permit.EventName},
			types.CertificateField{Label: "Purpose", Value: data.Permit.EventPurpose},
			types.CertificateField{Label: "Date/Time", Value: data.Permit.EventDateTime},
			types.CertificateField{Label: "Venue", Value: data.Permit.EventVenue},
		)
	default:
		doc.Fields = append(doc.Fields,
			types.CertificateField{Label: "Age", Value: data.Age},
			types.CertificateField{Label: "Years of Residency", Value: data.Residency},
			types.CertificateField{Label: "Purpose", Value: data.Purpose},
		)
	}

	doc.Footer = []string{"Reference No.: " + doc.ReferenceNumber}
	if doc.IndigencyNumber != "" {
		doc.Footer = append(doc.Footer, "Indigency No.: "+doc.IndigencyNumber, "Valid until "+doc.ValidUntil)
	}
	doc.Footer = append(doc.Footer, "Not valid without the official dry seal.")

	return doc, nil
}

func (r *Renderer) issueTime(app *types.Application) time.Time {
	if r.freeze && app.ProcessedDate != nil && !app.ProcessedDate.IsZero() {
		return *app.ProcessedDate
	}
	return r.now()
}
