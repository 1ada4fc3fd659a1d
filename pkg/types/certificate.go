package types

import "time"

// CertificateDocument is presentation-neutral certificate content. The HTML
// view and the PDF download are both produced from it.
type CertificateDocument struct {
	Template        CertificateTemplate  `json:"template"`
	Title           string               `json:"title"`
	Header          []string             `json:"header"`
	Salutation      string               `json:"salutation"`
	Sections        []CertificateSection `json:"sections"`
	Fields          []CertificateField   `json:"fields,omitempty"`
	Signature       SignatureBlock       `json:"signature"`
	Footer          []string             `json:"footer"`
	ReferenceNumber string               `json:"referenceNumber"`
	IndigencyNumber string               `json:"indigencyNumber,omitempty"`
	ValidUntil      string               `json:"validUntil,omitempty"`
	IssuedAt        time.Time            `json:"issuedAt"`
}

type CertificateSection struct {
	Heading    string   `json:"heading,omitempty"`
	Paragraphs []string `json:"paragraphs"`
}

type CertificateField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type SignatureBlock struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}
