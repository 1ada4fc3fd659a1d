package certificate

import (
	"fmt"
	"io"

	"barangay/pkg/types"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont       = "Times"
	pdfLineHeight = 6.0
)

// WritePDF lays out doc on a single letter-sized page.
func WritePDF(w io.Writer, doc *types.CertificateDocument) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(25, 20, 25)
	pdf.SetTitle(doc.Title, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFont, "", 11)
	for _, line := range doc.Header {
		if line == "" {
			continue
		}
		pdf.CellFormat(0, pdfLineHeight, tr(line), "", 1, "C", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont(pdfFont, "B", 18)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont(pdfFont, "B", 12)
	pdf.CellFormat(0, pdfLineHeight, tr(doc.Salutation), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "", 12)
	for _, section := range doc.Sections {
		if section.Heading != "" {
			pdf.SetFont(pdfFont, "B", 12)
			pdf.CellFormat(0, pdfLineHeight, tr(section.Heading), "", 1, "L", false, 0, "")
			pdf.SetFont(pdfFont, "", 12)
		}
		for _, p := range section.Paragraphs {
			pdf.MultiCell(0, pdfLineHeight, tr("        "+p), "", "J", false)
			pdf.Ln(3)
		}
	}

	pdf.Ln(18)
	pdf.SetFont(pdfFont, "B", 12)
	pdf.CellFormat(0, pdfLineHeight, tr(doc.Signature.Name), "", 1, "R", false, 0, "")
	pdf.SetFont(pdfFont, "", 11)
	pdf.CellFormat(0, pdfLineHeight, tr(doc.Signature.Position), "", 1, "R", false, 0, "")

	pdf.Ln(14)
	pdf.SetFont(pdfFont, "I", 9)
	for _, line := range doc.Footer {
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write certificate pdf: %w", err)
	}

	return nil
}
