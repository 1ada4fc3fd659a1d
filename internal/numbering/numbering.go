// Package numbering formats the human-readable identifiers printed on
// notifications and certificates.
package numbering

import (
	"fmt"
	"time"
)

// Format describes a zero-padded numeric identifier with a fixed prefix and
// suffix.
type Format struct {
	Prefix string
	Width  int
	Suffix string
}

// Number renders id padded to Width digits. Ids wider than Width are printed
// in full.
func (f Format) Number(id int64) string {
	return fmt.Sprintf("%s%0*d%s", f.Prefix, f.Width, id, f.Suffix)
}

const (
	referencePrefix = "BRG-"
	referenceWidth  = 6

	indigencyCode  = "-IN-C180"
	indigencyWidth = 3
)

// ReferenceNumber returns e.g. "BRG-000042 (2024)".
func ReferenceNumber(id int64, year int) string {
	return Format{
		Prefix: referencePrefix,
		Width:  referenceWidth,
		Suffix: fmt.Sprintf(" (%d)", year),
	}.Number(id)
}

// IndigencyNumber returns e.g. "03052024-IN-C180007" for application 7 issued
// on 2024-03-05.
func IndigencyNumber(id int64, issued time.Time) string {
	return Format{
		Prefix: issued.Format("01022006") + indigencyCode,
		Width:  indigencyWidth,
	}.Number(id)
}
