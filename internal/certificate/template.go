// Package certificate renders vault records into printable certificate
// artifacts. A Document is the fixed-layout A4-landscape page model; the
// Exporter rasterizes it and encodes JPEG or single-page PDF output.
package certificate

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dsdaea/aerovault-backend/internal/model"
)

// Physical page geometry: A4 landscape at 96 DPI.
const (
	PageWidthPx  = 1122
	PageHeightPx = 794
	PageWidthMM  = 297.0
	PageHeightMM = 210.0

	// CaptureScale doubles the raster resolution for print sharpness.
	CaptureScale = 2

	// PaperColor is the opaque background fill. Capturing over it
	// prevents transparency artifacts in JPEG output.
	PaperColor = "#FFFDF5"
)

// ErrNoRecord is returned when a document is built or exported without a
// resolved vault record. This is a caller contract violation, not a lookup
// failure.
var ErrNoRecord = errors.New("certificate: no record to render")

// Kind selects the certificate wording variant.
type Kind string

const (
	KindParticipation Kind = "participation"
	KindMerit         Kind = "merit"
)

// placePrefixRe strips decorative prefixes from an achievement note, so
// "Winner - 1st Prize" prints as "1st Prize".
var placePrefixRe = regexp.MustCompile(`(?i)(Achieved |Winner - )`)

// Geometry is the mutable on-screen box of a document. The export pipeline
// forces it to the physical page size for capture and restores the original
// value on every exit path.
type Geometry struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Scale   float64 `json:"scale"`
	Visible bool    `json:"visible"`
}

// PageGeometry is the forced capture geometry: full page size, no transform.
func PageGeometry() Geometry {
	return Geometry{Width: PageWidthPx, Height: PageHeightPx, Scale: 1, Visible: true}
}

// Document is a certificate page populated from a vault record.
type Document struct {
	Record     *model.CertificateRecord
	EventTitle string

	Kind        Kind
	Subtitle    string
	Achievement string

	// Geometry is what Export mutates and restores; everything above is
	// immutable once the document is built.
	Geometry Geometry
}

// NewDocument builds the certificate page model for a record and event
// title. The wording variant follows the record's achievement note: absent,
// or mentioning participation, yields a participation certificate; anything
// else is a merit certificate carrying the cleaned achievement text.
func NewDocument(record *model.CertificateRecord, eventTitle string) (*Document, error) {
	if record == nil {
		return nil, ErrNoRecord
	}

	doc := &Document{
		Record:     record,
		EventTitle: eventTitle,
		Kind:       KindParticipation,
		Subtitle:   "OF PARTICIPATION",
		// Documents start hidden at half scale, like the on-screen
		// preview they mirror.
		Geometry: Geometry{Width: PageWidthPx / 2, Height: PageHeightPx / 2, Scale: 0.5},
	}

	place := strings.TrimSpace(record.Place)
	if place != "" && !strings.Contains(strings.ToLower(place), "participated") {
		doc.Kind = KindMerit
		doc.Subtitle = "OF MERIT"
		doc.Achievement = strings.TrimSpace(placePrefixRe.ReplaceAllString(place, ""))
	}

	return doc, nil
}

// ActionLine is the body sentence fragment between the recipient details and
// the event title.
func (d *Document) ActionLine() string {
	if d.Kind == KindMerit {
		return "secured " + d.Achievement + " in"
	}
	return "actively participated in"
}

// clone returns a copy whose geometry can be mutated without touching the
// source document. Capture always runs against a clone.
func (d *Document) clone() *Document {
	dup := *d
	return &dup
}
