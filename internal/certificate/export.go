package certificate

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"regexp"
	"strings"
	"time"

	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"
)

// Stage is the export pipeline state. Failed is reachable from any stage;
// Saved is terminal.
type Stage string

const (
	StageIdle      Stage = "idle"
	StagePreparing Stage = "preparing"
	StageCapturing Stage = "capturing"
	StageEncoding  Stage = "encoding"
	StageSaved     Stage = "saved"
	StageFailed    Stage = "failed"
)

// Format selects the encoded artifact type.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a client-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJPEG, "":
		return FormatJPEG, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

const (
	// jpegQuality matches the template's 0.95 encoder setting.
	jpegQuality = 95

	// defaultSettleDelay pads asset confirmation: decode completion does
	// not guarantee paint completion on the original template, and the
	// same fixed pause is kept here so both renderers ship identical
	// timing behavior.
	defaultSettleDelay = 200 * time.Millisecond
)

// Artifact is an encoded certificate ready for download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Exporter runs the raster export pipeline:
// Idle → Preparing → Capturing → Encoding → Saved, Failed from anywhere.
// The document's geometry is forced to page size for the duration of the
// capture and restored on every exit path.
type Exporter struct {
	ras    Rasterizer
	log    zerolog.Logger
	settle time.Duration
}

// NewExporter creates an Exporter over the given rasterizer.
func NewExporter(ras Rasterizer, log zerolog.Logger) *Exporter {
	return &Exporter{
		ras:    ras,
		log:    log.With().Str("component", "exporter").Logger(),
		settle: defaultSettleDelay,
	}
}

// Export renders and encodes the document. onStage, if non-nil, observes
// every state transition; it is invoked synchronously and must be fast.
func (e *Exporter) Export(ctx context.Context, doc *Document, format Format, onStage func(Stage)) (*Artifact, error) {
	advance := func(s Stage) {
		if onStage != nil {
			onStage(s)
		}
	}

	if doc == nil || doc.Record == nil {
		advance(StageFailed)
		return nil, ErrNoRecord
	}

	// The geometry mutation below is the pipeline's critical section:
	// whatever happens, the document leaves this function with its
	// original on-screen box intact.
	orig := doc.Geometry
	defer func() { doc.Geometry = orig }()

	// ─── Preparing ─────────────────────────────────────────────────────
	advance(StagePreparing)
	doc.Geometry = PageGeometry()

	if err := e.ras.Warmup(ctx, doc); err != nil {
		return nil, e.fail(advance, StagePreparing, err)
	}

	select {
	case <-ctx.Done():
		return nil, e.fail(advance, StagePreparing, ctx.Err())
	case <-time.After(e.settle):
	}

	// ─── Capturing ─────────────────────────────────────────────────────
	// The rasterizer gets a clone so nothing downstream can touch the
	// live document's geometry after the deferred restore.
	advance(StageCapturing)
	img, err := e.ras.Capture(doc.clone())
	if err != nil {
		return nil, e.fail(advance, StageCapturing, err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, e.fail(advance, StageCapturing, fmt.Errorf("capture produced an empty buffer"))
	}

	// ─── Encoding ──────────────────────────────────────────────────────
	advance(StageEncoding)

	artifact := &Artifact{Filename: Filename(doc.Record, format)}

	switch format {
	case FormatJPEG:
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, e.fail(advance, StageEncoding, err)
		}
		artifact.ContentType = "image/jpeg"
		artifact.Data = buf.Bytes()

	case FormatPDF:
		data, err := encodePDF(img)
		if err != nil {
			return nil, e.fail(advance, StageEncoding, err)
		}
		artifact.ContentType = "application/pdf"
		artifact.Data = data

	default:
		return nil, e.fail(advance, StageEncoding, fmt.Errorf("unsupported export format %q", format))
	}

	advance(StageSaved)
	e.log.Debug().
		Str("roll_no", doc.Record.RollNo).
		Str("format", string(format)).
		Int("bytes", len(artifact.Data)).
		Msg("Certificate exported")

	return artifact, nil
}

// fail marks the pipeline Failed and wraps the cause with the stage that
// broke, so callers never see a raw low-level error.
func (e *Exporter) fail(advance func(Stage), stage Stage, cause error) error {
	advance(StageFailed)
	err := fmt.Errorf("certificate export failed during %s: %w", stage, cause)
	e.log.Error().Err(cause).Str("stage", string(stage)).Msg("Export failed")
	return err
}

// encodePDF places the raster on a single borderless A4 landscape page in
// physical units.
func encodePDF(img image.Image) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{
		PageSize: gopdf.Rect{W: PageWidthMM, H: PageHeightMM},
		Unit:     gopdf.UnitMM,
	})
	pdf.AddPage()

	// Full bleed, no margins.
	if err := pdf.ImageFrom(img, 0, 0, &gopdf.Rect{W: PageWidthMM, H: PageHeightMM}); err != nil {
		return nil, fmt.Errorf("place raster on page: %w", err)
	}

	data, err := pdf.GetBytesPdfReturnErr()
	if err != nil {
		return nil, fmt.Errorf("serialize pdf: %w", err)
	}
	return data, nil
}

var (
	nonAlnumRe   = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Filename derives a deterministic download name from the record. Falls
// back to a generic name when the record is incomplete.
func Filename(rec *model.CertificateRecord, format Format) string {
	ext := ".jpg"
	if format == FormatPDF {
		ext = ".pdf"
	}

	if rec == nil || strings.TrimSpace(rec.RollNo) == "" || strings.TrimSpace(rec.Name) == "" {
		return "Certificate" + ext
	}

	roll := whitespaceRe.ReplaceAllString(strings.TrimSpace(nonAlnumRe.ReplaceAllString(rec.RollNo, "")), "_")
	name := whitespaceRe.ReplaceAllString(strings.TrimSpace(nonAlnumRe.ReplaceAllString(rec.Name, "")), "_")
	return fmt.Sprintf("Certificate_%s_%s%s", roll, name, ext)
}
