package certificate

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRasterizer lets tests observe the geometry the pipeline captures with
// and inject failures at either stage.
type stubRasterizer struct {
	warmupErr  error
	captureErr error
	img        image.Image

	capturedGeometry Geometry
	captureCalls     int
}

func (s *stubRasterizer) Warmup(ctx context.Context, doc *Document) error {
	return s.warmupErr
}

func (s *stubRasterizer) Capture(doc *Document) (image.Image, error) {
	s.captureCalls++
	s.capturedGeometry = doc.Geometry
	if s.captureErr != nil {
		return nil, s.captureErr
	}
	if s.img != nil {
		return s.img, nil
	}
	return image.NewRGBA(image.Rect(0, 0, PageWidthPx*CaptureScale, PageHeightPx*CaptureScale)), nil
}

func newTestExporter(ras Rasterizer) *Exporter {
	e := NewExporter(ras, zerolog.Nop())
	e.settle = time.Millisecond
	return e
}

func testDoc(t *testing.T) *Document {
	t.Helper()
	doc, err := NewDocument(record(""), "AEROQUEST 2026")
	require.NoError(t, err)
	return doc
}

func TestExportJPEGSuccess(t *testing.T) {
	ras := &stubRasterizer{}
	exp := newTestExporter(ras)
	doc := testDoc(t)
	orig := doc.Geometry

	var stages []Stage
	artifact, err := exp.Export(context.Background(), doc, FormatJPEG, func(s Stage) {
		stages = append(stages, s)
	})
	require.NoError(t, err)

	assert.Equal(t, []Stage{StagePreparing, StageCapturing, StageEncoding, StageSaved}, stages)
	assert.Equal(t, "image/jpeg", artifact.ContentType)
	assert.Equal(t, "Certificate_22Z301_Asha_Balan.jpg", artifact.Filename)

	// Capture ran at forced page geometry, the live document got its
	// original box back.
	assert.Equal(t, PageGeometry(), ras.capturedGeometry)
	assert.Equal(t, orig, doc.Geometry)

	img, err := jpeg.Decode(bytes.NewReader(artifact.Data))
	require.NoError(t, err)
	assert.Equal(t, PageWidthPx*CaptureScale, img.Bounds().Dx())
}

func TestExportPDFSuccess(t *testing.T) {
	exp := newTestExporter(&stubRasterizer{})
	artifact, err := exp.Export(context.Background(), testDoc(t), FormatPDF, nil)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", artifact.ContentType)
	assert.Equal(t, "Certificate_22Z301_Asha_Balan.pdf", artifact.Filename)
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF")))
}

func TestExportRestoresGeometryOnCaptureFailure(t *testing.T) {
	boom := errors.New("rasterizer exploded")
	exp := newTestExporter(&stubRasterizer{captureErr: boom})
	doc := testDoc(t)
	orig := doc.Geometry

	var stages []Stage
	_, err := exp.Export(context.Background(), doc, FormatJPEG, func(s Stage) {
		stages = append(stages, s)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), string(StageCapturing))
	assert.Equal(t, orig, doc.Geometry)
	assert.Equal(t, StageFailed, stages[len(stages)-1])
}

func TestExportRestoresGeometryOnWarmupFailure(t *testing.T) {
	exp := newTestExporter(&stubRasterizer{warmupErr: errors.New("font missing")})
	doc := testDoc(t)
	orig := doc.Geometry

	_, err := exp.Export(context.Background(), doc, FormatJPEG, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), string(StagePreparing))
	assert.Equal(t, orig, doc.Geometry)
}

func TestExportEmptyCaptureFails(t *testing.T) {
	exp := newTestExporter(&stubRasterizer{img: image.NewRGBA(image.Rect(0, 0, 0, 0))})
	doc := testDoc(t)
	orig := doc.Geometry

	_, err := exp.Export(context.Background(), doc, FormatJPEG, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty buffer")
	assert.Equal(t, orig, doc.Geometry)
}

func TestExportNilDocument(t *testing.T) {
	exp := newTestExporter(&stubRasterizer{})

	_, err := exp.Export(context.Background(), nil, FormatJPEG, nil)
	assert.ErrorIs(t, err, ErrNoRecord)

	_, err = exp.Export(context.Background(), &Document{}, FormatJPEG, nil)
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestExportCancelledContext(t *testing.T) {
	ras := &stubRasterizer{}
	exp := newTestExporter(ras)
	exp.settle = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := testDoc(t)
	orig := doc.Geometry

	_, err := exp.Export(ctx, doc, FormatJPEG, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, orig, doc.Geometry)
	assert.Zero(t, ras.captureCalls)
}
