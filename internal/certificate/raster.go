package certificate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
)

// Asset file names under the configured assets directory.
const (
	assetCollegeLogo     = "collegelogo.png"
	assetAssociationLogo = "association-logo.png"
	assetFacultySign     = "faculty-sign.png"
	assetSecretarySign   = "secretary-sign.png"

	fontHeading = "fonts/Cinzel-Bold.ttf"
	fontScript  = "fonts/GreatVibes-Regular.ttf"
	fontBody    = "fonts/Lato-Regular.ttf"
	fontBodyB   = "fonts/Lato-Bold.ttf"
)

// Template colors.
const (
	colorNavy = "#1B2A4A"
	colorGold = "#C9A227"
	colorInk  = "#2B2B2B"
)

// Rasterizer converts a certificate document into a pixel buffer.
// Warmup confirms every embedded asset is decoded before capture runs;
// undecoded images would otherwise render as blank boxes.
type Rasterizer interface {
	Warmup(ctx context.Context, doc *Document) error
	Capture(doc *Document) (image.Image, error)
}

// AssetLibrary loads and caches decoded template assets from disk.
type AssetLibrary struct {
	dir string
	log zerolog.Logger

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewAssetLibrary creates an asset library rooted at dir.
func NewAssetLibrary(dir string, log zerolog.Logger) *AssetLibrary {
	return &AssetLibrary{
		dir:   dir,
		log:   log.With().Str("component", "asset_library").Logger(),
		cache: make(map[string]image.Image),
	}
}

// Load decodes an asset image, caching the result.
func (l *AssetLibrary) Load(name string) (image.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if img, ok := l.cache[name]; ok {
		return img, nil
	}

	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		return nil, fmt.Errorf("open asset %s: %w", name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", name, err)
	}

	l.cache[name] = img
	return img, nil
}

// FontPath returns the absolute path of a font asset.
func (l *AssetLibrary) FontPath(name string) string {
	return filepath.Join(l.dir, name)
}

// GGRasterizer draws the certificate layout with fogleman/gg.
type GGRasterizer struct {
	assets *AssetLibrary
	log    zerolog.Logger
}

// NewGGRasterizer creates a rasterizer over the given asset library.
func NewGGRasterizer(assets *AssetLibrary, log zerolog.Logger) *GGRasterizer {
	return &GGRasterizer{
		assets: assets,
		log:    log.With().Str("component", "rasterizer").Logger(),
	}
}

// Warmup decodes every embedded image up front. A single unreadable image
// does not abort the capture (it is skipped at draw time, like a broken
// <img> on the original template), but missing fonts do: no text can be
// drawn without them.
func (r *GGRasterizer) Warmup(ctx context.Context, doc *Document) error {
	if doc == nil || doc.Record == nil {
		return ErrNoRecord
	}

	for _, name := range []string{assetCollegeLogo, assetAssociationLogo, assetFacultySign, assetSecretarySign} {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := r.assets.Load(name); err != nil {
			r.log.Warn().Err(err).Str("asset", name).Msg("Asset unavailable, will render without it")
		}
	}

	for _, name := range []string{fontHeading, fontScript, fontBody, fontBodyB} {
		if _, err := os.Stat(r.assets.FontPath(name)); err != nil {
			return fmt.Errorf("font %s: %w", name, err)
		}
	}

	return nil
}

// Capture rasterizes the document at CaptureScale over the opaque paper
// color. The buffer dimensions follow the document's (forced) geometry.
func (r *GGRasterizer) Capture(doc *Document) (image.Image, error) {
	if doc == nil || doc.Record == nil {
		return nil, ErrNoRecord
	}

	w := doc.Geometry.Width * CaptureScale
	h := doc.Geometry.Height * CaptureScale
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid capture geometry %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetHexColor(PaperColor)
	dc.Clear()

	// All layout coordinates are in page pixels; the scale transform
	// produces the high-resolution buffer.
	dc.Scale(CaptureScale, CaptureScale)

	if err := r.draw(dc, doc); err != nil {
		return nil, err
	}

	return dc.Image(), nil
}

func (r *GGRasterizer) draw(dc *gg.Context, doc *Document) error {
	rec := doc.Record
	cx := float64(PageWidthPx) / 2

	// Watermark behind everything.
	if wm, err := r.assets.Load(assetCollegeLogo); err == nil {
		drawImageFit(dc, fade(wm, 26), cx-210, 187, 420, 420)
	}

	// Double frame.
	dc.SetHexColor(colorGold)
	dc.SetLineWidth(3)
	dc.DrawRectangle(24, 24, PageWidthPx-48, PageHeightPx-48)
	dc.Stroke()
	dc.SetHexColor(colorNavy)
	dc.SetLineWidth(1)
	dc.DrawRectangle(34, 34, PageWidthPx-68, PageHeightPx-68)
	dc.Stroke()

	// Corner accents.
	dc.SetHexColor(colorGold)
	dc.SetLineWidth(2)
	for _, c := range [][4]float64{{24, 24, 1, 1}, {PageWidthPx - 24, 24, -1, 1}, {24, PageHeightPx - 24, 1, -1}, {PageWidthPx - 24, PageHeightPx - 24, -1, -1}} {
		dc.DrawLine(c[0], c[1]+c[3]*28, c[0], c[1])
		dc.DrawLine(c[0], c[1], c[0]+c[2]*28, c[1])
		dc.Stroke()
	}

	// Header logos and institution block.
	if logo, err := r.assets.Load(assetCollegeLogo); err == nil {
		drawImageFit(dc, logo, 80, 62, 92, 92)
	}
	if logo, err := r.assets.Load(assetAssociationLogo); err == nil {
		drawImageFit(dc, logo, PageWidthPx-172, 62, 92, 92)
	}

	if err := dc.LoadFontFace(r.assets.FontPath(fontHeading), 24); err != nil {
		return fmt.Errorf("load heading font: %w", err)
	}
	dc.SetHexColor(colorNavy)
	dc.DrawStringAnchored("Dr. Satish Dhawan Aerospace", cx, 84, 0.5, 0.5)
	dc.DrawStringAnchored("Engineering Association", cx, 112, 0.5, 0.5)

	if err := dc.LoadFontFace(r.assets.FontPath(fontBody), 16); err != nil {
		return fmt.Errorf("load body font: %w", err)
	}
	dc.DrawStringAnchored("PSG College of Technology", cx, 140, 0.5, 0.5)

	// Main headings.
	if err := dc.LoadFontFace(r.assets.FontPath(fontScript), 64); err != nil {
		return fmt.Errorf("load script font: %w", err)
	}
	dc.SetHexColor(colorInk)
	dc.DrawStringAnchored("Certificate", cx, 230, 0.5, 0.5)

	if err := dc.LoadFontFace(r.assets.FontPath(fontHeading), 20); err != nil {
		return err
	}
	dc.SetHexColor(colorGold)
	dc.DrawStringAnchored(doc.Subtitle, cx, 276, 0.5, 0.5)

	// Recipient block.
	if err := dc.LoadFontFace(r.assets.FontPath(fontBody), 16); err != nil {
		return err
	}
	dc.SetHexColor(colorInk)
	dc.DrawStringAnchored("This is proudly presented to", cx, 318, 0.5, 0.5)

	if err := dc.LoadFontFace(r.assets.FontPath(fontScript), 44); err != nil {
		return err
	}
	dc.SetHexColor(colorNavy)
	dc.DrawStringAnchored(rec.Name, cx, 368, 0.5, 0.5)

	if err := dc.LoadFontFace(r.assets.FontPath(fontBody), 16); err != nil {
		return err
	}
	dc.SetHexColor(colorInk)
	dc.DrawStringAnchored(fmt.Sprintf("(Roll No: %s), a %s student of the", rec.RollNo, rec.Year), cx, 408, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("Department of %s,", rec.Dept), cx, 432, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("has %s the event", doc.ActionLine()), cx, 456, 0.5, 0.5)

	if doc.Kind == KindMerit {
		// Underline the achievement the way the template highlights it.
		aw, _ := dc.MeasureString(doc.Achievement)
		dc.SetHexColor(colorGold)
		dc.SetLineWidth(1)
		dc.DrawLine(cx-aw/2, 464, cx+aw/2, 464)
		dc.Stroke()
	}

	if err := dc.LoadFontFace(r.assets.FontPath(fontHeading), 28); err != nil {
		return err
	}
	dc.SetHexColor(colorNavy)
	dc.DrawStringAnchored(doc.EventTitle, cx, 500, 0.5, 0.5)

	if err := dc.LoadFontFace(r.assets.FontPath(fontBody), 14); err != nil {
		return err
	}
	dc.SetHexColor(colorInk)
	dc.DrawStringAnchored("organized by Dr. Satish Dhawan Aerospace Engineering Association,", cx, 534, 0.5, 0.5)
	dc.DrawStringAnchored("PSG College of Technology", cx, 554, 0.5, 0.5)

	// Footer: signatures and seal.
	if err := r.drawSignature(dc, assetFacultySign, 220, "Faculty Advisor"); err != nil {
		return err
	}
	if err := r.drawSignature(dc, assetSecretarySign, PageWidthPx-220, "Chief Secretary"); err != nil {
		return err
	}
	r.drawSeal(dc, cx, 672)

	return nil
}

func (r *GGRasterizer) drawSignature(dc *gg.Context, asset string, x float64, role string) error {
	if sig, err := r.assets.Load(asset); err == nil {
		drawImageFit(dc, sig, x-70, 608, 140, 52)
	}

	dc.SetHexColor(colorNavy)
	dc.SetLineWidth(1)
	dc.DrawLine(x-90, 666, x+90, 666)
	dc.Stroke()

	if err := dc.LoadFontFace(r.assets.FontPath(fontBodyB), 14); err != nil {
		return err
	}
	dc.SetHexColor(colorInk)
	dc.DrawStringAnchored(role, x, 684, 0.5, 0.5)

	if err := dc.LoadFontFace(r.assets.FontPath(fontBody), 12); err != nil {
		return err
	}
	dc.DrawStringAnchored("Aerospace Association", x, 702, 0.5, 0.5)
	return nil
}

func (r *GGRasterizer) drawSeal(dc *gg.Context, x, y float64) {
	dc.SetHexColor(colorGold)
	dc.DrawCircle(x, y, 34)
	dc.Fill()
	dc.SetHexColor(colorNavy)
	dc.SetLineWidth(2)
	dc.DrawCircle(x, y, 28)
	dc.Stroke()

	// Five-point star inside the seal.
	dc.NewSubPath()
	for i := 0; i < 10; i++ {
		radius := 18.0
		if i%2 == 1 {
			radius = 7.5
		}
		angle := float64(i)*math.Pi/5 - math.Pi/2
		px := x + radius*math.Cos(angle)
		py := y + radius*math.Sin(angle)
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.ClosePath()
	dc.Fill()
}

// drawImageFit scales an image proportionally into the given box, centered.
func drawImageFit(dc *gg.Context, img image.Image, x, y, w, h float64) {
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return
	}

	s := math.Min(w/iw, h/ih)
	dc.Push()
	dc.Translate(x+(w-iw*s)/2, y+(h-ih*s)/2)
	dc.Scale(s, s)
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

// fade returns a copy of img with uniform alpha applied (0..255).
func fade(img image.Image, alpha uint8) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	mask := image.NewUniform(color.Alpha{A: alpha})
	draw.DrawMask(out, b, img, b.Min, mask, image.Point{}, draw.Over)
	return out
}
