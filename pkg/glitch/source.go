package glitch

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/glitchid/pkg/surface"
)

// SourceKind records which branch Prepare took.
type SourceKind string

const (
	SourceImage   SourceKind = "image"   // decoded, cropped and scaled
	SourceCorrupt SourceKind = "corrupt" // bytes present but undecodable
	SourceAbsent  SourceKind = "absent"  // no bytes, placeholder drawn
)

// MaxSourcePixels caps decoded source dimensions. Larger images are treated
// as undecodable rather than allocated.
const MaxSourcePixels = 64 << 20

// Fallback and placeholder styling.
var (
	backgroundColor  = color.RGBA{0x00, 0x00, 0x00, 0xff}
	placeholderColor = color.RGBA{0x00, 0x11, 0x00, 0xff}
	patternColor     = color.RGBA{0x00, 0x33, 0x00, 0xff}
)

const (
	patternPeriod   = 20
	placeholderText = "NO SIGNAL"
	placeholderSize = 40
)

// CenterSquare returns the largest square centered in a w×h image.
func CenterSquare(w, h int) image.Rectangle {
	side := min(w, h)
	x0 := (w - side) / 2
	y0 := (h - side) / 2
	return image.Rect(x0, y0, x0+side, y0+side)
}

// DecodeSource decodes source bytes in any registered format (JPEG, PNG,
// GIF, BMP, TIFF, WebP), applying EXIF orientation.
func DecodeSource(source []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(source))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Width*cfg.Height > MaxSourcePixels {
		return nil, fmt.Errorf("image %dx%d exceeds %d pixels", cfg.Width, cfg.Height, MaxSourcePixels)
	}
	return imaging.Decode(bytes.NewReader(source), imaging.AutoOrientation(true))
}

// Prepare paints the initial frame onto s.
//
// Decodable bytes are center-cropped to a square and scaled to fill the
// surface. Undecodable bytes produce a black frame with dark green rules
// every 20 rows. No bytes produce the "NO SIGNAL" placeholder.
//
// Decoding problems never surface as errors. The returned error is non-nil
// only if s itself fails to draw text.
func Prepare(s surface.Surface, source []byte) (SourceKind, error) {
	b := s.Bounds()
	s.FillRect(b, backgroundColor)

	if len(source) == 0 {
		s.FillRect(b, placeholderColor)
		err := s.DrawText(placeholderText, float64(b.Dx())/2, float64(b.Dy())/2, surface.TextStyle{
			Size:  placeholderSize,
			Color: patternColor,
			Align: surface.AlignCenter,
		})
		return SourceAbsent, err
	}

	img, err := DecodeSource(source)
	if err != nil {
		drawNoSignalPattern(s)
		return SourceCorrupt, nil
	}

	ib := img.Bounds()
	crop := CenterSquare(ib.Dx(), ib.Dy()).Add(ib.Min)
	s.DrawImage(img, crop, b)
	return SourceImage, nil
}

func drawNoSignalPattern(s surface.Surface) {
	b := s.Bounds()
	w := float64(b.Dx())
	for y := 0; y < b.Dy(); y += patternPeriod {
		s.StrokeLine(0, float64(y), w, float64(y), 1, patternColor)
	}
}
