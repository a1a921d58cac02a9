package surface

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/glitchid/pkg/fonts"
)

// GG is a Surface that draws directly into an *image.RGBA with fogleman/gg.
type GG struct {
	dst *image.RGBA
	dc  *gg.Context
}

// NewGG returns a Surface drawing into dst. It satisfies [Factory] and fails
// when the text fonts cannot be loaded, so text capability is known before
// anything is drawn.
func NewGG(dst *image.RGBA) (Surface, error) {
	if dst == nil || dst.Bounds().Empty() {
		return nil, ErrNoTarget
	}
	if dst.Bounds().Min != (image.Point{}) {
		return nil, fmt.Errorf("surface: destination must start at the origin, got %v", dst.Bounds().Min)
	}
	if err := fonts.Preload(); err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}
	return &GG{dst: dst, dc: gg.NewContextForRGBA(dst)}, nil
}

// Bounds returns the destination bounds.
func (s *GG) Bounds() image.Rectangle {
	return s.dst.Bounds()
}

// FillRect paints r with c.
func (s *GG) FillRect(r image.Rectangle, c color.Color) {
	r = r.Intersect(s.dst.Bounds())
	if r.Empty() {
		return
	}
	s.dc.SetColor(c)
	s.dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	s.dc.Fill()
}

// StrokeLine draws a line from (x0, y0) to (x1, y1).
func (s *GG) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawLine(x0, y0, x1, y1)
	s.dc.Stroke()
}

// DrawImage crops, rescales with a bilinear filter and composites src.
func (s *GG) DrawImage(src image.Image, crop, dst image.Rectangle) {
	if crop.Empty() || dst.Empty() {
		return
	}
	cropped := imaging.Crop(src, crop)
	if cropped.Bounds().Dx() != dst.Dx() || cropped.Bounds().Dy() != dst.Dy() {
		cropped = imaging.Resize(cropped, dst.Dx(), dst.Dy(), imaging.Linear)
	}
	s.dc.DrawImage(cropped, dst.Min.X, dst.Min.Y)
}

// DrawText draws a single line of text. When style.Glow is set the text is
// first rendered to a scratch layer, blurred and composited underneath.
func (s *GG) DrawText(text string, x, y float64, style TextStyle) error {
	if text == "" {
		return nil
	}
	face, err := fonts.Face(style.Weight, style.Size)
	if err != nil {
		return fmt.Errorf("load %v face: %w", style.Weight, err)
	}
	defer face.Close()

	c := style.Color
	if c == nil {
		c = color.White
	}
	ax := style.Align.anchor()

	if style.Glow > 0 {
		b := s.dst.Bounds()
		layer := gg.NewContext(b.Dx(), b.Dy())
		layer.SetFontFace(face)
		layer.SetColor(c)
		layer.DrawStringAnchored(text, x, y, ax, 0)
		// Canvas shadows use a gaussian with sigma of half the blur radius.
		halo := imaging.Blur(layer.Image(), style.Glow/2)
		s.dc.DrawImage(halo, 0, 0)
	}

	s.dc.SetFontFace(face)
	s.dc.SetColor(c)
	s.dc.DrawStringAnchored(text, x, y, ax, 0)
	return nil
}

var _ Surface = (*GG)(nil)
