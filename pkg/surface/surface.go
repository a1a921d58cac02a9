// Package surface defines the drawing capability the glitch pipeline draws
// through, and a raster implementation backed by fogleman/gg.
//
// The pipeline never rasterizes glyphs or scales images itself. It asks a
// [Surface] to blit, fill, stroke and print, and does its own per-pixel work
// on the same backing *image.RGBA in between.
//
// # Usage
//
//	dst := image.NewRGBA(image.Rect(0, 0, 500, 500))
//	s, err := surface.NewGG(dst)
//	if err != nil {
//	    return err
//	}
//	s.FillRect(dst.Bounds(), color.Black)
//	err = s.DrawText("NO SIGNAL", 250, 250, surface.TextStyle{
//	    Size:  40,
//	    Color: color.RGBA{0, 0x33, 0, 0xff},
//	    Align: surface.AlignCenter,
//	})
package surface

import (
	"errors"
	"image"
	"image/color"

	"github.com/matzehuels/glitchid/pkg/fonts"
)

// ErrNoTarget is returned by factories given a nil or empty destination.
var ErrNoTarget = errors.New("surface: no drawing target")

// Align is the horizontal anchor of a text run relative to its x coordinate.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// anchor returns the fraction of the text width left of x.
func (a Align) anchor() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	default:
		return 0
	}
}

// TextStyle configures a DrawText call. The y coordinate passed alongside
// it is the alphabetic baseline.
type TextStyle struct {
	Weight fonts.Weight
	Size   float64 // pixels
	Color  color.Color
	Align  Align

	// Glow is the blur radius of a same-colored halo drawn under the text.
	// Zero disables it.
	Glow float64
}

// Surface is a 2D drawing capability over a fixed-size raster.
//
// Implementations draw with source-over compositing into the raster they
// were created for. A Surface is not safe for concurrent use.
type Surface interface {
	// Bounds returns the drawable area.
	Bounds() image.Rectangle

	// FillRect paints r with a solid color.
	FillRect(r image.Rectangle, c color.Color)

	// StrokeLine draws a line segment of the given width.
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)

	// DrawImage crops src to crop, scales the result to the size of dst and
	// draws it at dst.Min.
	DrawImage(src image.Image, crop, dst image.Rectangle)

	// DrawText draws s anchored at (x, y). It fails only when the requested
	// font cannot be loaded.
	DrawText(s string, x, y float64, style TextStyle) error
}

// Factory binds a Surface to a destination raster.
type Factory func(dst *image.RGBA) (Surface, error)
