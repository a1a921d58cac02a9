package glitch

import (
	"image"
	"image/color"
)

// PixelBuffer is a row-major, top-to-bottom RGBA raster with no padding
// between rows.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // len == Width*Height*4
}

// NewPixelBuffer allocates a zeroed (transparent black) buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// RGBA returns an *image.RGBA view sharing Pix. Drawing into the view
// mutates the buffer.
func (b *PixelBuffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Offset returns the index of the red byte of pixel (x, y).
func (b *PixelBuffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// Pixel returns the color at (x, y).
func (b *PixelBuffer) Pixel(x, y int) color.RGBA {
	i := b.Offset(x, y)
	return color.RGBA{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

// Row returns the bytes of row y.
func (b *PixelBuffer) Row(y int) []uint8 {
	stride := b.Width * 4
	return b.Pix[y*stride : (y+1)*stride]
}

// Clone returns a deep copy.
func (b *PixelBuffer) Clone() *PixelBuffer {
	c := &PixelBuffer{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

// Opaque reports whether every alpha byte is 255.
func (b *PixelBuffer) Opaque() bool {
	for i := 3; i < len(b.Pix); i += 4 {
		if b.Pix[i] != 0xff {
			return false
		}
	}
	return true
}

// seal forces every alpha byte to 255.
func (b *PixelBuffer) seal() {
	for i := 3; i < len(b.Pix); i += 4 {
		b.Pix[i] = 0xff
	}
}

// LuminanceBuffer holds one brightness sample per pixel of a PixelBuffer.
type LuminanceBuffer struct {
	Width  int
	Height int
	Y      []uint8 // len == Width*Height
}

// At returns the sample at (x, y).
func (l *LuminanceBuffer) At(x, y int) uint8 {
	return l.Y[y*l.Width+x]
}
