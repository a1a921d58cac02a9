package glitch

import "math"

// Perceptual luma weights and contrast expansion around mid-gray.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114

	contrastPivot = 128.0
	contrastGain  = 1.5
)

// Contrast collapses buf to a contrast-boosted brightness channel. buf is
// only read, so every sample comes from the same frame.
func Contrast(buf *PixelBuffer, workers int) *LuminanceBuffer {
	lum := &LuminanceBuffer{
		Width:  buf.Width,
		Height: buf.Height,
		Y:      make([]uint8, buf.Width*buf.Height),
	}
	forEachBand(buf.Height, workers, func(y0, y1 int) {
		for i := y0 * buf.Width; i < y1*buf.Width; i++ {
			p := buf.Pix[i*4 : i*4+3 : i*4+3]
			lum.Y[i] = contrastLuma(p[0], p[1], p[2])
		}
	})
	return lum
}

// contrastLuma returns clamp((0.299R + 0.587G + 0.114B - 128) * 1.5 + 128).
// The explicit float64 conversions stop the compiler fusing multiply-adds,
// which would change rounding on some architectures.
func contrastLuma(r, g, b uint8) uint8 {
	l := float64(lumaR*float64(r)) + float64(lumaG*float64(g)) + float64(lumaB*float64(b))
	l = float64((l-contrastPivot)*contrastGain) + contrastPivot
	return clampByte(l)
}

// clampByte stores v the way a byte-clamped array does: clamp to [0, 255]
// and round half to even.
func clampByte(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.RoundToEven(v))
	}
}
