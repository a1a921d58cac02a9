package glitch

// Shift rebuilds buf from lum with the red channel sampled offset columns to
// the left and blue offset columns to the right. Samples that would fall off
// either edge use the pixel's own column instead. Alpha is set to 255.
//
// Each output pixel reads only lum, so buf can be overwritten in place.
func Shift(buf *PixelBuffer, lum *LuminanceBuffer, offset, workers int) {
	w := buf.Width
	forEachBand(buf.Height, workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := lum.Y[y*w : (y+1)*w]
			out := buf.Row(y)
			for x := 0; x < w; x++ {
				rx := x
				if x >= offset {
					rx = x - offset
				}
				bx := x
				if x < w-offset {
					bx = x + offset
				}
				o := out[x*4 : x*4+4 : x*4+4]
				o[0] = row[rx]
				o[1] = row[x]
				o[2] = row[bx]
				o[3] = 0xff
			}
		}
	})
}
