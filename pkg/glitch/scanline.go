package glitch

// DarkenScanlines multiplies R, G and B of every gap-th row (starting at row
// 0) by factor, rounding half to even. Alpha is left alone. A gap below 1
// disables the effect.
func DarkenScanlines(buf *PixelBuffer, gap int, factor float64) {
	if gap < 1 {
		return
	}
	var table [256]uint8
	for v := range table {
		table[v] = clampByte(float64(v) * factor)
	}
	for y := 0; y < buf.Height; y += gap {
		row := buf.Row(y)
		for i := 0; i < len(row); i += 4 {
			row[i] = table[row[i]]
			row[i+1] = table[row[i+1]]
			row[i+2] = table[row[i+2]]
		}
	}
}
