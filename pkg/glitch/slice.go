package glitch

// Slice bounds.
const (
	MinSliceHeight = 10
	MaxSliceHeight = 49
	MaxSliceShift  = 20
)

// Slice is one horizontal band displacement.
type Slice struct {
	Y      int // first row of the band
	Height int // rows in the band
	Shift  int // columns to move right (negative moves left)
}

// NewSlice draws a slice for a square frame of the given size. The draw
// order is height, then Y, then shift.
func NewSlice(rng RandomSource, size int) Slice {
	h := MinSliceHeight + rng.IntN(MaxSliceHeight-MinSliceHeight+1)
	if h >= size {
		h = size
	}
	y := 0
	if size > h {
		y = rng.IntN(size - h)
	}
	shift := rng.IntN(2*MaxSliceShift+1) - MaxSliceShift
	return Slice{Y: y, Height: h, Shift: shift}
}

// Apply lifts the band out of buf, blacks out its rows and writes it back
// moved by s.Shift columns. Columns pushed past either edge are dropped and
// uncovered columns stay black.
func (s Slice) Apply(buf *PixelBuffer) {
	y0 := max(s.Y, 0)
	y1 := min(s.Y+s.Height, buf.Height)
	if y0 >= y1 {
		return
	}
	stride := buf.Width * 4
	band := make([]uint8, (y1-y0)*stride)
	copy(band, buf.Pix[y0*stride:y1*stride])

	dx0 := max(s.Shift, 0)
	dx1 := min(buf.Width+s.Shift, buf.Width)
	for y := y0; y < y1; y++ {
		row := buf.Row(y)
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+1], row[i+2], row[i+3] = 0, 0, 0, 0xff
		}
		if dx0 >= dx1 {
			continue
		}
		src := band[(y-y0)*stride : (y-y0+1)*stride]
		copy(row[dx0*4:dx1*4], src[(dx0-s.Shift)*4:(dx1-s.Shift)*4])
	}
}

// Corrupt applies count freshly drawn slices in sequence. Later slices see
// the output of earlier ones. The slices are returned in application order.
func Corrupt(buf *PixelBuffer, count int, rng RandomSource) []Slice {
	slices := make([]Slice, 0, max(count, 0))
	for range count {
		s := NewSlice(rng, buf.Height)
		s.Apply(buf)
		slices = append(slices, s)
	}
	return slices
}
