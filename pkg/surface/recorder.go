package surface

import (
	"image"
	"image/color"
)

// Op names recorded by Recorder.
const (
	OpFill   = "fill"
	OpStroke = "stroke"
	OpImage  = "image"
	OpText   = "text"
)

// Call is one recorded drawing operation.
type Call struct {
	Op    string
	Rect  image.Rectangle // fill target, or image destination
	Crop  image.Rectangle // image source crop
	Line  [4]float64      // stroke endpoints x0, y0, x1, y1
	Text  string
	X, Y  float64
	Color color.Color
	Style TextStyle
}

// Recorder is a Surface that logs every call and forwards it to an optional
// inner Surface. It is used to assert on what a stage asked for without
// depending on rasterizer output.
type Recorder struct {
	Inner Surface
	Calls []Call

	bounds image.Rectangle
}

// NewRecorder returns a Recorder over bounds. If inner is non-nil its bounds
// are used instead and every call is forwarded.
func NewRecorder(bounds image.Rectangle, inner Surface) *Recorder {
	if inner != nil {
		bounds = inner.Bounds()
	}
	return &Recorder{Inner: inner, bounds: bounds}
}

// RecorderFactory returns a Factory that wraps a GG surface in a Recorder
// and hands the Recorder to observe.
func RecorderFactory(observe func(*Recorder)) Factory {
	return func(dst *image.RGBA) (Surface, error) {
		inner, err := NewGG(dst)
		if err != nil {
			return nil, err
		}
		r := NewRecorder(dst.Bounds(), inner)
		if observe != nil {
			observe(r)
		}
		return r, nil
	}
}

// Bounds implements Surface.
func (r *Recorder) Bounds() image.Rectangle { return r.bounds }

// FillRect implements Surface.
func (r *Recorder) FillRect(rect image.Rectangle, c color.Color) {
	r.Calls = append(r.Calls, Call{Op: OpFill, Rect: rect, Color: c})
	if r.Inner != nil {
		r.Inner.FillRect(rect, c)
	}
}

// StrokeLine implements Surface.
func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	r.Calls = append(r.Calls, Call{Op: OpStroke, Line: [4]float64{x0, y0, x1, y1}, Color: c})
	if r.Inner != nil {
		r.Inner.StrokeLine(x0, y0, x1, y1, width, c)
	}
}

// DrawImage implements Surface.
func (r *Recorder) DrawImage(src image.Image, crop, dst image.Rectangle) {
	r.Calls = append(r.Calls, Call{Op: OpImage, Rect: dst, Crop: crop})
	if r.Inner != nil {
		r.Inner.DrawImage(src, crop, dst)
	}
}

// DrawText implements Surface.
func (r *Recorder) DrawText(s string, x, y float64, style TextStyle) error {
	r.Calls = append(r.Calls, Call{Op: OpText, Text: s, X: x, Y: y, Color: style.Color, Style: style})
	if r.Inner != nil {
		return r.Inner.DrawText(s, x, y, style)
	}
	return nil
}

// Filter returns the recorded calls with the given op.
func (r *Recorder) Filter(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

var _ Surface = (*Recorder)(nil)
