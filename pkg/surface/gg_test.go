package surface

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/matzehuels/glitchid/pkg/fonts"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
)

func newTarget(t *testing.T, w, h int) (*image.RGBA, Surface) {
	t.Helper()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	s, err := NewGG(dst)
	if err != nil {
		t.Fatalf("NewGG error: %v", err)
	}
	s.FillRect(dst.Bounds(), black)
	return dst, s
}

// litBounds returns the bounding box of pixels whose green channel is set.
func litBounds(img *image.RGBA) image.Rectangle {
	var r image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).G > 0 {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

func TestNewGGErrors(t *testing.T) {
	if _, err := NewGG(nil); !errors.Is(err, ErrNoTarget) {
		t.Errorf("NewGG(nil) error = %v, want ErrNoTarget", err)
	}
	if _, err := NewGG(image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrNoTarget) {
		t.Errorf("NewGG(empty) error = %v, want ErrNoTarget", err)
	}
	if _, err := NewGG(image.NewRGBA(image.Rect(5, 5, 10, 10))); err == nil {
		t.Error("NewGG with offset bounds should fail")
	}
}

func TestFillRect(t *testing.T) {
	dst, s := newTarget(t, 20, 20)
	fill := color.RGBA{0, 0x11, 0, 0xff}
	s.FillRect(image.Rect(5, 5, 15, 15), fill)

	if got := dst.RGBAAt(10, 10); got != fill {
		t.Errorf("inside pixel = %v, want %v", got, fill)
	}
	if got := dst.RGBAAt(2, 2); got != black {
		t.Errorf("outside pixel = %v, want %v", got, black)
	}
}

func TestStrokeLine(t *testing.T) {
	dst, s := newTarget(t, 40, 40)
	s.StrokeLine(0, 20, 40, 20, 1, green)

	lit := litBounds(dst)
	if lit.Empty() {
		t.Fatal("stroke drew nothing")
	}
	if lit.Min.Y < 18 || lit.Max.Y > 22 {
		t.Errorf("stroke covers rows %d..%d, want near row 20", lit.Min.Y, lit.Max.Y)
	}
	if lit.Dx() < 38 {
		t.Errorf("stroke covers %d columns, want full width", lit.Dx())
	}
}

func TestDrawImageCropAndScale(t *testing.T) {
	// Left half red, right half blue.
	src := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			c := color.RGBA{255, 0, 0, 255}
			if x >= 4 {
				c = color.RGBA{0, 0, 255, 255}
			}
			src.SetRGBA(x, y, c)
		}
	}

	dst, s := newTarget(t, 16, 16)
	s.DrawImage(src, image.Rect(4, 0, 8, 4), dst.Bounds())

	for _, p := range []image.Point{{0, 0}, {8, 8}, {15, 15}} {
		got := dst.RGBAAt(p.X, p.Y)
		if got.B != 255 || got.R != 0 {
			t.Errorf("pixel %v = %v, want pure blue from the cropped half", p, got)
		}
	}
}

func TestDrawTextAlignment(t *testing.T) {
	tests := []struct {
		name  string
		align Align
		check func(t *testing.T, lit image.Rectangle)
	}{
		{"left", AlignLeft, func(t *testing.T, lit image.Rectangle) {
			if lit.Min.X < 98 {
				t.Errorf("left-aligned text starts at %d, want >= ~100", lit.Min.X)
			}
		}},
		{"right", AlignRight, func(t *testing.T, lit image.Rectangle) {
			if lit.Max.X > 102 {
				t.Errorf("right-aligned text ends at %d, want <= ~100", lit.Max.X)
			}
		}},
		{"center", AlignCenter, func(t *testing.T, lit image.Rectangle) {
			if lit.Min.X >= 100 || lit.Max.X <= 100 {
				t.Errorf("centered text spans %d..%d, want to straddle 100", lit.Min.X, lit.Max.X)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst, s := newTarget(t, 200, 60)
			err := s.DrawText("NEO", 100, 40, TextStyle{Size: 24, Color: green, Align: tt.align})
			if err != nil {
				t.Fatalf("DrawText error: %v", err)
			}
			lit := litBounds(dst)
			if lit.Empty() {
				t.Fatal("DrawText drew nothing")
			}
			if lit.Max.Y > 42 {
				t.Errorf("glyphs extend to row %d, want above baseline 40", lit.Max.Y)
			}
			tt.check(t, lit)
		})
	}
}

func TestDrawTextGlowSpreads(t *testing.T) {
	plainDst, plain := newTarget(t, 200, 60)
	glowDst, glow := newTarget(t, 200, 60)

	style := TextStyle{Weight: fonts.Bold, Size: 24, Color: green}
	if err := plain.DrawText("NEO", 20, 40, style); err != nil {
		t.Fatalf("DrawText error: %v", err)
	}
	style.Glow = 4
	if err := glow.DrawText("NEO", 20, 40, style); err != nil {
		t.Fatalf("DrawText error: %v", err)
	}

	p, g := litBounds(plainDst), litBounds(glowDst)
	if !p.In(g) || p == g {
		t.Errorf("glow bounds %v should strictly contain plain bounds %v", g, p)
	}
}

func TestDrawTextEmpty(t *testing.T) {
	dst, s := newTarget(t, 20, 20)
	if err := s.DrawText("", 5, 10, TextStyle{Size: 12, Color: green}); err != nil {
		t.Fatalf("DrawText error: %v", err)
	}
	if !litBounds(dst).Empty() {
		t.Error("empty text should draw nothing")
	}
}

func TestDrawTextBadFont(t *testing.T) {
	_, s := newTarget(t, 20, 20)
	if err := s.DrawText("X", 5, 10, TextStyle{Size: 0, Color: green}); err == nil {
		t.Error("zero font size should fail")
	}
}

func TestRecorderForwards(t *testing.T) {
	var rec *Recorder
	factory := RecorderFactory(func(r *Recorder) { rec = r })

	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	s, err := factory(dst)
	if err != nil {
		t.Fatalf("factory error: %v", err)
	}
	s.FillRect(dst.Bounds(), green)
	s.StrokeLine(0, 0, 10, 0, 1, black)

	if len(rec.Calls) != 2 {
		t.Fatalf("recorded %d calls, want 2", len(rec.Calls))
	}
	if got := rec.Filter(OpFill); len(got) != 1 || got[0].Rect != dst.Bounds() {
		t.Errorf("fill calls = %+v", got)
	}
	if got := dst.RGBAAt(5, 5); got != green {
		t.Errorf("forwarded fill pixel = %v, want %v", got, green)
	}
}
