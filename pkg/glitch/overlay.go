package glitch

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/matzehuels/glitchid/pkg/fonts"
	"github.com/matzehuels/glitchid/pkg/surface"
)

// AccentColor is the terminal green used for all overlay text.
var AccentColor = color.RGBA{0x00, 0xff, 0x00, 0xff}

const (
	overlayMargin   = 20
	identitySize    = 24
	identityGlow    = 4
	frameIDSize     = 16
	frameIDBaseline = 30

	// FrameIDLimit is the exclusive upper bound of frame numbers.
	FrameIDLimit = 99999
)

// FrameLabel formats the top-right frame caption, e.g. "ID:00042 // 13:37:00".
func FrameLabel(id int, ts time.Time) string {
	return fmt.Sprintf("ID:%05d // %s", id, ts.Format("15:04:05"))
}

// Overlay prints the uppercased identity bottom-left with a glow and a
// random frame caption top-right. It returns the caption.
func Overlay(s surface.Surface, identity string, ts time.Time, rng RandomSource) (string, error) {
	b := s.Bounds()
	err := s.DrawText(strings.ToUpper(identity), overlayMargin, float64(b.Dy()-overlayMargin), surface.TextStyle{
		Weight: fonts.Bold,
		Size:   identitySize,
		Color:  AccentColor,
		Glow:   identityGlow,
	})
	if err != nil {
		return "", fmt.Errorf("identity: %w", err)
	}

	label := FrameLabel(rng.IntN(FrameIDLimit), ts)
	err = s.DrawText(label, float64(b.Dx()-overlayMargin), frameIDBaseline, surface.TextStyle{
		Weight: fonts.Regular,
		Size:   frameIDSize,
		Color:  AccentColor,
		Align:  surface.AlignRight,
	})
	if err != nil {
		return "", fmt.Errorf("frame id: %w", err)
	}
	return label, nil
}
