// Package fonts provides the monospace font faces used by the overlay.
//
// The fonts are the Go Mono family shipped as Go source in golang.org/x/image,
// so they are available without any font files on the host.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
)

// Weight selects a face from the monospace family.
type Weight int

const (
	Regular Weight = iota
	Bold
)

// String returns the weight name.
func (w Weight) String() string {
	switch w {
	case Regular:
		return "regular"
	case Bold:
		return "bold"
	default:
		return fmt.Sprintf("weight(%d)", int(w))
	}
}

// FamilyName is the display name of the embedded family.
const FamilyName = "Go Mono"

// Parsed fonts are immutable and shared; faces are not.
var (
	parseOnce sync.Once
	parsed    map[Weight]*truetype.Font
	parseErr  error
)

func load() error {
	parseOnce.Do(func() {
		regular, err := truetype.Parse(gomono.TTF)
		if err != nil {
			parseErr = fmt.Errorf("parse %s regular: %w", FamilyName, err)
			return
		}
		bold, err := truetype.Parse(gomonobold.TTF)
		if err != nil {
			parseErr = fmt.Errorf("parse %s bold: %w", FamilyName, err)
			return
		}
		parsed = map[Weight]*truetype.Font{Regular: regular, Bold: bold}
	})
	return parseErr
}

// Preload parses the embedded fonts. It reports the same error every
// subsequent Face call would.
func Preload() error {
	return load()
}

// Face returns a new face of the given weight at size pixels (72 DPI).
//
// Faces cache rasterized glyphs and are not safe for concurrent use, so
// every caller gets its own.
func Face(w Weight, size float64) (font.Face, error) {
	if err := load(); err != nil {
		return nil, err
	}
	f, ok := parsed[w]
	if !ok {
		return nil, fmt.Errorf("unknown font weight: %v", w)
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size: %v", size)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
