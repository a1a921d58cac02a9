// Package pipeline turns a render request into encoded images.
//
// It sits between the entry points (CLI and HTTP server) and the glitch
// package: it normalizes the identity, settles the seed and timestamp,
// runs the six-stage render, encodes the frame in each requested format and
// caches reproducible results.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Identity: "neo",
//	    Source:   avatar,
//	    Seed:     42,
//	    Formats:  []string{"png"},
//	})
//	if err != nil {
//	    return err
//	}
//	png := result.Artifacts["png"]
//
// A zero Seed draws a fresh one, which is reported in Result.Seed. Only
// requests with an explicit seed are cached.
package pipeline

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glitchid/pkg/cache"
	apperr "github.com/matzehuels/glitchid/pkg/errors"
	"github.com/matzehuels/glitchid/pkg/glitch"
	"github.com/matzehuels/glitchid/pkg/surface"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultIdentity is printed when no name is given.
	DefaultIdentity = "ANONYMOUS"

	// MaxIdentityLength is the number of runes kept from the identity.
	MaxIdentityLength = 16

	// DefaultSize is the default frame edge in pixels.
	DefaultSize = glitch.DefaultSize
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatTIFF = "tiff"
	FormatBMP  = "bmp"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
	FormatGIF:  true,
	FormatTIFF: true,
	FormatBMP:  true,
}

var formatAliases = map[string]string{
	"jpg": FormatJPEG,
	"tif": FormatTIFF,
}

var contentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatJPEG: "image/jpeg",
	FormatGIF:  "image/gif",
	FormatTIFF: "image/tiff",
	FormatBMP:  "image/bmp",
}

var extensions = map[string]string{
	FormatPNG:  "png",
	FormatJPEG: "jpg",
	FormatGIF:  "gif",
	FormatTIFF: "tiff",
	FormatBMP:  "bmp",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one render.
type Options struct {
	Identity   string    `json:"identity,omitempty"`
	Source     []byte    `json:"-"`
	SourceName string    `json:"source_name,omitempty"`
	Seed       uint64    `json:"seed,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
	Size       int       `json:"size,omitempty"`
	Formats    []string  `json:"formats,omitempty"`
	Refresh    bool      `json:"refresh,omitempty"`
	Workers    int       `json:"workers,omitempty"`

	// Runtime options (not serialized)
	Logger  *log.Logger     `json:"-"`
	Surface surface.Factory `json:"-"`

	// explicitSeed records whether the caller chose the seed.
	explicitSeed bool
	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Image is the rendered frame. It is nil when every artifact came from
	// the cache.
	Image *glitch.PixelBuffer

	// Artifacts contains encoded images keyed by format.
	Artifacts map[string][]byte

	// Seed is the seed the frame was rendered with.
	Seed uint64

	// Identity is the normalized identity printed on the frame.
	Identity string

	// FrameID is the caption printed top-right.
	FrameID string

	// SourceKind records how the source bytes were used.
	SourceKind glitch.SourceKind

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RenderTime time.Duration
	EncodeTime time.Duration
	Bytes      int
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ParseFormat normalizes a format name, accepting common aliases.
func ParseFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if alias, ok := formatAliases[f]; ok {
		f = alias
	}
	if !ValidFormats[f] {
		return "", apperr.New(apperr.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, jpeg, gif, tiff, bmp)", format)
	}
	return f, nil
}

// ValidateFormats normalizes every format in place.
func ValidateFormats(formats []string) error {
	for i, f := range formats {
		parsed, err := ParseFormat(f)
		if err != nil {
			return err
		}
		formats[i] = parsed
	}
	return nil
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// NormalizeIdentity trims, uppercases and truncates a raw identity.
// Blank input becomes DefaultIdentity.
func NormalizeIdentity(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DefaultIdentity
	}
	s = strings.ToUpper(s)
	if r := []rune(s); len(r) > MaxIdentityLength {
		s = string(r[:MaxIdentityLength])
	}
	return s
}

var nonWord = regexp.MustCompile(`\W`)

// DownloadName returns the suggested file name for a render,
// e.g. identity_glitch_NEO.png.
func DownloadName(identity, format string) string {
	return fmt.Sprintf("identity_glitch_%s.%s", nonWord.ReplaceAllString(identity, ""), Extension(format))
}

// Extension returns the file extension for a format, without the dot.
func Extension(format string) string {
	if ext, ok := extensions[format]; ok {
		return ext
	}
	return format
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := apperr.ValidateIdentity(o.Identity); err != nil {
		return err
	}
	if err := apperr.ValidateSourceName(o.SourceName); err != nil {
		return err
	}
	o.Identity = NormalizeIdentity(o.Identity)

	o.explicitSeed = o.Seed != 0
	if o.Seed == 0 {
		o.Seed = glitch.NewSeed()
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now()
	}

	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if err := apperr.ValidateSize(o.Size, glitch.MinSize, glitch.MaxSize); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Surface == nil {
		o.Surface = surface.NewGG
	}
	o.validated = true
	return nil
}

// Cacheable reports whether the result is reproducible and may be cached.
func (o *Options) Cacheable() bool {
	return o.explicitSeed
}

// RenderKeyOpts returns cache key options for one format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	opts := cache.RenderKeyOpts{
		Identity:  o.Identity,
		Seed:      o.Seed,
		Timestamp: o.Timestamp,
		Size:      o.Size,
		Format:    format,
	}
	if len(o.Source) > 0 {
		opts.SourceHash = cache.Hash(o.Source)
	}
	return opts
}

// glitchConfig maps the options onto render parameters.
func (o *Options) glitchConfig() glitch.Config {
	cfg := glitch.DefaultConfig()
	cfg.Size = o.Size
	cfg.Workers = o.Workers
	return cfg
}
