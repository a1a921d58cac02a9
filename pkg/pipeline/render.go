package pipeline

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// jpegQuality is used for FormatJPEG. Scanlines and chroma fringes blur
// badly below this.
const jpegQuality = 92

var imagingFormats = map[string]imaging.Format{
	FormatPNG:  imaging.PNG,
	FormatJPEG: imaging.JPEG,
	FormatGIF:  imaging.GIF,
	FormatTIFF: imaging.TIFF,
	FormatBMP:  imaging.BMP,
}

// Encode writes img in the given format.
func Encode(img image.Image, format string) ([]byte, error) {
	f, ok := imagingFormats[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
