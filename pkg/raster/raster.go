// Package raster decodes page scans and cuts word regions out of them.
package raster

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/dtnitsch/hocr-numbers/models"
)

// JPEG 2000 containers are not handled by image.Decode; MuPDF opens them as
// single page documents.
var fitzExts = map[string]bool{
	".jp2": true,
	".jpx": true,
	".j2k": true,
	".j2c": true,
}

// Open decodes the raster at path. page is the page rectangle from the hOCR
// layout, when known; JPEG 2000 scans are rendered so that their pixel width
// matches it.
func Open(path string, page *models.BBox) (image.Image, error) {
	if fitzExts[strings.ToLower(filepath.Ext(path))] {
		return openFitz(path, page)
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open raster: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to decode raster %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func openFitz(path string, page *models.BBox) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raster %s: %w", filepath.Base(path), err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("raster %s has no pages", filepath.Base(path))
	}

	if page == nil || page.Empty() {
		img, err := doc.Image(0)
		if err != nil {
			return nil, fmt.Errorf("failed to render raster %s: %w", filepath.Base(path), err)
		}
		return img, nil
	}

	// Bound is in points (1/72 in). Pick the DPI that lands on the page's
	// native pixel width.
	bound, err := doc.Bound(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read raster bounds %s: %w", filepath.Base(path), err)
	}
	dpi := 72.0
	if bound.Dx() > 0 {
		dpi = 72.0 * float64(page.Width()) / float64(bound.Dx())
	}

	img, err := doc.ImageDPI(0, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render raster %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// Crop copies box out of img. Boxes are in page space; when page is given
// the box is moved to the page origin, and scaled first if the page differs
// in size from img. The result is
// clipped to the image and ok is false when nothing remains.
func Crop(img image.Image, box models.BBox, page *models.BBox) (image.Image, bool) {
	bounds := img.Bounds()
	r := scale(box, page, bounds.Dx(), bounds.Dy()).Add(bounds.Min).Intersect(bounds)
	if r.Empty() {
		return nil, false
	}

	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst, true
}

// scale maps box from page space into the pixel space of a w x h raster
// whose origin is the page's top-left corner.
func scale(box models.BBox, page *models.BBox, w, h int) image.Rectangle {
	if page == nil || page.Empty() {
		return box.Rect()
	}
	if page.Width() == w && page.Height() == h {
		return box.Rect().Sub(image.Pt(page.X0, page.Y0))
	}
	sx := float64(w) / float64(page.Width())
	sy := float64(h) / float64(page.Height())
	return image.Rect(
		int(math.Floor(float64(box.X0-page.X0)*sx)),
		int(math.Floor(float64(box.Y0-page.Y0)*sy)),
		int(math.Ceil(float64(box.X1-page.X0)*sx)),
		int(math.Ceil(float64(box.Y1-page.Y0)*sy)),
	)
}

// EncodePNG writes img as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
