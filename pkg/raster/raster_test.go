package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/hocr-numbers/models"
)

// gradient paints each pixel with its own coordinates so crops can be checked
// by reading back a pixel.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestOpen_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p1.png")
	writePNG(t, path, gradient(40, 30))

	img, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(40, 30) {
		t.Errorf("size = %v, want (40,30)", got)
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Open(filepath.Join(dir, "missing.png"), nil); err == nil {
		t.Error("Open() on missing file returned nil error")
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(garbage, nil); err == nil {
		t.Error("Open() on garbage returned nil error")
	}
}

func TestCrop(t *testing.T) {
	src := gradient(100, 80)

	tests := []struct {
		name     string
		box      models.BBox
		page     *models.BBox
		wantOK   bool
		wantSize image.Point
		wantAt00 color.NRGBA
	}{
		{
			name:     "inside",
			box:      models.BBox{X0: 10, Y0: 10, X1: 50, Y1: 30},
			wantOK:   true,
			wantSize: image.Pt(40, 20),
			wantAt00: color.NRGBA{R: 10, G: 10, A: 255},
		},
		{
			name:     "same size page is not scaled",
			box:      models.BBox{X0: 10, Y0: 10, X1: 50, Y1: 30},
			page:     &models.BBox{X1: 100, Y1: 80},
			wantOK:   true,
			wantSize: image.Pt(40, 20),
			wantAt00: color.NRGBA{R: 10, G: 10, A: 255},
		},
		{
			name:     "page twice the raster size",
			box:      models.BBox{X0: 20, Y0: 20, X1: 100, Y1: 60},
			page:     &models.BBox{X1: 200, Y1: 160},
			wantOK:   true,
			wantSize: image.Pt(40, 20),
			wantAt00: color.NRGBA{R: 10, G: 10, A: 255},
		},
		{
			name:     "same size page with an offset origin",
			box:      models.BBox{X0: 15, Y0: 13, X1: 55, Y1: 33},
			page:     &models.BBox{X0: 5, Y0: 3, X1: 105, Y1: 83},
			wantOK:   true,
			wantSize: image.Pt(40, 20),
			wantAt00: color.NRGBA{R: 10, G: 10, A: 255},
		},
		{
			name:     "scaled page with an offset origin",
			box:      models.BBox{X0: 30, Y0: 30, X1: 110, Y1: 70},
			page:     &models.BBox{X0: 10, Y0: 10, X1: 210, Y1: 170},
			wantOK:   true,
			wantSize: image.Pt(40, 20),
			wantAt00: color.NRGBA{R: 10, G: 10, A: 255},
		},
		{
			name:     "clipped at the edge",
			box:      models.BBox{X0: 90, Y0: 70, X1: 130, Y1: 100},
			wantOK:   true,
			wantSize: image.Pt(10, 10),
			wantAt00: color.NRGBA{R: 90, G: 70, A: 255},
		},
		{
			name:   "outside",
			box:    models.BBox{X0: 200, Y0: 200, X1: 220, Y1: 220},
			wantOK: false,
		},
		{
			name:   "degenerate",
			box:    models.BBox{X0: 10, Y0: 10, X1: 10, Y1: 30},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Crop(src, tt.box, tt.page)
			if ok != tt.wantOK {
				t.Fatalf("Crop() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if size := got.Bounds().Size(); size != tt.wantSize {
				t.Errorf("size = %v, want %v", size, tt.wantSize)
			}
			if c := color.NRGBAModel.Convert(got.At(0, 0)).(color.NRGBA); c != tt.wantAt00 {
				t.Errorf("pixel (0,0) = %v, want %v", c, tt.wantAt00)
			}
		})
	}
}

// gray_64x48.jp2 is a single-tile greyscale JPEG 2000 file whose samples
// all decode to mid grey.
const jp2Fixture = "testdata/gray_64x48.jp2"

func TestOpen_JPEG2000(t *testing.T) {
	tests := []struct {
		name string
		page *models.BBox
	}{
		{name: "native page size", page: &models.BBox{X1: 64, Y1: 48}},
		{name: "page twice the raster size", page: &models.BBox{X1: 128, Y1: 96}},
		{name: "offset page", page: &models.BBox{X0: 8, Y0: 8, X1: 72, Y1: 56}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Open(jp2Fixture, tt.page)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			size := img.Bounds().Size()
			if size.X != tt.page.Width() {
				t.Errorf("width = %d, want page width %d", size.X, tt.page.Width())
			}
			if d := size.Y - tt.page.Height(); d < -1 || d > 1 {
				t.Errorf("height = %d, want about %d", size.Y, tt.page.Height())
			}

			// A box covering the right half of the page in page space.
			half := models.BBox{
				X0: tt.page.X0 + tt.page.Width()/2, Y0: tt.page.Y0,
				X1: tt.page.X1, Y1: tt.page.Y1,
			}
			crop, ok := Crop(img, half, tt.page)
			if !ok {
				t.Fatal("Crop() ok = false")
			}
			if got := crop.Bounds().Dx(); got != size.X/2 {
				t.Errorf("crop width = %d, want %d", got, size.X/2)
			}
			g := color.GrayModel.Convert(crop.At(0, 0)).(color.Gray)
			if g.Y < 120 || g.Y > 136 {
				t.Errorf("crop pixel = %d, want mid grey", g.Y)
			}
		})
	}
}

func TestOpen_JPEG2000WithoutPage(t *testing.T) {
	img, err := Open(jp2Fixture, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	size := img.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		t.Fatalf("size = %v, want a rendered page", size)
	}
	// Default rendering keeps the 4:3 aspect ratio.
	if d := size.X*3 - size.Y*4; d < -4 || d > 4 {
		t.Errorf("size = %v, want 4:3", size)
	}

	// Without a page the box is taken in rendered pixels.
	crop, ok := Crop(img, models.BBox{X1: 10, Y1: 10}, nil)
	if !ok || crop.Bounds().Size() != image.Pt(10, 10) {
		t.Errorf("Crop() = %v, %v, want a 10x10 crop", crop, ok)
	}
}

func TestOpen_JPEG2000Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jp2")
	if err := os.WriteFile(path, []byte("not a jpeg 2000 file"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, &models.BBox{X1: 64, Y1: 48}); err == nil {
		t.Error("Open() on a corrupt jp2 returned nil error")
	}
}

func TestCrop_OffsetBounds(t *testing.T) {
	// Sub-images keep their parent's coordinates; boxes are relative to the
	// raster origin.
	src := gradient(100, 80).SubImage(image.Rect(20, 20, 100, 80))

	got, ok := Crop(src, models.BBox{X0: 0, Y0: 0, X1: 5, Y1: 5}, nil)
	if !ok {
		t.Fatal("Crop() ok = false")
	}
	if c := color.NRGBAModel.Convert(got.At(0, 0)).(color.NRGBA); c.R != 20 || c.G != 20 {
		t.Errorf("pixel (0,0) = %v, want origin of sub-image", c)
	}
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, gradient(7, 5)); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if cfg.Width != 7 || cfg.Height != 5 {
		t.Errorf("decoded size = %dx%d, want 7x5", cfg.Width, cfg.Height)
	}
}
