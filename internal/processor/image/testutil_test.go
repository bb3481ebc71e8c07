package image

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/qimage/internal/processor"
)

// createTestImage creates an opaque image with a gradient pattern.
func createTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(255 * x / width),
				G: uint8(255 * y / height),
				B: 128,
				A: 255,
			})
		}
	}

	return img
}

func createSolidColorImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	return img
}

func formatFor(name string) processor.Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return processor.FormatJPEG
	case ".gif":
		return processor.FormatGIF
	case ".png":
		return processor.FormatPNG
	}
	return processor.FormatUnknown
}

// writeTestImage encodes img into dir/name using the format implied by the
// extension.
func writeTestImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()

	codec, err := formatFor(name).Codec()
	if err != nil {
		t.Fatalf("no codec for %s: %v", name, err)
	}

	path := filepath.Join(dir, name)
	if err := codec.EncodeFile(path, img, 95); err != nil {
		t.Fatalf("EncodeFile(%s) error = %v", path, err)
	}
	return path
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
	return path
}

func decodeTestFile(t *testing.T, path string) image.Image {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open(%s) error = %v", path, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("Decode(%s) error = %v", path, err)
	}
	return img
}

// newTestProcessor returns a processor with a 20x10 opaque blue watermark and
// a fixed clock and token.
func newTestProcessor(t *testing.T) (*Processor, string) {
	t.Helper()

	dir := t.TempDir()
	wm := writeTestImage(t, dir, "watermark.png", createSolidColorImage(20, 10, color.NRGBA{B: 255, A: 255}))

	p := NewProcessor(&processor.Config{WatermarkPath: wm, JPEGQuality: 100})
	p.now = func() time.Time { return time.Date(2024, time.March, 7, 9, 5, 3, 0, time.UTC) }
	p.token = func() string { return "0123456789abcdef0123456789abcdef" }
	return p, wm
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func near(a, b color.NRGBA, tolerance int) bool {
	diff := func(x, y uint8) bool {
		d := int(x) - int(y)
		if d < 0 {
			d = -d
		}
		return d <= tolerance
	}
	return diff(a.R, b.R) && diff(a.G, b.G) && diff(a.B, b.B) && diff(a.A, b.A)
}

// assertSingleError fails unless p recorded exactly one diagnostic equal to
// want.
func assertSingleError(t *testing.T, p *Processor, want string) {
	t.Helper()

	errs := p.Errors()
	if len(errs) != 1 {
		t.Fatalf("Errors() = %q, want exactly [%q]", errs, want)
	}
	if errs[0] != want {
		t.Errorf("Errors()[0] = %q, want %q", errs[0], want)
	}
}

func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
}
