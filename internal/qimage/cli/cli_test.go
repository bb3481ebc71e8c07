package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("QIMAGE_WATERMARK", "")
	t.Setenv("QIMAGE_JPEG_QUALITY", "")
	t.Setenv("QIMAGE_OUTPUT_DIR", "")

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--no-color"))

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeImage(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		t.Fatal(err)
	}
}

func writeGIF(t *testing.T, f *os.File) {
	t.Helper()
	defer func() { _ = f.Close() }()

	img := image.NewPaletted(image.Rect(0, 0, 3, 2), color.Palette{color.White, color.Black})
	if err := gif.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
}

func probeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	desc, err := processor.Probe(path)
	if err != nil {
		t.Fatalf("Probe(%s) error = %v", path, err)
	}
	return desc.Width, desc.Height
}

func TestRootCommand(t *testing.T) {
	out, _, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{"qimage", "resize", "crop", "watermark", "copy", "check", "batch"} {
		if !strings.Contains(out, want) {
			t.Errorf("Help output should mention %q", want)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version", "--json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var v map[string]string
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("version output is not JSON: %q", out)
	}
	if v["version"] == "" {
		t.Errorf("version missing from %q", out)
	}
}

func TestResizeCommand(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writeImage(t, src, 400, 200, color.NRGBA{R: 255, A: 255})

	tests := []struct {
		name  string
		args  []string
		wantW int
		wantH int
	}{
		{"width", []string{"--width", "60"}, 60, 30},
		{"height applies to longer side", []string{"--height", "60"}, 60, 30},
		{"both dimensions", []string{"--width", "30", "--height", "30"}, 30, 30},
		{"larger than original keeps size", []string{"--width", "800"}, 400, 200},
		{"exact allows upscaling", []string{"--width", "800", "--exact"}, 800, 400},
		{"preset", []string{"--preset", "thumbnail"}, 150, 75},
		{"preset with width override", []string{"--preset", "og", "--width", "240", "--height", "0"}, 240, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"resize", src, "-o", outDir}, tt.args...)
			out, stderr, err := execute(t, args...)
			if err != nil {
				t.Fatalf("Execute() error = %v, stderr = %q", err, stderr)
			}
			if !strings.Contains(out, "in.png") {
				t.Errorf("output = %q, want to mention in.png", out)
			}

			w, h := probeSize(t, filepath.Join(outDir, "in.png"))
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResizeCommand_UnknownPreset(t *testing.T) {
	_, _, err := execute(t, "resize", "in.png", "--preset", "poster", "-o", t.TempDir())
	if err == nil || errors.Is(err, ErrReported) {
		t.Fatalf("Execute() error = %v, want unknown preset error", err)
	}
	if !strings.Contains(err.Error(), "unknown preset") {
		t.Errorf("error = %v", err)
	}
}

func TestResizeCommand_MissingFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "missing.png")
	_, stderr, err := execute(t, "resize", src, "--width", "10", "-o", t.TempDir())
	if !errors.Is(err, ErrReported) {
		t.Fatalf("Execute() error = %v, want ErrReported", err)
	}
	if !strings.Contains(stderr, "missing.png: invalid file") {
		t.Errorf("stderr = %q, want diagnostic line", stderr)
	}
}

func TestResizeCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.jpg")
	writeImage(t, src, 100, 50, color.NRGBA{G: 255, A: 255})

	out, _, err := execute(t, "resize", src, "--width", "50", "-o", t.TempDir(), "--json", "--quality", "80")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var res result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %q", out)
	}
	if res.Output == nil || res.Output.Width != 50 || res.Output.Height != 25 {
		t.Errorf("result = %+v, want 50x25 output", res)
	}
	if len(res.Errors) != 0 {
		t.Errorf("errors = %v, want none", res.Errors)
	}
}

func TestCropCommand(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writeImage(t, src, 100, 100, color.NRGBA{B: 255, A: 255})

	_, stderr, err := execute(t, "crop", src, "-x", "10", "-y", "10", "--width", "20", "--height", "30", "-o", outDir)
	if err != nil {
		t.Fatalf("Execute() error = %v, stderr = %q", err, stderr)
	}

	w, h := probeSize(t, filepath.Join(outDir, "in.png"))
	if w != 20 || h != 30 {
		t.Errorf("size = %dx%d, want 20x30", w, h)
	}
}

func TestCropCommand_MissingParams(t *testing.T) {
	src := filepath.Join(t.TempDir(), "in.png")
	writeImage(t, src, 10, 10, color.White)

	_, stderr, err := execute(t, "crop", src, "-o", t.TempDir())
	if !errors.Is(err, ErrReported) {
		t.Fatalf("Execute() error = %v, want ErrReported", err)
	}
	if !strings.Contains(stderr, "params missing") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestWatermarkCommand(t *testing.T) {
	dir := t.TempDir()
	mark := filepath.Join(dir, "mark.png")
	target := filepath.Join(dir, "photo.png")
	writeImage(t, mark, 20, 10, color.NRGBA{B: 255, A: 255})
	writeImage(t, target, 100, 100, color.NRGBA{R: 255, A: 255})

	_, stderr, err := execute(t, "watermark", target, "--watermark-image", mark)
	if err != nil {
		t.Fatalf("Execute() error = %v, stderr = %q", err, stderr)
	}

	f, err := os.Open(target)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}

	r, g, b, _ := img.At(70, 80).RGBA()
	if r != 0 || g != 0 || b != 0xffff {
		t.Errorf("pixel under watermark = (%d,%d,%d), want blue", r, g, b)
	}
	r, _, b, _ = img.At(5, 5).RGBA()
	if r != 0xffff || b != 0 {
		t.Errorf("pixel outside watermark = (%d,_,%d), want red", r, b)
	}
}

func TestWatermarkCommand_OutWithMultipleFiles(t *testing.T) {
	_, _, err := execute(t, "watermark", "a.png", "b.png", "--out", "c.png")
	if err == nil || errors.Is(err, ErrReported) {
		t.Fatalf("Execute() error = %v, want usage error", err)
	}
}

func TestWatermarkCommand_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	mark := filepath.Join(dir, "mark.png")
	good := filepath.Join(dir, "good.png")
	writeImage(t, mark, 4, 4, color.Black)
	writeImage(t, good, 40, 40, color.White)

	out, stderr, err := execute(t, "watermark", good, filepath.Join(dir, "absent.png"), "--watermark-image", mark)
	if !errors.Is(err, ErrReported) {
		t.Fatalf("Execute() error = %v, want ErrReported", err)
	}
	if !strings.Contains(stderr, "absent.png: invalid file") {
		t.Errorf("stderr = %q", stderr)
	}
	if !strings.Contains(out, "1/2 completed (1 failed)") {
		t.Errorf("stdout = %q, want summary", out)
	}
}

func TestCopyCommand(t *testing.T) {
	src := filepath.Join(t.TempDir(), "upload-123")
	writeImage(t, src, 8, 8, color.White)
	dest := t.TempDir()

	out, stderr, err := execute(t, "copy", src, "--name", "Holiday.PNG", "--dest", dest, "--json")
	if err != nil {
		t.Fatalf("Execute() error = %v, stderr = %q", err, stderr)
	}

	var res result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %q", out)
	}
	if !regexp.MustCompile(`^[0-9a-f]{32}[0-9]{14}\.png$`).MatchString(res.Name) {
		t.Errorf("staged name = %q", res.Name)
	}
	if _, err := os.Stat(filepath.Join(dest, res.Name)); err != nil {
		t.Errorf("staged file missing: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source should be moved, stat err = %v", err)
	}
}

func TestCopyCommand_BadExtension(t *testing.T) {
	src := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(src, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := execute(t, "copy", src, "--dest", t.TempDir())
	if !errors.Is(err, ErrReported) {
		t.Fatalf("Execute() error = %v, want ErrReported", err)
	}
	if !strings.Contains(stderr, "the file must be a jpg, gif or png image") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	fake := filepath.Join(dir, "fake.jpg")
	writeImage(t, good, 12, 7, color.White)
	if err := os.WriteFile(fake, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "check", good, fake, "--json")
	if !errors.Is(err, ErrReported) {
		t.Fatalf("Execute() error = %v, want ErrReported", err)
	}

	var results []checkResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("output is not JSON: %q", out)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Format != "png" || results[0].Width != 12 || results[0].Height != 7 || !results[0].ok() {
		t.Errorf("good result = %+v", results[0])
	}
	if !results[1].ValidExtension || results[1].Error == "" {
		t.Errorf("fake result = %+v, want valid extension and probe error", results[1])
	}
}

func TestCheckCommand_Table(t *testing.T) {
	good := filepath.Join(t.TempDir(), "good.gif")
	f, err := os.Create(good)
	if err != nil {
		t.Fatal(err)
	}
	writeGIF(t, f)

	out, _, err := execute(t, "check", good)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "FORMAT") || !strings.Contains(out, "gif") || !strings.Contains(out, "3x2") {
		t.Errorf("table output = %q", out)
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), 40, 20, color.White)
	writeImage(t, filepath.Join(dir, "b.jpg"), 20, 40, color.Black)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeImage(t, filepath.Join(dir, "sub", "c.png"), 10, 10, color.White)
	metricsFile := filepath.Join(t.TempDir(), "batch.prom")

	out, stderr, err := execute(t, "batch", dir, "--width", "20", "-o", outDir, "--metrics-file", metricsFile)
	if err != nil {
		t.Fatalf("Execute() error = %v, stderr = %q", err, stderr)
	}
	if !strings.Contains(out, "2/2 completed successfully") {
		t.Errorf("stdout = %q, want summary", out)
	}

	if w, h := probeSize(t, filepath.Join(outDir, "a.png")); w != 20 || h != 10 {
		t.Errorf("a.png = %dx%d, want 20x10", w, h)
	}
	if w, h := probeSize(t, filepath.Join(outDir, "b.jpg")); w != 10 || h != 20 {
		t.Errorf("b.jpg = %dx%d, want 10x20", w, h)
	}
	if _, err := os.Stat(filepath.Join(outDir, "c.png")); !os.IsNotExist(err) {
		t.Error("subdirectory should be skipped without --recursive")
	}

	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(data), "qimage_batch_items_total") {
		t.Error("metrics file should contain batch counters")
	}
}

func TestBatchCommand_RecursiveKeepsLayout(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writeImage(t, filepath.Join(dir, "top.png"), 30, 30, color.White)
	writeImage(t, filepath.Join(dir, "a", "x.png"), 40, 20, color.White)
	writeImage(t, filepath.Join(dir, "b", "x.png"), 20, 40, color.Black)

	out, stderr, err := execute(t, "batch", dir, "--width", "10", "-o", outDir, "--recursive")
	if err != nil {
		t.Fatalf("Execute() error = %v, stderr = %q", err, stderr)
	}
	if !strings.Contains(out, "3/3 completed successfully") {
		t.Errorf("stdout = %q, want summary", out)
	}

	if w, h := probeSize(t, filepath.Join(outDir, "top.png")); w != 10 || h != 10 {
		t.Errorf("top.png = %dx%d, want 10x10", w, h)
	}
	if w, h := probeSize(t, filepath.Join(outDir, "a", "x.png")); w != 10 || h != 5 {
		t.Errorf("a/x.png = %dx%d, want 10x5", w, h)
	}
	if w, h := probeSize(t, filepath.Join(outDir, "b", "x.png")); w != 5 || h != 10 {
		t.Errorf("b/x.png = %dx%d, want 5x10", w, h)
	}
	if _, err := os.Stat(filepath.Join(outDir, "x.png")); !os.IsNotExist(err) {
		t.Error("nested files should not be flattened into the output root")
	}
}

func TestBatchCommand_Failure(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), 40, 20, color.White)
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, stderr, err := execute(t, "batch", dir, "--width", "10", "-o", t.TempDir())
	if !errors.Is(err, ErrReported) {
		t.Fatalf("Execute() error = %v, want ErrReported", err)
	}
	if !strings.Contains(stderr, "broken.png: invalid file type") {
		t.Errorf("stderr = %q", stderr)
	}
	if !strings.Contains(out, "1/2 completed (1 failed)") {
		t.Errorf("stdout = %q", out)
	}
}

func TestBatchCommand_Empty(t *testing.T) {
	_, _, err := execute(t, "batch", t.TempDir(), "--width", "10")
	if err == nil || !strings.Contains(err.Error(), "no images found") {
		t.Errorf("Execute() error = %v, want no images error", err)
	}
}

func TestCollectImages(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), 2, 2, color.White)
	writeImage(t, filepath.Join(dir, "B.JPG"), 2, 2, color.White)
	if err := os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeImage(t, filepath.Join(dir, "nested", "c.gif.png"), 2, 2, color.White)

	tests := []struct {
		name      string
		recursive bool
		want      int
	}{
		{"flat", false, 2},
		{"recursive", true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := collectImages(dir, tt.recursive)
			if err != nil {
				t.Fatalf("collectImages() error = %v", err)
			}
			if len(files) != tt.want {
				t.Errorf("collectImages() = %v, want %d files", files, tt.want)
			}
		})
	}

	if _, err := collectImages(filepath.Join(dir, "a.png"), false); err == nil {
		t.Error("collectImages() should reject a file")
	}
}
