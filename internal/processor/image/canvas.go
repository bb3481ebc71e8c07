package image

import (
	"image"
	"image/color"

	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"golang.org/x/image/draw"
)

// newCanvas allocates a destination bitmap. PNG canvases start fully
// transparent so a resample never lands on an opaque background; the other
// formats start opaque black.
func newCanvas(width, height int, format processor.Format) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))

	fill := color.NRGBA{A: 0xff}
	if format == processor.FormatPNG {
		fill = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0}
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	return dst
}

// paint draws src over the whole of dst. PNG pixels, alpha included, replace
// the canvas; other formats are blended onto it.
func paint(dst *image.NRGBA, src image.Image, format processor.Format) {
	op := draw.Over
	if format == processor.FormatPNG {
		op = draw.Src
	}
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, op)
}

// newCropCanvas allocates the destination of a crop. Paletted sources keep
// their palette so an indexed image is written back without requantizing;
// uncovered pixels take the palette's transparent entry when it has one.
func newCropCanvas(src image.Image, width, height int) draw.Image {
	rect := image.Rect(0, 0, width, height)

	pm, ok := src.(*image.Paletted)
	if !ok || len(pm.Palette) == 0 {
		return image.NewNRGBA(rect)
	}

	dst := image.NewPaletted(rect, pm.Palette)
	if idx := transparentIndex(pm.Palette); idx > 0 {
		for i := range dst.Pix {
			dst.Pix[i] = uint8(idx)
		}
	}
	return dst
}

func transparentIndex(p color.Palette) int {
	for i, c := range p {
		if _, _, _, a := c.RGBA(); a == 0 {
			return i
		}
	}
	return -1
}
