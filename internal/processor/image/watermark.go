package image

import (
	"context"
	"path/filepath"

	"github.com/abdul-hamid-achik/qimage/internal/apperror"
	"github.com/abdul-hamid-achik/qimage/internal/logger"
	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/abdul-hamid-achik/qimage/internal/tracing"
	"github.com/fogleman/gg"
	"go.opentelemetry.io/otel/attribute"
)

// Watermark stamps the configured watermark onto the lower-right corner of
// target and overwrites target with the result. Copy the file first if the
// original must survive.
func (p *Processor) Watermark(ctx context.Context, target string) (*processor.Descriptor, error) {
	return p.WatermarkTo(ctx, target, target)
}

// WatermarkTo stamps the watermark onto target and writes the result to
// output in target's format. The watermark's top-left corner sits at
// (targetW - wmW - 15, targetH - wmH - 15); a watermark larger than the
// target ends up partly off-canvas.
func (p *Processor) WatermarkTo(ctx context.Context, target, output string) (*processor.Descriptor, error) {
	ctx, span := tracing.StartSpan(ctx, "image.watermark")
	defer span.End()
	ctx = logger.WithOperation(ctx, "watermark")

	wmPath := p.config.WatermarkPath
	if !isRegularFile(wmPath) {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrInvalidPath, nil, "invalid watermark file"))
	}
	if wm, err := processor.Probe(wmPath); err != nil || wm.Format != processor.FormatPNG {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrUnsupportedFormat, err, "watermark image must be png"))
	}
	if !isRegularFile(target) {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrInvalidPath, nil, msgInvalidFile))
	}
	if !processor.ValidExtension(target) {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrUnsupportedFormat, nil, msgInvalidType))
	}
	if output == "" {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrMissingParameter, nil, "invalid output file"))
	}
	if !WritableDir(filepath.Dir(output)) {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrInvalidPath, nil, "output dir is not a dir or not writeable"))
	}

	dst, err := probe(target)
	if err != nil {
		return nil, p.fail(ctx, err)
	}
	wmCodec, err := processor.FormatPNG.Codec()
	if err != nil {
		return nil, p.fail(ctx, err)
	}
	mark, err := wmCodec.DecodeFile(wmPath)
	if err != nil {
		return nil, p.fail(ctx, err)
	}

	codec, err := dst.Format.Codec()
	if err != nil {
		return nil, p.fail(ctx, err)
	}
	img, err := codec.DecodeFile(target)
	if err != nil {
		return nil, p.fail(ctx, err)
	}

	x, y := watermarkOffset(dst.Width, dst.Height, mark.Bounds().Dx(), mark.Bounds().Dy())

	dc := gg.NewContextForImage(img)
	dc.DrawImage(mark, x, y)

	if err := codec.EncodeFile(output, dc.Image(), p.config.JPEGQuality); err != nil {
		return nil, p.fail(ctx, err)
	}

	tracing.AddSpanAttributes(ctx,
		attribute.String("image.format", dst.Format.String()),
		attribute.Int("watermark.x", x),
		attribute.Int("watermark.y", y),
	)
	logger.FromContext(ctx).Info("watermark applied",
		"target", target,
		"output", output,
		"format", dst.Format.String(),
		"x", x,
		"y", y,
	)

	return &processor.Descriptor{
		Path:   output,
		Width:  dst.Width,
		Height: dst.Height,
		Format: dst.Format,
		MIME:   dst.Format.MIME(),
	}, nil
}

func watermarkOffset(targetW, targetH, markW, markH int) (int, int) {
	return targetW - markW - processor.WatermarkMargin, targetH - markH - processor.WatermarkMargin
}
