package image

import (
	"context"
	"path/filepath"

	"github.com/abdul-hamid-achik/qimage/internal/apperror"
	"github.com/abdul-hamid-achik/qimage/internal/logger"
	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/abdul-hamid-achik/qimage/internal/tracing"
	"github.com/disintegration/imaging"
	"go.opentelemetry.io/otel/attribute"
)

// Resize writes a resampled copy of req.Source to req.OutputDir under the
// source's base name. See processor.TargetDimensions for the size policy.
func (p *Processor) Resize(ctx context.Context, req *processor.ResizeRequest) (*processor.Descriptor, error) {
	ctx, span := tracing.StartSpan(ctx, "image.resize")
	defer span.End()
	ctx = logger.WithOperation(ctx, "resize")

	if req == nil {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrMissingParameter, nil, "invalid filename or width/height"))
	}
	if err := req.Validate(); err != nil {
		return nil, p.fail(ctx, err)
	}
	if !isDir(req.OutputDir) {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrInvalidPath, nil, msgInvalidOutput))
	}
	if !isWritable(req.OutputDir) {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrInvalidPath, nil, "output dir is not writable"))
	}
	if !isRegularFile(req.Source) {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrInvalidPath, nil, msgInvalidFile))
	}
	if !processor.ValidExtension(req.Source) {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrUnsupportedFormat, nil, msgInvalidType))
	}

	src, err := probe(req.Source)
	if err != nil {
		return nil, p.fail(ctx, err)
	}
	codec, err := src.Format.Codec()
	if err != nil {
		return nil, p.fail(ctx, err)
	}
	img, err := codec.DecodeFile(req.Source)
	if err != nil {
		return nil, p.fail(ctx, err)
	}

	width, height := processor.TargetDimensions(src.Width, src.Height, req.Width, req.Height, req.IsProportional())

	dst := newCanvas(width, height, src.Format)
	paint(dst, imaging.Resize(img, width, height, imaging.Box), src.Format)

	out := filepath.Join(req.OutputDir, filepath.Base(req.Source))
	if err := codec.EncodeFile(out, dst, p.config.JPEGQuality); err != nil {
		return nil, p.fail(ctx, err)
	}

	tracing.AddSpanAttributes(ctx,
		attribute.String("image.format", src.Format.String()),
		attribute.Int("image.width", width),
		attribute.Int("image.height", height),
	)
	logger.FromContext(ctx).Info("image resized",
		"source", req.Source,
		"output", out,
		"format", src.Format.String(),
		"original_width", src.Width,
		"original_height", src.Height,
		"width", width,
		"height", height,
	)

	return &processor.Descriptor{
		Path:   out,
		Width:  width,
		Height: height,
		Format: src.Format,
		MIME:   src.Format.MIME(),
	}, nil
}
