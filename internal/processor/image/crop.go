package image

import (
	"context"
	"image"
	"path/filepath"

	"github.com/abdul-hamid-achik/qimage/internal/apperror"
	"github.com/abdul-hamid-achik/qimage/internal/logger"
	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/abdul-hamid-achik/qimage/internal/tracing"
	"golang.org/x/image/draw"
)

// Crop copies the req.Width x req.Height region at (req.X, req.Y) of the
// source into a new image of exactly that size, written to req.OutputDir
// under the source's base name. The region is not checked against the
// source bounds; whatever falls outside stays empty.
func (p *Processor) Crop(ctx context.Context, req *processor.CropRequest) (*processor.Descriptor, error) {
	ctx, span := tracing.StartSpan(ctx, "image.crop")
	defer span.End()
	ctx = logger.WithOperation(ctx, "crop")

	if req == nil {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrMissingParameter, nil, "params missing"))
	}
	if err := req.Validate(); err != nil {
		return nil, p.fail(ctx, err)
	}
	if !isRegularFile(req.Source) {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrInvalidPath, nil, "invalid image"))
	}
	if !isDir(req.OutputDir) || !isWritable(req.OutputDir) {
		return nil, p.fail(ctx, apperror.Describe(apperror.ErrInvalidPath, nil, "output dir is not a dir or not writeable"))
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

	region := image.Rect(req.X, req.Y, req.X+req.Width, req.Y+req.Height).Add(img.Bounds().Min)
	dst := newCropCanvas(img, req.Width, req.Height)
	draw.Copy(dst, image.Point{}, img, region, draw.Src, nil)

	out := filepath.Join(req.OutputDir, filepath.Base(req.Source))
	if err := codec.EncodeFile(out, dst, p.config.JPEGQuality); err != nil {
		return nil, p.fail(ctx, err)
	}

	logger.FromContext(ctx).Info("image cropped",
		"source", req.Source,
		"output", out,
		"format", src.Format.String(),
		"x", req.X,
		"y", req.Y,
		"width", req.Width,
		"height", req.Height,
	)

	return &processor.Descriptor{
		Path:   out,
		Width:  req.Width,
		Height: req.Height,
		Format: src.Format,
		MIME:   src.Format.MIME(),
	}, nil
}
