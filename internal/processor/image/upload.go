package image

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/qimage/internal/apperror"
	"github.com/abdul-hamid-achik/qimage/internal/logger"
	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/abdul-hamid-achik/qimage/internal/tracing"
)

const stampLayout = "02012006150405"

// Copy moves an upload out of temporary storage into destDir under a fresh
// name and returns that name. Names are a random token followed by the
// current time to the second and the original, lowercased, extension.
func (p *Processor) Copy(ctx context.Context, upload *processor.Upload, destDir string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "image.copy")
	defer span.End()
	ctx = logger.WithOperation(ctx, "copy")

	if destDir == "" || upload.Validate() != nil {
		return "", p.fail(ctx, apperror.Describe(apperror.ErrMissingParameter, nil, "name or path not found"))
	}
	if !isWritable(destDir) {
		return "", p.fail(ctx, apperror.Describe(apperror.ErrInvalidPath, nil, "destination path is not writable"))
	}
	if !processor.ValidExtension(upload.OriginalName) {
		return "", p.fail(ctx, apperror.Describe(apperror.ErrUnsupportedFormat, nil, "the file must be a jpg, gif or png image"))
	}

	ext := strings.ToLower(processor.Extension(upload.OriginalName))
	name := p.token() + p.now().Format(stampLayout) + "." + ext

	if err := moveFile(upload.TempPath, filepath.Join(destDir, name)); err != nil {
		return "", p.fail(ctx, apperror.Describe(apperror.ErrIOFailure, err, "error while uploading the image"))
	}

	logger.FromContext(ctx).Info("upload staged",
		"original_name", upload.OriginalName,
		"filename", name,
		"dest", destDir,
	)
	return name, nil
}
