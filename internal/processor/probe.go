package processor

import (
	"image"
	"os"

	"github.com/abdul-hamid-achik/qimage/internal/apperror"
	"github.com/gabriel-vasile/mimetype"
)

// Descriptor describes an image file as found on disk.
type Descriptor struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format Format `json:"format"`
	MIME   string `json:"mime"`
}

// Probe sniffs the content type of the file at path and reads its
// dimensions from the header. Only JPEG, GIF and PNG are accepted.
func Probe(path string) (*Descriptor, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, apperror.Describe(apperror.ErrIOFailure, err, "failed to read %s", path)
	}

	format, err := ParseMIME(mtype.String())
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperror.Describe(apperror.ErrIOFailure, err, "failed to open %s", path)
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, apperror.Describe(apperror.ErrCodecFailure, err, "failed to read %s header", format)
	}

	return &Descriptor{
		Path:   path,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
		MIME:   format.MIME(),
	}, nil
}
