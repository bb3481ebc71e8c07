package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/abdul-hamid-achik/qimage/internal/apperror"
	"github.com/disintegration/imaging"
)

// Codec decodes and encodes one raster format. Quality is only honoured by
// the JPEG encoder.
type Codec struct {
	Format Format
	Decode func(r io.Reader) (image.Image, error)
	Encode func(w io.Writer, img image.Image, quality int) error
}

func (f Format) Codec() (Codec, error) {
	switch f {
	case FormatJPEG:
		return Codec{
			Format: f,
			Decode: jpeg.Decode,
			Encode: func(w io.Writer, img image.Image, quality int) error {
				return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
			},
		}, nil
	case FormatGIF:
		return Codec{
			Format: f,
			Decode: gif.Decode,
			Encode: func(w io.Writer, img image.Image, _ int) error {
				return imaging.Encode(w, img, imaging.GIF)
			},
		}, nil
	case FormatPNG:
		return Codec{
			Format: f,
			Decode: png.Decode,
			Encode: func(w io.Writer, img image.Image, _ int) error {
				return imaging.Encode(w, img, imaging.PNG)
			},
		}, nil
	default:
		return Codec{}, apperror.Describe(apperror.ErrCodecFailure, nil, "no codec for format %s", f)
	}
}

func CodecForMIME(mime string) (Codec, error) {
	f, err := ParseMIME(mime)
	if err != nil {
		return Codec{}, err
	}
	return f.Codec()
}

// DecodeFile reads and decodes the whole file at path.
func (c Codec) DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperror.Describe(apperror.ErrIOFailure, err, "failed to open %s", path)
	}
	defer func() { _ = f.Close() }()

	img, err := c.Decode(f)
	if err != nil {
		return nil, apperror.Describe(apperror.ErrCodecFailure, err, "failed to decode %s image", c.Format)
	}
	return img, nil
}

// EncodeFile encodes img in memory and writes it to path in one step, so a
// failed encode never leaves a truncated file behind.
func (c Codec) EncodeFile(path string, img image.Image, quality int) error {
	buf, err := c.EncodeBytes(img, quality)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return apperror.Describe(apperror.ErrIOFailure, err, "failed to write %s", path)
	}
	return nil
}

func (c Codec) EncodeBytes(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf, img, quality); err != nil {
		return nil, apperror.Describe(apperror.ErrCodecFailure, err, "failed to encode %s image", c.Format)
	}
	return buf.Bytes(), nil
}

func (c Codec) String() string {
	return fmt.Sprintf("codec(%s)", c.Format)
}
