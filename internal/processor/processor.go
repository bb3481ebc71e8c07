package processor

import (
	"context"
	"fmt"
	"path/filepath"
)

// WatermarkMargin is the distance in pixels between the watermark and the
// right and bottom edges of the target image.
const WatermarkMargin = 15

const DefaultJPEGQuality = 100

// Processor is the image component. An instance owns its diagnostic list and
// configuration; give each logical request its own instance.
type Processor interface {
	Copy(ctx context.Context, upload *Upload, destDir string) (string, error)
	Resize(ctx context.Context, req *ResizeRequest) (*Descriptor, error)
	Crop(ctx context.Context, req *CropRequest) (*Descriptor, error)
	Watermark(ctx context.Context, target string) (*Descriptor, error)
	WatermarkTo(ctx context.Context, target, output string) (*Descriptor, error)
	Errors() []string
}

type Config struct {
	// WatermarkPath must reference a PNG file.
	WatermarkPath string `validate:"required"`
	// JPEGQuality is applied to every JPEG encode.
	JPEGQuality int `validate:"gte=0,lte=100"`
}

func DefaultConfig() *Config {
	return &Config{
		WatermarkPath: filepath.Join("img", "watermark.png"),
		JPEGQuality:   DefaultJPEGQuality,
	}
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("processor: invalid configuration: %w", err)
	}
	return nil
}
