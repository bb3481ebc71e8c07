package processor

import (
	"strings"

	"github.com/abdul-hamid-achik/qimage/internal/apperror"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatGIF
	FormatPNG
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatGIF:
		return "gif"
	case FormatPNG:
		return "png"
	default:
		return "unknown"
	}
}

func (f Format) MIME() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatGIF:
		return "image/gif"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ParseMIME maps a probed MIME type onto a supported format. Animated PNG
// is read as PNG; only its first frame decodes.
func ParseMIME(mime string) (Format, error) {
	if idx := strings.Index(mime, ";"); idx != -1 {
		mime = mime[:idx]
	}
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/pjpeg":
		return FormatJPEG, nil
	case "image/gif":
		return FormatGIF, nil
	case "image/png", "image/vnd.mozilla.apng":
		return FormatPNG, nil
	default:
		return FormatUnknown, apperror.Describe(apperror.ErrUnsupportedFormat, nil, "unsupported image type %q", mime)
	}
}

// Extension returns the text after the last dot of name, or name itself when
// it has no dot.
func Extension(name string) string {
	if idx := strings.LastIndex(name, "."); idx != -1 {
		return name[idx+1:]
	}
	return name
}

// ValidExtension reports whether name ends in jpeg, jpg, png or gif, in any
// case. The file content is never inspected; use Probe for that.
func ValidExtension(name string) bool {
	switch strings.ToLower(Extension(name)) {
	case "jpeg", "jpg", "png", "gif":
		return true
	default:
		return false
	}
}
