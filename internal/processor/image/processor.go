package image

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/abdul-hamid-achik/qimage/internal/apperror"
	"github.com/abdul-hamid-achik/qimage/internal/logger"
	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/abdul-hamid-achik/qimage/internal/tracing"
	"github.com/google/uuid"
)

var _ processor.Processor = (*Processor)(nil)

// Processor stages uploads and resizes, crops and watermarks image files.
// Every failure is appended to the instance's diagnostic list, which lives
// as long as the instance. A Processor is not safe for concurrent use.
type Processor struct {
	config *processor.Config
	errs   processor.ErrorList

	now   func() time.Time
	token func() string
}

func NewProcessor(cfg *processor.Config) *Processor {
	if cfg == nil {
		cfg = processor.DefaultConfig()
	}
	return &Processor{
		config: cfg,
		now:    time.Now,
		token:  newToken,
	}
}

// Errors returns the diagnostics recorded so far, oldest first.
func (p *Processor) Errors() []string {
	return p.errs.Messages()
}

func (p *Processor) fail(ctx context.Context, err error) error {
	p.errs.Append(err)
	logger.FromContext(ctx).Warn("image operation failed",
		"code", apperror.Code(err),
		"error", err.Error(),
	)
	tracing.RecordError(ctx, err)
	return err
}

// probe wraps processor.Probe so an unsupported content type reports the
// same message as a rejected extension.
func probe(path string) (*processor.Descriptor, error) {
	desc, err := processor.Probe(path)
	if apperror.Is(err, apperror.ErrUnsupportedFormat) {
		return nil, apperror.Describe(apperror.ErrUnsupportedFormat, err, msgInvalidType)
	}
	return desc, err
}

func newToken() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

const (
	msgInvalidFile   = "invalid file"
	msgInvalidType   = "invalid file type"
	msgInvalidOutput = "invalid output dir"
)
