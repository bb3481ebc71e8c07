package metrics

import (
	"context"
	"time"

	"github.com/abdul-hamid-achik/qimage/internal/apperror"
	"github.com/abdul-hamid-achik/qimage/internal/processor"
)

var _ processor.Processor = (*InstrumentedProcessor)(nil)

// InstrumentedProcessor records counts, durations and error codes for every
// operation of the wrapped processor. Results and diagnostics pass through
// unchanged.
type InstrumentedProcessor struct {
	processor.Processor
}

func NewInstrumentedProcessor(p processor.Processor) *InstrumentedProcessor {
	return &InstrumentedProcessor{Processor: p}
}

func (p *InstrumentedProcessor) Copy(ctx context.Context, upload *processor.Upload, destDir string) (string, error) {
	start := time.Now()

	name, err := p.Processor.Copy(ctx, upload, destDir)

	observe("copy", start, err)
	RecordUploadStaged(status(err))
	return name, err
}

func (p *InstrumentedProcessor) Resize(ctx context.Context, req *processor.ResizeRequest) (*processor.Descriptor, error) {
	start := time.Now()

	desc, err := p.Processor.Resize(ctx, req)

	observe("resize", start, err)
	written("resize", desc)
	return desc, err
}

func (p *InstrumentedProcessor) Crop(ctx context.Context, req *processor.CropRequest) (*processor.Descriptor, error) {
	start := time.Now()

	desc, err := p.Processor.Crop(ctx, req)

	observe("crop", start, err)
	written("crop", desc)
	return desc, err
}

func (p *InstrumentedProcessor) Watermark(ctx context.Context, target string) (*processor.Descriptor, error) {
	start := time.Now()

	desc, err := p.Processor.Watermark(ctx, target)

	observe("watermark", start, err)
	written("watermark", desc)
	return desc, err
}

func (p *InstrumentedProcessor) WatermarkTo(ctx context.Context, target, output string) (*processor.Descriptor, error) {
	start := time.Now()

	desc, err := p.Processor.WatermarkTo(ctx, target, output)

	observe("watermark", start, err)
	written("watermark", desc)
	return desc, err
}

func observe(operation string, start time.Time, err error) {
	RecordOperation(operation, status(err), time.Since(start).Seconds())
	if err != nil {
		RecordOperationError(operation, apperror.Code(err))
	}
}

func written(operation string, desc *processor.Descriptor) {
	if desc == nil {
		return
	}
	RecordImageWritten(operation, desc.Format.String(), desc.Width, desc.Height)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
