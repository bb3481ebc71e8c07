package processor

import (
	"errors"

	"github.com/abdul-hamid-achik/qimage/internal/apperror"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Upload describes a file received by the transport layer and parked in
// temporary storage.
type Upload struct {
	OriginalName string `json:"name" validate:"required"`
	TempPath     string `json:"tmp_name" validate:"required"`
}

type ResizeRequest struct {
	Source    string `json:"file" validate:"required"`
	Width     int    `json:"width,omitempty" validate:"required_without=Height,gte=0"`
	Height    int    `json:"height,omitempty" validate:"required_without=Width,gte=0"`
	OutputDir string `json:"output" validate:"required"`
	// Proportional defaults to true when nil.
	Proportional *bool `json:"proportional,omitempty"`
}

func (r *ResizeRequest) IsProportional() bool {
	return r.Proportional == nil || *r.Proportional
}

// Validate checks that the source and at least one dimension are present,
// then that an output directory is named.
func (r *ResizeRequest) Validate() error {
	failed := failedFields(r)
	if failed["Source"] || failed["Width"] || failed["Height"] {
		return apperror.Describe(apperror.ErrMissingParameter, nil, "invalid filename or width/height")
	}
	if failed["OutputDir"] {
		return apperror.Describe(apperror.ErrMissingParameter, nil, "invalid output dir")
	}
	return nil
}

type CropRequest struct {
	Source    string `json:"file" validate:"required"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"w" validate:"gt=0"`
	Height    int    `json:"h" validate:"gt=0"`
	OutputDir string `json:"output" validate:"required"`
}

func (r *CropRequest) Validate() error {
	if len(failedFields(r)) > 0 {
		return apperror.Describe(apperror.ErrMissingParameter, nil, "params missing")
	}
	return nil
}

func (u *Upload) Validate() error {
	if u == nil || len(failedFields(u)) > 0 {
		return apperror.Describe(apperror.ErrMissingParameter, nil, "name or path not found")
	}
	return nil
}

func failedFields(v any) map[string]bool {
	failed := make(map[string]bool)

	err := validate.Struct(v)
	if err == nil {
		return failed
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		failed[""] = true
		return failed
	}
	for _, fe := range verrs {
		failed[fe.StructField()] = true
	}
	return failed
}
