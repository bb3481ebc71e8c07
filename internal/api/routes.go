package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/qimage/internal/apperror"
	"github.com/abdul-hamid-achik/qimage/internal/health"
	"github.com/abdul-hamid-achik/qimage/internal/logger"
	"github.com/abdul-hamid-achik/qimage/internal/metrics"
	"github.com/abdul-hamid-achik/qimage/internal/presets"
	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/abdul-hamid-achik/qimage/internal/processor/image"
)

const maxJSONBody = 1 << 20

type Config struct {
	Processor      *processor.Config
	UploadDir      string
	OutputDir      string
	MaxUploadSize  int64
	RateLimit      int
	RateBurst      int
	AllowedOrigins []string
	DevMode        bool
}

// newProcessor returns a fresh component for one request so diagnostics
// never leak between requests.
func (c *Config) newProcessor() processor.Processor {
	return metrics.NewInstrumentedProcessor(image.NewProcessor(c.Processor))
}

func NewRouter(cfg *Config) http.Handler {
	if cfg.Processor == nil {
		cfg.Processor = processor.DefaultConfig()
	}

	mux := http.NewServeMux()

	healthChecker := health.NewChecker().
		WithWatermark(cfg.Processor.WatermarkPath).
		WithDir("upload_dir", cfg.UploadDir).
		WithDir("output_dir", cfg.OutputDir)
	mux.HandleFunc("GET /health", health.HealthHandler(healthChecker))
	mux.HandleFunc("GET /health/live", health.LivenessHandler())
	mux.HandleFunc("GET /health/ready", health.ReadinessHandler(healthChecker))

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("POST /v1/upload", uploadHandler(cfg))
	apiMux.HandleFunc("POST /v1/resize", resizeHandler(cfg))
	apiMux.HandleFunc("POST /v1/crop", cropHandler(cfg))
	apiMux.HandleFunc("POST /v1/watermark", watermarkHandler(cfg))
	apiMux.HandleFunc("GET /v1/presets", presetsHandler())

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = 20
	}
	rateBurst := cfg.RateBurst
	if rateBurst <= 0 {
		rateBurst = 40
	}
	limiter := NewRateLimiter(rateLimit, rateBurst)

	mux.Handle("/v1/", RateLimit(limiter)(CORSWithOrigins(cfg.AllowedOrigins, cfg.DevMode)(apiMux)))

	return mux
}

type imageResponse struct {
	File   string `json:"file"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	MIME   string `json:"mime"`
}

func writeImage(w http.ResponseWriter, desc *processor.Descriptor) {
	writeJSON(w, http.StatusOK, imageResponse{
		File:   filepath.Base(desc.Path),
		Width:  desc.Width,
		Height: desc.Height,
		Format: desc.Format.String(),
		MIME:   desc.MIME,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperror.WrapWithMessage(err, apperror.ErrBadRequest.Code, "Request body must be valid JSON", http.StatusBadRequest)
	}
	return nil
}

func uploadHandler(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		maxSize := cfg.MaxUploadSize
		if maxSize == 0 {
			maxSize = 20 * 1024 * 1024
		}
		tooLarge := func(err error) {
			apperror.WriteJSON(w, r, apperror.WrapWithMessage(err, "file_too_large",
				fmt.Sprintf("Uploads are limited to %d bytes", maxSize), http.StatusRequestEntityTooLarge))
		}
		if r.ContentLength > maxSize {
			tooLarge(nil)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)

		if err := r.ParseMultipartForm(8 << 20); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				tooLarge(err)
				return
			}
			apperror.WriteJSON(w, r, apperror.WrapWithMessage(err, apperror.ErrBadRequest.Code, "Expected a multipart form", http.StatusBadRequest))
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		file, header, err := r.FormFile("file")
		if err != nil {
			apperror.WriteJSON(w, r, apperror.WrapWithMessage(err, "missing_file", "Please select a file to upload", http.StatusBadRequest))
			return
		}
		defer func() { _ = file.Close() }()

		tmpPath, err := spool(file)
		if err != nil {
			apperror.WriteJSON(w, r, apperror.Wrap(err, apperror.ErrIOFailure))
			return
		}
		defer func() { _ = os.Remove(tmpPath) }()

		p := cfg.newProcessor()
		name, err := p.Copy(r.Context(), &processor.Upload{
			OriginalName: SanitizeFilename(header.Filename),
			TempPath:     tmpPath,
		}, cfg.UploadDir)
		if err != nil {
			apperror.WriteJSON(w, r, err, p.Errors()...)
			return
		}

		log.Info("upload stored", "filename", name, "original_filename", header.Filename, "size", header.Size)
		writeJSON(w, http.StatusCreated, map[string]string{"filename": name})
	}
}

// spool copies an upload into a temporary file and returns its path.
func spool(src io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "qimage-*.upload")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

type resizeBody struct {
	File         string `json:"file"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Preset       string `json:"preset"`
	Proportional *bool  `json:"proportional"`
}

func resizeHandler(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body resizeBody
		if err := decodeBody(w, r, &body); err != nil {
			apperror.WriteJSON(w, r, err)
			return
		}

		if body.Preset != "" && body.Width == 0 && body.Height == 0 {
			preset, ok := presets.Get(body.Preset)
			if !ok {
				apperror.WriteJSON(w, r, apperror.WrapWithMessage(nil, "unknown_preset",
					fmt.Sprintf("Unknown preset %q", body.Preset), http.StatusBadRequest))
				return
			}
			body.Width, body.Height = preset.Width, preset.Height
		}

		p := cfg.newProcessor()
		desc, err := p.Resize(r.Context(), &processor.ResizeRequest{
			Source:       resolve(cfg.UploadDir, body.File),
			Width:        body.Width,
			Height:       body.Height,
			OutputDir:    cfg.OutputDir,
			Proportional: body.Proportional,
		})
		if err != nil {
			apperror.WriteJSON(w, r, err, p.Errors()...)
			return
		}
		writeImage(w, desc)
	}
}

type cropBody struct {
	File   string `json:"file"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"w"`
	Height int    `json:"h"`
}

func cropHandler(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cropBody
		if err := decodeBody(w, r, &body); err != nil {
			apperror.WriteJSON(w, r, err)
			return
		}

		p := cfg.newProcessor()
		desc, err := p.Crop(r.Context(), &processor.CropRequest{
			Source:    resolve(cfg.UploadDir, body.File),
			X:         body.X,
			Y:         body.Y,
			Width:     body.Width,
			Height:    body.Height,
			OutputDir: cfg.OutputDir,
		})
		if err != nil {
			apperror.WriteJSON(w, r, err, p.Errors()...)
			return
		}
		writeImage(w, desc)
	}
}

type watermarkBody struct {
	File string `json:"file"`
}

func watermarkHandler(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body watermarkBody
		if err := decodeBody(w, r, &body); err != nil {
			apperror.WriteJSON(w, r, err)
			return
		}

		p := cfg.newProcessor()
		desc, err := p.Watermark(r.Context(), resolve(cfg.UploadDir, body.File))
		if err != nil {
			apperror.WriteJSON(w, r, err, p.Errors()...)
			return
		}
		writeImage(w, desc)
	}
}

type presetResponse struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height,omitempty"`
}

func presetsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := presets.Names()
		out := make([]presetResponse, 0, len(names))
		for _, name := range names {
			p, _ := presets.Get(name)
			out = append(out, presetResponse{Name: name, Width: p.Width, Height: p.Height})
		}
		writeJSON(w, http.StatusOK, map[string]any{"presets": out})
	}
}
