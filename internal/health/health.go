package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/qimage/internal/metrics"
	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/abdul-hamid-achik/qimage/internal/processor/image"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

type ComponentHealth struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Latency int64  `json:"latency_ms"`
	Error   string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status       Status            `json:"status"`
	Components   []ComponentHealth `json:"components,omitempty"`
	LatencyP95Ms int64             `json:"latency_p95_ms"`
	Timestamp    time.Time         `json:"timestamp"`
}

type check struct {
	name string
	fn   func(ctx context.Context) error
}

// Checker verifies that the files and directories the image component
// depends on are usable.
type Checker struct {
	checks []check
}

func NewChecker() *Checker {
	return &Checker{}
}

// WithWatermark checks that path is a PNG image on disk.
func (c *Checker) WithWatermark(path string) *Checker {
	c.checks = append(c.checks, check{name: "watermark", fn: func(context.Context) error {
		desc, err := processor.Probe(path)
		if err != nil {
			return err
		}
		if desc.Format != processor.FormatPNG {
			return fmt.Errorf("watermark %s is %s, want png", path, desc.Format)
		}
		return nil
	}})
	return c
}

// WithDir checks that dir is a writable directory.
func (c *Checker) WithDir(name, dir string) *Checker {
	c.checks = append(c.checks, check{name: name, fn: func(context.Context) error {
		if !image.WritableDir(dir) {
			return fmt.Errorf("%s is not a writable directory", dir)
		}
		return nil
	}})
	return c
}

func (c *Checker) CheckAll(ctx context.Context) HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	components := make([]ComponentHealth, len(c.checks))

	var wg sync.WaitGroup
	for i, chk := range c.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			components[i] = run(ctx, chk)
		}()
	}
	wg.Wait()

	status := StatusHealthy
	for _, comp := range components {
		if comp.Status == StatusUnhealthy {
			status = StatusUnhealthy
			break
		}
	}

	return HealthResponse{
		Status:       status,
		Components:   components,
		LatencyP95Ms: metrics.GetLatencyP95(),
		Timestamp:    time.Now(),
	}
}

func run(ctx context.Context, chk check) ComponentHealth {
	start := time.Now()
	err := chk.fn(ctx)
	if err == nil {
		err = ctx.Err()
	}
	latency := time.Since(start).Milliseconds()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("check timed out")
		}
		return ComponentHealth{
			Name:    chk.name,
			Status:  StatusUnhealthy,
			Latency: latency,
			Error:   err.Error(),
		}
	}
	return ComponentHealth{
		Name:    chk.name,
		Status:  StatusHealthy,
		Latency: latency,
	}
}

func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}
}

func ReadinessHandler(checker *Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := checker.CheckAll(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if resp.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func HealthHandler(checker *Checker) http.HandlerFunc {
	return ReadinessHandler(checker)
}
