package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/abdul-hamid-achik/qimage/internal/presets"
	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	WatermarkPath string            `yaml:"watermark" default:"img/watermark.png"`
	JPEGQuality   int               `yaml:"jpeg_quality" default:"100"`
	OutputDir     string            `yaml:"output_dir" default:"."`
	LogLevel      string            `yaml:"log_level" default:"error"`
	Presets       map[string]Preset `yaml:"presets,omitempty"`
}

// Preset is a user-defined resize size. Exact allows sizes larger than the
// source image.
type Preset struct {
	Width  int  `yaml:"width,omitempty"`
	Height int  `yaml:"height,omitempty"`
	Exact  bool `yaml:"exact,omitempty"`
}

const (
	// Environment variable names for configuration overrides
	EnvWatermark   = "QIMAGE_WATERMARK"
	EnvJPEGQuality = "QIMAGE_JPEG_QUALITY"
	EnvOutputDir   = "QIMAGE_OUTPUT_DIR"
)

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qimage"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("config: apply defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, cfg.applyEnv()
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment variables take precedence over the config file.
func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvWatermark); v != "" {
		c.WatermarkPath = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvJPEGQuality); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s must be an integer: %w", EnvJPEGQuality, err)
		}
		c.JPEGQuality = q
	}
	return nil
}

func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

func (c *Config) Processor() *processor.Config {
	return &processor.Config{
		WatermarkPath: c.WatermarkPath,
		JPEGQuality:   c.JPEGQuality,
	}
}

func (c *Config) Validate() error {
	return c.Processor().Validate()
}

// GetPreset looks up user presets first, then the built-in sizes. The
// returned proportional flag is false for user presets marked exact.
func (c *Config) GetPreset(name string) (presets.Preset, bool, bool) {
	if p, ok := c.Presets[name]; ok {
		return presets.Preset{Width: p.Width, Height: p.Height}, !p.Exact, true
	}
	if p, ok := presets.Get(name); ok {
		return p, true, true
	}
	return presets.Preset{}, true, false
}
