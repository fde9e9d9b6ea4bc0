// Package config holds the processing configuration surface.
//
// Configuration is an explicit immutable value passed into each component
// call rather than ambient process state, so tests can vary it per-call
// without cross-test interference.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"regexp"
	"strconv"

	"github.com/docshape/ocrprep/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound      = errors.New("config file not found")
	ErrConfigParse         = errors.New("failed to parse config")
	ErrInvalidTargetSize   = errors.New("invalid target size")
	ErrInvalidBackground   = errors.New("invalid background color")
	ErrInvalidDPI          = errors.New("invalid rasterization DPI")
	ErrInvalidMaxDimension = errors.New("invalid maximum raster dimension")
	ErrInvalidMinZoom      = errors.New("invalid minimum zoom")
)

// Target size bounds in pixels. The lower bound keeps resampled text from
// degenerating; the upper bound keeps canvas allocation sane.
const (
	MinTargetSize = 64
	MaxTargetSize = 8192
)

// Default values for the processing surface. The canonical dimension and
// DPI match what the downstream fixed-input-size model consumes.
const (
	DefaultTargetSize   = 1024
	DefaultBackground   = "#FFFFFF"
	DefaultDPI          = 144.0
	DefaultMaxDimension = 3000
	DefaultMinZoom      = 0.5
)

// hexColorPattern matches #RGB and #RRGGBB forms.
var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Config holds all configuration for image preparation and rasterization.
type Config struct {
	Target TargetConfig `yaml:"target"`
	Raster RasterConfig `yaml:"raster"`
}

// TargetConfig defines the canonical output canvas.
type TargetConfig struct {
	Size       int    `yaml:"size"`       // square canvas dimension in pixels
	Background string `yaml:"background"` // pad color as #RGB or #RRGGBB
}

// RasterConfig defines document page rasterization parameters.
type RasterConfig struct {
	DPI          float64 `yaml:"dpi"`          // requested render DPI
	MaxDimension int     `yaml:"maxDimension"` // pixel cap on either axis
	MinZoom      float64 `yaml:"minZoom"`      // legibility floor for zoom
}

// DefaultConfig returns the standard processing configuration.
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			Size:       DefaultTargetSize,
			Background: DefaultBackground,
		},
		Raster: RasterConfig{
			DPI:          DefaultDPI,
			MaxDimension: DefaultMaxDimension,
			MinZoom:      DefaultMinZoom,
		},
	}
}

// Validate checks that all values are usable by the pipelines.
func (c *Config) Validate() error {
	if c.Target.Size < MinTargetSize || c.Target.Size > MaxTargetSize {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidTargetSize, c.Target.Size, MinTargetSize, MaxTargetSize)
	}
	if c.Target.Background != "" && !hexColorPattern.MatchString(c.Target.Background) {
		return fmt.Errorf("%w: %q", ErrInvalidBackground, c.Target.Background)
	}
	if c.Raster.DPI <= 0 {
		return fmt.Errorf("%w: %.2f (must be positive)", ErrInvalidDPI, c.Raster.DPI)
	}
	if c.Raster.MaxDimension < 1 {
		return fmt.Errorf("%w: %d (must be at least 1)", ErrInvalidMaxDimension, c.Raster.MaxDimension)
	}
	if c.Raster.MinZoom <= 0 {
		return fmt.Errorf("%w: %.2f (must be positive)", ErrInvalidMinZoom, c.Raster.MinZoom)
	}
	return nil
}

// BackgroundColor returns the parsed pad color. An empty or malformed value
// falls back to opaque white; Validate rejects malformed values up front, so
// the fallback only applies to hand-built configs.
func (c *Config) BackgroundColor() color.RGBA {
	rgba, err := ParseHexColor(c.Target.Background)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return rgba
}

// ParseHexColor parses #RGB or #RRGGBB into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	if !hexColorPattern.MatchString(s) {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidBackground, s)
	}

	hex := s[1:]
	if len(hex) == 3 {
		// Expand shorthand: #abc -> #aabbcc
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidBackground, s)
	}

	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}

// LoadConfig loads configuration from a YAML file, applying defaults for
// omitted fields, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
