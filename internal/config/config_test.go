package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
	if cfg.Target.Size != 1024 {
		t.Errorf("Target.Size = %d, want 1024", cfg.Target.Size)
	}
	if cfg.Raster.DPI != 144 {
		t.Errorf("Raster.DPI = %v, want 144", cfg.Raster.DPI)
	}
	if cfg.Raster.MaxDimension != 3000 {
		t.Errorf("Raster.MaxDimension = %d, want 3000", cfg.Raster.MaxDimension)
	}
	if cfg.Raster.MinZoom != 0.5 {
		t.Errorf("Raster.MinZoom = %v, want 0.5", cfg.Raster.MinZoom)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "target size too small",
			mutate:  func(c *Config) { c.Target.Size = 32 },
			wantErr: ErrInvalidTargetSize,
		},
		{
			name:    "target size too large",
			mutate:  func(c *Config) { c.Target.Size = 10000 },
			wantErr: ErrInvalidTargetSize,
		},
		{
			name:    "malformed background",
			mutate:  func(c *Config) { c.Target.Background = "white" },
			wantErr: ErrInvalidBackground,
		},
		{
			name:   "empty background allowed",
			mutate: func(c *Config) { c.Target.Background = "" },
		},
		{
			name:    "zero DPI",
			mutate:  func(c *Config) { c.Raster.DPI = 0 },
			wantErr: ErrInvalidDPI,
		},
		{
			name:    "negative max dimension",
			mutate:  func(c *Config) { c.Raster.MaxDimension = -1 },
			wantErr: ErrInvalidMaxDimension,
		},
		{
			name:    "zero min zoom",
			mutate:  func(c *Config) { c.Raster.MinZoom = 0 },
			wantErr: ErrInvalidMinZoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{name: "white", in: "#FFFFFF", want: color.RGBA{255, 255, 255, 255}},
		{name: "black", in: "#000000", want: color.RGBA{0, 0, 0, 255}},
		{name: "shorthand", in: "#f0a", want: color.RGBA{255, 0, 170, 255}},
		{name: "mixed case", in: "#AbCdEf", want: color.RGBA{0xAB, 0xCD, 0xEF, 255}},
		{name: "missing hash", in: "FFFFFF", wantErr: true},
		{name: "named color", in: "white", wantErr: true},
		{name: "too short", in: "#FF", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBackground) {
					t.Fatalf("ParseHexColor(%q) error = %v, want ErrInvalidBackground", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBackgroundColorFallback(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Target.Background = ""
	want := color.RGBA{255, 255, 255, 255}
	if got := cfg.BackgroundColor(); got != want {
		t.Errorf("BackgroundColor() = %v, want white fallback %v", got, want)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "ocrprep.yaml")
		content := "raster:\n  dpi: 300\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() unexpected error: %v", err)
		}
		if cfg.Raster.DPI != 300 {
			t.Errorf("Raster.DPI = %v, want 300", cfg.Raster.DPI)
		}
		if cfg.Target.Size != DefaultTargetSize {
			t.Errorf("Target.Size = %d, want default %d", cfg.Target.Size, DefaultTargetSize)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("bogus: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadConfig() = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "invalid.yaml")
		if err := os.WriteFile(path, []byte("target:\n  size: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidTargetSize) {
			t.Errorf("LoadConfig() = %v, want ErrInvalidTargetSize", err)
		}
	})
}
