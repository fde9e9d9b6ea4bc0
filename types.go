package ocrprep

import (
	"fmt"
	"time"
)

// Source identifies either a standalone image file or one page of a
// paginated document, never both. Construct with ImageSource or
// DocumentPageSource; a Source is immutable once built.
type Source struct {
	path      string
	page      int
	paginated bool
}

// ImageSource describes a standalone raster image file.
func ImageSource(path string) (Source, error) {
	if path == "" {
		return Source{}, ErrEmptySourcePath
	}
	return Source{path: path}, nil
}

// DocumentPageSource describes one 0-based page of a paginated document.
func DocumentPageSource(path string, page int) (Source, error) {
	if path == "" {
		return Source{}, ErrEmptySourcePath
	}
	if page < 0 {
		return Source{}, fmt.Errorf("%w: %d", ErrNegativePageIndex, page)
	}
	return Source{path: path, page: page, paginated: true}, nil
}

// Path returns the source file path.
func (s Source) Path() string { return s.path }

// Page returns the 0-based page index; meaningful only for paginated
// sources.
func (s Source) Page() int { return s.page }

// Paginated reports whether the source is a document page.
func (s Source) Paginated() bool { return s.paginated }

// String describes the source for logs and error messages.
func (s Source) String() string {
	if s.paginated {
		return fmt.Sprintf("%s#%d", s.path, s.page)
	}
	return s.path
}

// Result is the outcome of ingesting one source.
//
// Canonical output is an exactly target-sized, opaque, losslessly encoded
// raster. When preprocessing fails for a standalone image, the raw source
// bytes pass through instead with Canonical false and Reason set; consumers
// must branch on Canonical rather than assume fixed geometry.
type Result struct {
	Data      []byte
	Width     int    // pixel width, 0 when unknown (degraded path)
	Height    int    // pixel height, 0 when unknown (degraded path)
	Canonical bool
	Reason    string // why the output is degraded, empty when canonical
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// defaultExportTimeout is used when no timeout is specified for PDF export.
const defaultExportTimeout = 30 * time.Second

// WithExportTimeout sets the PDF export timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithExportTimeout(d time.Duration) RendererOption {
	if d <= 0 {
		panic("ocrprep: WithExportTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithStylesheet overrides the embedded reading stylesheet for rendered
// documents.
func WithStylesheet(css string) RendererOption {
	return func(r *Renderer) {
		r.cfg.css = css
	}
}
