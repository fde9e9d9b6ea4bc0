package ocrprep

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"os"

	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/docshape/ocrprep/internal/config"
	"github.com/docshape/ocrprep/internal/geometry"
	"github.com/docshape/ocrprep/internal/raster"
)

// DocumentOpener opens a paginated document. The default uses MuPDF;
// tests inject fakes.
type DocumentOpener func(path string) (raster.Document, error)

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithLogger sets the structured logger for per-source diagnostics.
func WithLogger(logger *slog.Logger) IngestorOption {
	return func(g *Ingestor) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithDocumentOpener overrides the paginated document backend.
func WithDocumentOpener(open DocumentOpener) IngestorOption {
	return func(g *Ingestor) {
		if open != nil {
			g.open = open
		}
	}
}

// Ingestor normalizes heterogeneous sources into the canonical image form:
// a fixed-size, opaque, losslessly encoded square raster.
//
// Each call allocates fresh buffers and shares no state, so a single
// Ingestor is safe for concurrent use across independent sources.
type Ingestor struct {
	cfg    *config.Config
	logger *slog.Logger
	open   DocumentOpener
}

// NewIngestor creates an Ingestor. A nil cfg uses the default processing
// configuration.
func NewIngestor(cfg *config.Config, opts ...IngestorOption) *Ingestor {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	g := &Ingestor{
		cfg:    cfg,
		logger: slog.Default(),
		open: func(path string) (raster.Document, error) {
			return raster.Open(path)
		},
	}

	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Ingest produces the canonical image for src.
//
// Standalone images that fail to decode or preprocess degrade to a raw-byte
// pass-through (Result.Canonical false) rather than dropping the document.
// Document-page failures propagate as typed errors: ErrDocumentUnreadable,
// ErrPageIndexOutOfRange.
func (g *Ingestor) Ingest(ctx context.Context, src Source) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if src.paginated {
		return g.ingestPage(src)
	}
	return g.ingestImage(src)
}

// PageCount reports the number of pages in the document at path, or 0 on
// any failure to open or parse. Callers must treat 0 as unknown/unusable,
// not as a literal empty document.
func (g *Ingestor) PageCount(path string) int {
	doc, err := g.open(path)
	if err != nil {
		g.logger.Warn("page count unavailable", "path", path, "error", err)
		return 0
	}
	defer func() { _ = doc.Close() }()
	return doc.PageCount()
}

func (g *Ingestor) ingestImage(src Source) (*Result, error) {
	data, err := os.ReadFile(src.path) // #nosec G304 -- source path is caller-provided
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src.path, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		g.logger.Warn("decode failed, passing through raw bytes",
			"path", src.path, "error", err)
		return &Result{
			Data:   data,
			Reason: fmt.Sprintf("%v: %v", ErrDecodeFailure, err),
		}, nil
	}
	g.logger.Debug("decoded image", "path", src.path, "format", format)

	result, err := g.finish(img)
	if err != nil {
		g.logger.Warn("preprocessing failed, passing through raw bytes",
			"path", src.path, "error", err)
		return &Result{Data: data, Reason: err.Error()}, nil
	}
	return result, nil
}

func (g *Ingestor) ingestPage(src Source) (*Result, error) {
	doc, err := g.open(src.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = doc.Close() }()

	img, err := raster.Rasterize(doc, src.page,
		g.cfg.Raster.DPI, g.cfg.Raster.MaxDimension, g.cfg.Raster.MinZoom)
	if err != nil {
		return nil, err
	}

	return g.finish(img)
}

// finish flattens, pads, and encodes img into canonical form.
func (g *Ingestor) finish(img image.Image) (*Result, error) {
	size := g.cfg.Target.Size

	padded, err := geometry.Normalize(flattenOpaque(img), size, size, g.cfg.BackgroundColor())
	if err != nil {
		return nil, err
	}

	data, err := geometry.EncodePNG(padded)
	if err != nil {
		return nil, err
	}

	return &Result{
		Data:      data,
		Width:     size,
		Height:    size,
		Canonical: true,
	}, nil
}

// flattenOpaque composites img onto opaque white, reducing any color
// representation to opaque RGB. Transparent regions must never reach the
// model as transparent; they appear white.
func flattenOpaque(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}
