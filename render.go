package ocrprep

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docshape/ocrprep/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.StreamTextPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pdfExporter                   = (*rodExporter)(nil)
)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout time.Duration
	css     string
}

// Renderer converts accumulated model output text into a display-safe HTML
// document with math protection, and optionally exports it to PDF.
//
// The three conversion phases run strictly in sequence: math spans are
// extracted and delimiter-balanced behind placeholders, the remaining text
// goes through the Markdown transform, then the balanced spans are restored
// HTML-escaped. A Renderer is safe for concurrent Render calls; ExportPDF
// serializes on a single browser instance.
type Renderer struct {
	cfg          rendererConfig
	preprocessor pipeline.MarkdownPreprocessor
	converter    pipeline.HTMLConverter
	exporter     pdfExporter
}

// NewRenderer creates a Renderer with default configuration.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		cfg:          rendererConfig{timeout: defaultExportTimeout},
		preprocessor: &pipeline.StreamTextPreprocessor{},
		converter:    pipeline.NewGoldmarkConverter(),
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts raw text to a complete HTML document.
//
// Render is a best-effort display path and never returns partial output: on
// any internal failure the returned document is empty and the error wraps
// ErrRenderFailure. Display callers may ignore the error and show the blank
// result; batch callers can surface it. Empty or whitespace-only input
// yields an empty document and no error.
func (r *Renderer) Render(ctx context.Context, raw string) (doc string, err error) {
	// The whole pipeline degrades rather than propagating a crash.
	defer func() {
		if rec := recover(); rec != nil {
			doc = ""
			err = fmt.Errorf("%w: internal error: %v", ErrRenderFailure, rec)
		}
	}()

	if strings.TrimSpace(raw) == "" {
		return "", nil
	}

	content := r.preprocessor.PreprocessMarkdown(ctx, raw)

	protected, spans := pipeline.ProtectMath(content)

	fragment, err := r.converter.ToHTML(ctx, protected)
	if err != nil {
		// Double %w keeps the cause matchable: callers can still test
		// errors.Is(err, context.Canceled) through the failure wrapper.
		return "", fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}

	restored := pipeline.RestoreMath(fragment, spans)

	doc, err = pipeline.BuildDocument(restored, r.cfg.css)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	return doc, nil
}

// ExportPDF prints an HTML document produced by Render to PDF using
// headless Chrome, waiting for math typesetting to finish first. The
// browser is started lazily on first export.
func (r *Renderer) ExportPDF(ctx context.Context, htmlDoc string) ([]byte, error) {
	if r.exporter == nil {
		r.exporter = newRodExporter(r.cfg.timeout)
	}
	return r.exporter.ExportPDF(ctx, htmlDoc)
}

// Close releases the export browser, if one was started.
func (r *Renderer) Close() error {
	if r.exporter != nil {
		return r.exporter.Close()
	}
	return nil
}
