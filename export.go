package ocrprep

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/docshape/ocrprep/internal/fileutil"
)

// pdfExporter abstracts HTML to PDF export to allow a fake in tests.
type pdfExporter interface {
	ExportPDF(ctx context.Context, htmlContent string) ([]byte, error)
	Close() error
}

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// mathTypesetScript resolves once MathJax has finished typesetting, or
// immediately when the document carries no math engine.
const mathTypesetScript = `() => window.MathJax && MathJax.startup ? MathJax.startup.promise : true`

// rodExporter prints HTML documents to PDF using headless Chrome via
// go-rod. Rod automatically downloads Chromium on first run if not found.
type rodExporter struct {
	browser *rod.Browser
	timeout time.Duration
}

// newRodExporter creates a rodExporter with the given timeout.
func newRodExporter(timeout time.Duration) *rodExporter {
	return &rodExporter{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (e *rodExporter) ensureBrowser() error {
	if e.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	e.browser = rod.New().ControlURL(u)
	if err := e.browser.Connect(); err != nil {
		e.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (e *rodExporter) Close() error {
	if e.browser != nil {
		err := e.browser.Close()
		e.browser = nil
		return err
	}
	return nil
}

// ExportPDF writes htmlContent to a temp file, loads it in headless Chrome,
// waits for math typesetting to finish, and prints it to PDF.
func (e *rodExporter) ExportPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := e.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := e.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Wait for page to load with timeout from context or default
	timeout := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// MathJax typesets asynchronously after load; exporting before its
	// startup promise settles produces raw TeX in the PDF.
	if _, err := page.Timeout(timeout).Eval(mathTypesetScript); err != nil {
		return nil, fmt.Errorf("%w: waiting for math typeset: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
