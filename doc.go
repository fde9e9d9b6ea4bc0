// Package ocrprep prepares document sources for a fixed-input-size vision
// model and renders the model's Markdown output into display-safe HTML.
//
// # Image Preparation
//
// An Ingestor normalizes raster images and rasterized document pages into
// the canonical form the model consumes: a fixed-size square, opaque RGB,
// losslessly encoded.
//
//	ing := ocrprep.NewIngestor(nil)
//
//	src, err := ocrprep.DocumentPageSource("scan.pdf", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := ing.Ingest(ctx, src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !res.Canonical {
//	    log.Printf("degraded output: %s", res.Reason)
//	}
//	os.WriteFile("page-0.png", res.Data, 0644)
//
// Standalone images that fail to decode degrade to a raw-byte pass-through
// with Result.Canonical false; consumers must branch on Canonical instead
// of assuming fixed geometry. Document-page failures return typed errors
// (ErrDocumentUnreadable, ErrPageIndexOutOfRange).
//
// # Output Rendering
//
// A Renderer converts accumulated model output (Markdown with embedded
// LaTeX) into a complete HTML document. Math spans are extracted, their
// \left/\right delimiters balanced, and the spans shielded from the
// Markdown transform behind positional placeholders, then restored
// HTML-escaped. The document shell configures MathJax with exactly the
// delimiters the extraction recognizes.
//
//	r := ocrprep.NewRenderer()
//	defer r.Close()
//
//	doc, err := r.Render(ctx, rawText)
//	if err != nil {
//	    log.Printf("degraded to blank document: %v", err)
//	}
//
// Render is a best-effort display path: it never returns partial output,
// degrading to an empty document on internal failure.
//
// # PDF Export
//
// Renderer.ExportPDF prints a rendered document to PDF with headless
// Chrome via go-rod, waiting for math typesetting to complete. The browser
// is downloaded automatically on first use; set ROD_BROWSER_BIN to use a
// pre-installed binary. For batch export, RendererPool manages multiple
// browser instances.
package ocrprep
