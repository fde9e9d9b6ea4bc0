// Package raster converts single pages of paginated documents into raster
// images at an adaptively chosen zoom factor with bounded pixel dimensions.
package raster

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// baseDPI is the units-per-inch reference of the page coordinate space.
const baseDPI = 72.0

// Sentinel errors for rasterization.
var (
	ErrPageIndexOutOfRange = errors.New("page index out of range")
	ErrDocumentUnreadable  = errors.New("document cannot be opened or parsed")
)

// Document is the paging backend contract: page count, page geometry in the
// 72-units-per-inch coordinate space, and uniform-zoom rendering.
type Document interface {
	PageCount() int
	PageSize(index int) (width, height float64, err error)
	RenderPage(index int, zoom float64) (image.Image, error)
	Close() error
}

// Zoom computes the uniform zoom factor for a page.
//
// The base zoom follows the requested DPI. If that would push either pixel
// dimension past maxDimension, the zoom is recomputed from the longer page
// axis to cap absolute pixel size regardless of requested DPI, bounding
// memory and render time. The result is then clamped to minZoom: the
// legibility floor wins over the dimension cap, so a page with one dimension
// far larger than the other may still exceed the cap on its short axis.
func Zoom(pageW, pageH, targetDPI float64, maxDimension int, minZoom float64) float64 {
	zoom := targetDPI / baseDPI

	longest := math.Max(pageW, pageH)
	if longest > 0 && (pageW*zoom > float64(maxDimension) || pageH*zoom > float64(maxDimension)) {
		zoom = float64(maxDimension) / longest
	}

	if zoom < minZoom {
		zoom = minZoom
	}
	return zoom
}

// Rasterize renders page pageIndex of doc. pageIndex is 0-based and must be
// within [0, PageCount); out-of-range indexes fail rather than clamp.
func Rasterize(doc Document, pageIndex int, targetDPI float64, maxDimension int, minZoom float64) (image.Image, error) {
	count := doc.PageCount()
	if pageIndex < 0 || pageIndex >= count {
		return nil, fmt.Errorf("%w: page %d, document has %d", ErrPageIndexOutOfRange, pageIndex, count)
	}

	pageW, pageH, err := doc.PageSize(pageIndex)
	if err != nil {
		return nil, fmt.Errorf("reading page %d bounds: %w", pageIndex, err)
	}

	zoom := Zoom(pageW, pageH, targetDPI, maxDimension, minZoom)

	img, err := doc.RenderPage(pageIndex, zoom)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d at %.2fx: %w", pageIndex, zoom, err)
	}
	return img, nil
}
