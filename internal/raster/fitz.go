package raster

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// FitzDocument adapts a MuPDF document to the Document contract.
type FitzDocument struct {
	doc *fitz.Document
}

// Compile-time interface check.
var _ Document = (*FitzDocument)(nil)

// Open opens the paginated document at path.
func Open(path string) (*FitzDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	return &FitzDocument{doc: doc}, nil
}

// PageCount returns the number of pages.
func (d *FitzDocument) PageCount() int {
	return d.doc.NumPage()
}

// PageSize returns the page rectangle in the 72-units-per-inch space.
func (d *FitzDocument) PageSize(index int) (float64, float64, error) {
	bound, err := d.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(bound.Dx()), float64(bound.Dy()), nil
}

// RenderPage renders the page with the same zoom on both axes and no alpha
// channel.
func (d *FitzDocument) RenderPage(index int, zoom float64) (image.Image, error) {
	return d.doc.ImageDPI(index, zoom*baseDPI)
}

// Close releases the underlying MuPDF document.
func (d *FitzDocument) Close() error {
	return d.doc.Close()
}
