package ocrprep

import (
	"errors"

	"github.com/docshape/ocrprep/internal/geometry"
	"github.com/docshape/ocrprep/internal/raster"
)

// Sentinel errors for library operations. Geometry and paging sentinels are
// the internal packages' own values re-exported, so errors.Is matches
// wherever the error originated.
var (
	// Geometry and decoding errors.
	ErrInvalidGeometry = geometry.ErrInvalidGeometry
	ErrDecodeFailure   = errors.New("image decode failed")

	// Document paging errors.
	ErrPageIndexOutOfRange = raster.ErrPageIndexOutOfRange
	ErrDocumentUnreadable  = raster.ErrDocumentUnreadable

	// Rendering errors.
	ErrRenderFailure = errors.New("markdown rendering failed")

	// PDF export errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Source descriptor validation errors.
	ErrEmptySourcePath   = errors.New("source path cannot be empty")
	ErrNegativePageIndex = errors.New("page index cannot be negative")
)
