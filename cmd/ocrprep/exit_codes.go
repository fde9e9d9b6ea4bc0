package main

import (
	"errors"
	"os"

	ocrprep "github.com/docshape/ocrprep"
	"github.com/docshape/ocrprep/internal/config"
)

// Exit codes for the ocrprep CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, unreadable input
	ExitBrowser = 4 // Browser/Chrome errors during PDF export
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, ocrprep.ErrBrowserConnect) ||
		errors.Is(err, ocrprep.ErrPageCreate) ||
		errors.Is(err, ocrprep.ErrPageLoad) ||
		errors.Is(err, ocrprep.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ocrprep.ErrDocumentUnreadable) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidTargetSize) ||
		errors.Is(err, config.ErrInvalidBackground) ||
		errors.Is(err, config.ErrInvalidDPI) ||
		errors.Is(err, config.ErrInvalidMaxDimension) ||
		errors.Is(err, config.ErrInvalidMinZoom) ||
		errors.Is(err, ocrprep.ErrEmptySourcePath) ||
		errors.Is(err, ocrprep.ErrNegativePageIndex) ||
		errors.Is(err, ocrprep.ErrPageIndexOutOfRange) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) {
		return ExitUsage
	}

	return ExitGeneral
}
