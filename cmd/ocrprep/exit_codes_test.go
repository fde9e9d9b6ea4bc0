package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	ocrprep "github.com/docshape/ocrprep"
	"github.com/docshape/ocrprep/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "browser connect", err: ocrprep.ErrBrowserConnect, want: ExitBrowser},
		{name: "pdf generation wrapped", err: fmt.Errorf("export: %w", ocrprep.ErrPDFGeneration), want: ExitBrowser},
		{name: "file not found", err: os.ErrNotExist, want: ExitIO},
		{name: "unreadable document", err: ocrprep.ErrDocumentUnreadable, want: ExitIO},
		{name: "no input", err: ErrNoInput, want: ExitIO},
		{name: "write failure", err: fmt.Errorf("%w: disk full", ErrWriteOutput), want: ExitIO},
		{name: "config not found", err: config.ErrConfigNotFound, want: ExitUsage},
		{name: "bad target size", err: fmt.Errorf("%w: 10", config.ErrInvalidTargetSize), want: ExitUsage},
		{name: "bad worker count", err: ErrInvalidWorkerCount, want: ExitUsage},
		{name: "bad page index", err: ocrprep.ErrPageIndexOutOfRange, want: ExitUsage},
		{name: "unexpected", err: errors.New("boom"), want: ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
