package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ocrprep "github.com/docshape/ocrprep"
)

func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{Stdout: &stdout, Stderr: &stderr}, &stdout, &stderr
}

// writePNG drops a small valid PNG at dir/name and returns its path.
func writePNG(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flag  int
		tasks int
		want  int
	}{
		{name: "explicit", flag: 4, tasks: 10, want: 4},
		{name: "capped by tasks", flag: 8, tasks: 2, want: 2},
		{name: "never below one", flag: 1, tasks: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveWorkers(tt.flag, tt.tasks); got != tt.want {
				t.Errorf("resolveWorkers(%d, %d) = %d, want %d", tt.flag, tt.tasks, got, tt.want)
			}
		})
	}

	t.Run("auto stays within tasks", func(t *testing.T) {
		t.Parallel()

		if got := resolveWorkers(0, 3); got < 1 || got > 3 {
			t.Errorf("resolveWorkers(0, 3) = %d, want within [1, 3]", got)
		}
	})
}

func TestSupportedFile(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]bool{
		"scan.png":   true,
		"scan.JPG":   true,
		"scan.tiff":  true,
		"doc.pdf":    true,
		"notes.md":   false,
		"archive.gz": false,
	} {
		if got := supportedFile(path); got != want {
			t.Errorf("supportedFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestRunConvertSingleImage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writePNG(t, dir, "scan.png")
	outDir := filepath.Join(dir, "out")

	env, stdout, _ := testEnv()
	flags := &convertFlags{output: outDir, size: 64}

	if err := runConvert(context.Background(), []string{input}, flags, env); err != nil {
		t.Fatalf("runConvert() unexpected error: %v", err)
	}

	outPath := filepath.Join(outDir, "scan.png")
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("output %dx%d, want 64x64", b.Dx(), b.Dy())
	}
	if !strings.Contains(stdout.String(), outPath) {
		t.Errorf("stdout %q missing created path", stdout.String())
	}
}

func TestRunConvertDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "a.png")
	writePNG(t, dir, "b.png")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "out")

	env, stdout, _ := testEnv()
	flags := &convertFlags{output: outDir, size: 64, workers: 2}

	if err := runConvert(context.Background(), []string{dir}, flags, env); err != nil {
		t.Fatalf("runConvert() unexpected error: %v", err)
	}

	for _, name := range []string{"a.png", "b.png"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
	if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
		t.Errorf("stdout %q missing summary", stdout.String())
	}
}

func TestRunConvertDegradedInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(input, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "out")

	env, _, stderr := testEnv()
	flags := &convertFlags{output: outDir, size: 64}

	if err := runConvert(context.Background(), []string{input}, flags, env); err != nil {
		t.Fatalf("runConvert() unexpected error: %v", err)
	}

	// Raw bytes pass through under a -raw suffix with the original extension.
	data, err := os.ReadFile(filepath.Join(outDir, "broken-raw.png"))
	if err != nil {
		t.Fatalf("degraded output not written: %v", err)
	}
	if string(data) != "not an image" {
		t.Error("degraded output does not carry the original bytes")
	}
	if !strings.Contains(stderr.String(), "DEGRADED") {
		t.Errorf("stderr %q missing degraded notice", stderr.String())
	}
}

func TestRunConvertErrors(t *testing.T) {
	t.Parallel()

	t.Run("no input", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		err := runConvert(context.Background(), nil, &convertFlags{}, env)
		if !errors.Is(err, ErrNoInput) {
			t.Errorf("runConvert() error = %v, want ErrNoInput", err)
		}
	})

	t.Run("negative workers", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		err := runConvert(context.Background(), []string{"x.png"}, &convertFlags{workers: -1}, env)
		if !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("runConvert() error = %v, want ErrInvalidWorkerCount", err)
		}
	})

	t.Run("missing input path", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		err := runConvert(context.Background(), []string{filepath.Join(t.TempDir(), "nope.png")}, &convertFlags{}, env)
		if !errors.Is(err, ErrReadInput) {
			t.Errorf("runConvert() error = %v, want ErrReadInput", err)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		err := runConvert(context.Background(), []string{t.TempDir()}, &convertFlags{}, env)
		if !errors.Is(err, ErrNoInput) {
			t.Errorf("runConvert() error = %v, want ErrNoInput", err)
		}
	})

	t.Run("invalid size flag", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		err := runConvert(context.Background(), []string{"x.png"}, &convertFlags{size: 7}, env)
		if err == nil {
			t.Fatal("runConvert() expected validation error")
		}
		if exitCodeFor(err) != ExitUsage {
			t.Errorf("exitCodeFor(%v) = %d, want ExitUsage", err, exitCodeFor(err))
		}
	})
}

func TestExpandFileImage(t *testing.T) {
	t.Parallel()

	ingestor := ocrprep.NewIngestor(nil)
	tasks, err := expandFile(filepath.Join("scans", "page.jpg"), "out", ingestor)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expandFile() returned %d tasks, want 1", len(tasks))
	}
	if want := filepath.Join("out", "page.png"); tasks[0].OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", tasks[0].OutputPath, want)
	}
	if tasks[0].Source.Paginated() {
		t.Error("image task marked paginated")
	}
}

func TestExpandFileDefaultsToInputDir(t *testing.T) {
	t.Parallel()

	ingestor := ocrprep.NewIngestor(nil)
	tasks, err := expandFile(filepath.Join("scans", "page.jpg"), "", ingestor)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("scans", "page.png"); tasks[0].OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", tasks[0].OutputPath, want)
	}
}
