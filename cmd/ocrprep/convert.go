package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	ocrprep "github.com/docshape/ocrprep"
	"github.com/docshape/ocrprep/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read input file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// supportedImageExts lists standalone image extensions the ingest path
// can decode (matching the registered decoders).
var supportedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// ingestTask is one source to normalize plus where its output goes.
type ingestTask struct {
	Source     ocrprep.Source
	OutputPath string
}

// ingestOutcome holds the result of processing a single task.
type ingestOutcome struct {
	Source     ocrprep.Source
	OutputPath string
	Degraded   bool
	Reason     string
	Err        error
	Duration   time.Duration
}

// runConvert normalizes every discovered image and document page into
// canonical PNG files.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if flags.workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, flags.workers)
	}
	if len(positionalArgs) == 0 {
		return ErrNoInput
	}

	cfg, err := loadConvertConfig(flags)
	if err != nil {
		return err
	}

	ingestor := ocrprep.NewIngestor(cfg)

	tasks, err := discoverTasks(positionalArgs, flags.output, ingestor)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return fmt.Errorf("%w: no supported files under %s", ErrNoInput, strings.Join(positionalArgs, ", "))
	}

	results := ingestBatch(ctx, ingestor, tasks, resolveWorkers(flags.workers, len(tasks)))

	failed := printOutcomes(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}

// loadConvertConfig builds the processing config from file and flag
// overrides. Flags win over the config file.
func loadConvertConfig(flags *convertFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.common.config != "" {
		loaded, err := config.LoadConfig(flags.common.config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if flags.size > 0 {
		cfg.Target.Size = flags.size
	}
	if flags.dpi > 0 {
		cfg.Raster.DPI = flags.dpi
	}
	if flags.background != "" {
		cfg.Target.Background = flags.background
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// discoverTasks expands the positional arguments into per-page ingest
// tasks. Directories are walked; documents expand to one task per page.
func discoverTasks(inputs []string, outputDir string, ingestor *ocrprep.Ingestor) ([]ingestTask, error) {
	var tasks []ingestTask

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
		}

		if !info.IsDir() {
			expanded, err := expandFile(input, outputDir, ingestor)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, expanded...)
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !supportedFile(path) {
				return nil
			}
			expanded, err := expandFile(path, outputDir, ingestor)
			if err != nil {
				return err
			}
			tasks = append(tasks, expanded...)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", input, err)
		}
	}

	return tasks, nil
}

func supportedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".pdf" || supportedImageExts[ext]
}

// expandFile turns one file into its ingest tasks: a single task for an
// image, one per page for a document.
func expandFile(path, outputDir string, ingestor *ocrprep.Ingestor) ([]ingestTask, error) {
	ext := strings.ToLower(filepath.Ext(path))
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(path)
	}

	if ext != ".pdf" {
		src, err := ocrprep.ImageSource(path)
		if err != nil {
			return nil, err
		}
		return []ingestTask{{
			Source:     src,
			OutputPath: filepath.Join(dir, stem+".png"),
		}}, nil
	}

	pages := ingestor.PageCount(path)
	if pages == 0 {
		return nil, fmt.Errorf("%w: %s", ocrprep.ErrDocumentUnreadable, path)
	}

	tasks := make([]ingestTask, 0, pages)
	for p := 0; p < pages; p++ {
		src, err := ocrprep.DocumentPageSource(path, p)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, ingestTask{
			Source:     src,
			OutputPath: filepath.Join(dir, fmt.Sprintf("%s-page-%d.png", stem, p+1)),
		})
	}
	return tasks, nil
}

// resolveWorkers picks the worker count: explicit flag, else the available
// parallelism (GOMAXPROCS respects container CPU quotas), never more than
// there are tasks.
func resolveWorkers(flagWorkers, taskCount int) int {
	n := flagWorkers
	if n == 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > taskCount {
		n = taskCount
	}
	if n < 1 {
		n = 1
	}
	return n
}

// ingestBatch processes tasks concurrently. A single Ingestor is shared;
// it holds no per-call state.
func ingestBatch(ctx context.Context, ingestor *ocrprep.Ingestor, tasks []ingestTask, workers int) []ingestOutcome {
	results := make([]ingestOutcome, len(tasks))
	jobs := make(chan int, len(tasks))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ingestOutcome{
						Source: tasks[idx].Source,
						Err:    ctx.Err(),
					}
					continue
				}
				results[idx] = ingestOne(ctx, ingestor, tasks[idx])
			}
		}()
	}

	for i := range tasks {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// ingestOne processes a single task and writes its output file.
func ingestOne(ctx context.Context, ingestor *ocrprep.Ingestor, task ingestTask) ingestOutcome {
	start := time.Now()
	outcome := ingestOutcome{
		Source:     task.Source,
		OutputPath: task.OutputPath,
	}

	result, err := ingestor.Ingest(ctx, task.Source)
	if err != nil {
		outcome.Err = err
		outcome.Duration = time.Since(start)
		return outcome
	}

	if !result.Canonical {
		// Raw pass-through keeps the original bytes and extension so the
		// consumer still receives something usable.
		outcome.Degraded = true
		outcome.Reason = result.Reason
		ext := filepath.Ext(task.Source.Path())
		base := strings.TrimSuffix(task.OutputPath, ".png")
		outcome.OutputPath = base + "-raw" + ext
	}

	if err := os.MkdirAll(filepath.Dir(outcome.OutputPath), dirPermissions); err != nil {
		outcome.Err = fmt.Errorf("creating output directory: %w", err)
		outcome.Duration = time.Since(start)
		return outcome
	}

	// #nosec G306 -- output images are meant to be readable
	if err := os.WriteFile(outcome.OutputPath, result.Data, filePermissions); err != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	outcome.Duration = time.Since(start)
	return outcome
}

// printOutcomes reports results and returns the number of failures.
func printOutcomes(results []ingestOutcome, quiet, verbose bool, env *Environment) int {
	var failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Source, r.Err)
			continue
		}

		if r.Degraded {
			fmt.Fprintf(env.Stderr, "DEGRADED %s: %s\n", r.Source, r.Reason)
		}

		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.Source, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return failed
}
