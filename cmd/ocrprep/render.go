package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ocrprep "github.com/docshape/ocrprep"
)

// runRender converts accumulated recognition text (Markdown with LaTeX
// spans) into display-safe HTML documents, optionally printed to PDF.
// Multiple inputs render in parallel across a renderer pool.
func runRender(ctx context.Context, positionalArgs []string, flags *renderFlags, env *Environment) error {
	if flags.workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, flags.workers)
	}

	opts, err := renderOptions(flags)
	if err != nil {
		return err
	}

	if len(positionalArgs) > 1 {
		return renderBatch(ctx, positionalArgs, flags, opts, env)
	}

	raw, inputName, err := readRenderInput(positionalArgs, env)
	if err != nil {
		return err
	}

	renderer := ocrprep.NewRenderer(opts...)
	defer func() { _ = renderer.Close() }()

	doc, err := renderer.Render(ctx, raw)
	if err != nil {
		return err
	}

	if !flags.pdf {
		return writeRenderOutput(doc, flags.output, env)
	}

	pdf, err := renderer.ExportPDF(ctx, doc)
	if err != nil {
		return err
	}

	outPath := flags.output
	if outPath == "" {
		outPath = defaultPDFPath(inputName)
	}
	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(outPath, pdf, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", outPath)
	}
	return nil
}

// readRenderInput reads the raw text from the positional file argument,
// or from stdin when the argument is absent or "-".
func readRenderInput(args []string, env *Environment) (raw, name string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		return string(data), "document", nil
	}

	data, err := os.ReadFile(args[0]) // #nosec G304 -- input path is user-provided
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return string(data), args[0], nil
}

// renderOptions translates render flags into renderer options.
func renderOptions(flags *renderFlags) ([]ocrprep.RendererOption, error) {
	var opts []ocrprep.RendererOption

	if flags.css != "" {
		css, err := os.ReadFile(flags.css) // #nosec G304 -- stylesheet path is user-provided
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		opts = append(opts, ocrprep.WithStylesheet(string(css)))
	}

	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimeout, flags.timeout)
		}
		opts = append(opts, ocrprep.WithExportTimeout(d))
	}
	return opts, nil
}

// writeRenderOutput writes the HTML document to the output file, or to
// stdout when no output was given.
func writeRenderOutput(doc, output string, env *Environment) error {
	if output == "" {
		if _, err := io.WriteString(env.Stdout, doc); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	// #nosec G306 -- HTML files are meant to be readable
	if err := os.WriteFile(output, []byte(doc), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// defaultPDFPath derives the PDF output path from the input name.
func defaultPDFPath(inputName string) string {
	stem := strings.TrimSuffix(inputName, filepath.Ext(inputName))
	return stem + ".pdf"
}

// renderTask is one markdown file to render plus where its output goes.
type renderTask struct {
	InputPath  string
	OutputPath string
}

// renderOutcome holds the result of rendering a single input.
type renderOutcome struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// renderBatch renders several inputs in parallel across a RendererPool.
// With --pdf each pooled renderer owns its own browser instance.
func renderBatch(ctx context.Context, inputs []string, flags *renderFlags, opts []ocrprep.RendererOption, env *Environment) error {
	tasks := make([]renderTask, len(inputs))
	for i, input := range inputs {
		tasks[i] = renderTask{
			InputPath:  input,
			OutputPath: renderOutputPath(input, flags.output, flags.pdf),
		}
	}

	size := flags.workers
	if size == 0 {
		size = ocrprep.DefaultPoolSize()
	}
	if size > len(tasks) {
		size = len(tasks)
	}

	pool := ocrprep.NewRendererPool(size, opts...)
	defer func() { _ = pool.Close() }()

	results := make([]renderOutcome, len(tasks))
	jobs := make(chan int, len(tasks))

	var wg sync.WaitGroup
	for w := 0; w < size; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			renderer := pool.Acquire()
			if renderer == nil {
				for idx := range jobs {
					results[idx] = renderOutcome{InputPath: tasks[idx].InputPath, Err: ocrprep.ErrPoolClosed}
				}
				return
			}
			defer pool.Release(renderer)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = renderOutcome{InputPath: tasks[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = renderOne(ctx, renderer, tasks[idx], flags.pdf)
			}
		}()
	}

	for i := range tasks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	failed := printRenderOutcomes(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}

// renderOutputPath places the output next to the input, or inside the
// output directory when one was given.
func renderOutputPath(input, outputDir string, pdf bool) string {
	ext := ".html"
	if pdf {
		ext = ".pdf"
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, stem+ext)
}

// renderOne renders a single input file and writes its output.
func renderOne(ctx context.Context, renderer *ocrprep.Renderer, task renderTask, pdf bool) renderOutcome {
	start := time.Now()
	outcome := renderOutcome{
		InputPath:  task.InputPath,
		OutputPath: task.OutputPath,
	}

	raw, err := os.ReadFile(task.InputPath) // #nosec G304 -- input path is user-provided
	if err != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrReadInput, err)
		outcome.Duration = time.Since(start)
		return outcome
	}

	doc, err := renderer.Render(ctx, string(raw))
	if err != nil {
		outcome.Err = err
		outcome.Duration = time.Since(start)
		return outcome
	}

	data := []byte(doc)
	if pdf {
		data, err = renderer.ExportPDF(ctx, doc)
		if err != nil {
			outcome.Err = err
			outcome.Duration = time.Since(start)
			return outcome
		}
	}

	if err := os.MkdirAll(filepath.Dir(task.OutputPath), dirPermissions); err != nil {
		outcome.Err = fmt.Errorf("creating output directory: %w", err)
		outcome.Duration = time.Since(start)
		return outcome
	}
	// #nosec G306 -- rendered documents are meant to be readable
	if err := os.WriteFile(task.OutputPath, data, filePermissions); err != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	outcome.Duration = time.Since(start)
	return outcome
}

// printRenderOutcomes reports results and returns the number of failures.
func printRenderOutcomes(results []renderOutcome, quiet, verbose bool, env *Environment) int {
	var failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return failed
}
