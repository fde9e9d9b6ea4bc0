package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ocrprep <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Normalize images and document pages into canonical PNGs")
	fmt.Fprintln(w, "  render     Render recognition text (Markdown + LaTeX) to HTML or PDF")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'ocrprep help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ocrprep convert <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Normalize images and document pages into canonical PNGs.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Image file, PDF document, or directory of either")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to input)")
	fmt.Fprintln(w, "  -c, --config <path>       Config file path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Processing:")
	fmt.Fprintln(w, "      --size <n>            Canonical canvas size in pixels")
	fmt.Fprintln(w, "      --dpi <f>             Document page render DPI")
	fmt.Fprintln(w, "      --background <s>      Pad color as #RGB or #RRGGBB")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-file timing")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ocrprep render [input]... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render recognition text to a math-safe HTML document.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file(s); omit or use \"-\" to read stdin.")
	fmt.Fprintln(w, "           Multiple inputs render in parallel.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file, or directory for multiple inputs")
	fmt.Fprintln(w, "      --pdf                 Print the rendered document to PDF")
	fmt.Fprintln(w, "      --css <path>          External CSS file")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renderers for multiple inputs (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: ocrprep version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: ocrprep help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
