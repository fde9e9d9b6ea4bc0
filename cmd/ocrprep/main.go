package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], DefaultEnv()))
}

// run dispatches the subcommand and returns the process exit code.
func run(args []string, env *Environment) int {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	switch args[0] {
	case "convert":
		flags, positional, err := parseConvertFlags(args[1:])
		if err != nil {
			return ExitUsage
		}
		if err := runConvert(ctx, positional, flags, env); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "render":
		flags, positional, err := parseRenderFlags(args[1:])
		if err != nil {
			return ExitUsage
		}
		if err := runRender(ctx, positional, flags, env); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "version":
		fmt.Fprintf(env.Stdout, "ocrprep %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(args[1:], env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
}
