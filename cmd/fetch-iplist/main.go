package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nathaningle/fetch-iplist/internal/commands"
	"github.com/nathaningle/fetch-iplist/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{}

	// Define flags
	flag.StringVar(&ctx.ConfigPath, "config", "", "Path to configuration file (TOML)")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "IP prefix list fetcher and aggregator\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [options] <destfile> <url>...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  fetch                   Fetch, aggregate and publish once (destfile \"-\" writes to stdout)\n")
		fmt.Fprintf(os.Stderr, "  serve                   Run as a daemon: periodic refresh plus HTTP API\n")
		fmt.Fprintf(os.Stderr, "  self-check              Verify configuration and publish preconditions\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	// Ensure cfg file exists when one was given
	if ctx.ConfigPath != "" {
		if _, err := os.Stat(ctx.ConfigPath); errors.Is(err, os.ErrNotExist) {
			log.Fatalf("Configuration file not found: %s", ctx.ConfigPath)
		}
	}

	cmds := []commands.Runner{
		commands.CreateFetchCommand(),
		commands.CreateServeCommand(),
		commands.CreateSelfCheckCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			runOrFail(cmd, args[1:], ctx)
			os.Exit(0)
		}
	}

	// Not a known subcommand: treat the arguments as the classic one-shot
	// form `<destfile> <url>...`.
	if len(args) >= 2 {
		runOrFail(commands.CreateFetchCommand(), args, ctx)
		os.Exit(0)
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}

func runOrFail(cmd commands.Runner, args []string, ctx *commands.AppContext) {
	if err := cmd.Init(args, ctx); err != nil {
		log.Fatalf("Failed to initialize command: %v", err)
	}

	if err := cmd.Run(); err != nil {
		log.Fatalf("Failed to run command: %v", err)
	}
}
