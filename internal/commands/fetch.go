package commands

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nathaningle/fetch-iplist/internal/config"
	"github.com/nathaningle/fetch-iplist/internal/log"
	"github.com/nathaningle/fetch-iplist/internal/publish"
)

func CreateFetchCommand() *FetchCommand {
	gc := &FetchCommand{
		fs: flag.NewFlagSet("fetch", flag.ExitOnError),
	}
	gc.fs.StringVar(&gc.stagingDir, "staging-dir", "", "Directory for the staging file (default: destination dir, then system temp)")
	return gc
}

// FetchCommand runs one fetch/aggregate/publish cycle and exits.
type FetchCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	stagingDir string
}

func (g *FetchCommand) Name() string {
	return g.fs.Name()
}

func (g *FetchCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	// Positional form: <destfile> <url>... ("-" for stdout). Otherwise the
	// sources come from the configuration file.
	rest := g.fs.Args()
	if len(rest) > 0 {
		if len(rest) < 2 {
			return fmt.Errorf("usage: fetch [options] <destfile> <url>...")
		}
		cfg := config.FromArgs(rest[0], rest[1:], g.stagingDir, ctx.Verbose)
		if err := cfg.ValidateConfig(); err != nil {
			return fmt.Errorf("invalid arguments: %v", err)
		}
		g.cfg = cfg
	} else {
		cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
		if err != nil {
			return err
		}
		g.cfg = cfg
	}

	// The destination owns stdout; logs must stay out of its way.
	if g.cfg.IsStdout() {
		log.SetForceStdErr(true)
	}

	return nil
}

func (g *FetchCommand) Run() error {
	ctx := context.Background()

	if g.cfg.IsStdout() {
		list, err := assembleList(ctx, g.cfg)
		if err != nil {
			return err
		}
		if _, err := os.Stdout.Write(list.serialized); err != nil {
			return fmt.Errorf("failed to write list to stdout: %v", err)
		}
		return nil
	}

	// The publisher comes first so that a destination we cannot safely
	// replace fails the run before any network traffic happens.
	p, err := publish.NewPublisher(g.cfg.GetAbsDestination(), g.cfg.GetAbsStagingDir())
	if err != nil {
		return err
	}
	defer p.Discard()

	list, err := assembleList(ctx, g.cfg)
	if err != nil {
		return err
	}

	return p.Commit(list.serialized)
}
