package commands

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/nathaningle/fetch-iplist/internal/config"
	"github.com/nathaningle/fetch-iplist/internal/log"
	"github.com/nathaningle/fetch-iplist/internal/publish"
)

func CreateSelfCheckCommand() *SelfCheckCommand {
	gc := &SelfCheckCommand{
		fs: flag.NewFlagSet("self-check", flag.ExitOnError),
	}
	return gc
}

// SelfCheckCommand verifies the configuration and the publish preconditions
// without any network activity, so operators can catch a staging or
// destination problem before a scheduled run would.
type SelfCheckCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config
}

func (g *SelfCheckCommand) Name() string {
	return g.fs.Name()
}

func (g *SelfCheckCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	return nil
}

func (g *SelfCheckCommand) Run() error {
	log.Infof("Running self-check...")
	log.Infof("---------------- Configuration START -----------------")

	if cfg, err := g.cfg.SerializeConfig(); err != nil {
		log.Errorf("Failed to serialize config: %v", err)
		return err
	} else {
		if _, err := os.Stdout.Write(cfg.Bytes()); err != nil {
			log.Errorf("Failed to output config: %v", err)
			return err
		}
	}

	log.Infof("----------------- Configuration END ------------------")

	for _, source := range g.cfg.Sources {
		log.Infof("Source \"%s\": %s", source.Name, source.URL)
	}

	if g.cfg.IsStdout() {
		log.Infof("Destination is stdout, no publish checks to run")
		return nil
	}

	// Same capture a real publish would do: staging probe, symlink check,
	// metadata report. Any cross-device warning shows up here too.
	dest := g.cfg.GetAbsDestination()
	p, err := publish.NewPublisher(dest, g.cfg.GetAbsStagingDir())
	if err != nil {
		log.Errorf("Publish preflight failed: %v", err)
		return err
	}
	defer p.Discard()

	log.Infof("Staging directory: %s", filepath.Dir(p.StagingPath()))
	if p.DestinationExists() {
		uid, gid := p.DestinationOwner()
		log.Infof("Destination %s exists: mode %04o and owner %d:%d will be preserved", dest, p.DestinationMode(), uid, gid)
	} else {
		log.Infof("Destination %s does not exist, it will be created with mode %04o", dest, publish.DefaultMode)
	}

	log.Infof("Self-check passed")
	return nil
}
