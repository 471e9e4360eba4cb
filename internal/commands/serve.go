package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nathaningle/fetch-iplist/internal/api"
	"github.com/nathaningle/fetch-iplist/internal/config"
	"github.com/nathaningle/fetch-iplist/internal/log"
)

func CreateServeCommand() *ServeCommand {
	return &ServeCommand{
		fs: flag.NewFlagSet("serve", flag.ExitOnError),
	}
}

// ServeCommand runs the refresh loop and the HTTP API as a long-lived
// process. It is the api.ListProvider for the HTTP server.
type ServeCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	// refreshMu serializes refresh cycles: the ticker and POST /refresh must
	// never fetch or publish concurrently.
	refreshMu sync.Mutex

	stateMu    sync.RWMutex
	snapshot   api.Snapshot
	lastDigest string
}

func (c *ServeCommand) Name() string {
	return c.fs.Name()
}

func (c *ServeCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	if cfg.IsStdout() {
		return fmt.Errorf("serve mode requires a file destination, not stdout")
	}
	c.cfg = cfg

	if cfg.Server != nil && cfg.Server.LogFile != "" {
		log.SetFileOutput(&lumberjack.Logger{
			Filename:   cfg.Server.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
		log.Infof("Logging to %s", cfg.Server.LogFile)
	}

	return nil
}

// Snapshot returns the current list state for the HTTP API.
func (c *ServeCommand) Snapshot() api.Snapshot {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.snapshot
}

// Refresh runs one fetch/aggregate cycle and publishes the result when the
// aggregated list differs from the last published one. On failure the
// previous snapshot stays in place.
func (c *ServeCommand) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	list, err := assembleList(ctx, c.cfg)
	if err != nil {
		return err
	}

	c.stateMu.RLock()
	unchanged := list.digest == c.lastDigest
	c.stateMu.RUnlock()

	if unchanged {
		log.Infof("Aggregated list unchanged (digest %s), skipping publish", list.digest)
	} else {
		if err := publishList(c.cfg, list.serialized); err != nil {
			return err
		}
	}

	sources := make([]api.SourceStatus, len(list.sourceCounts))
	for i, sc := range list.sourceCounts {
		sources[i] = api.SourceStatus{Name: sc.Name, EntryCount: sc.Count}
	}

	c.stateMu.Lock()
	c.snapshot = api.Snapshot{
		Text:        string(list.serialized),
		EntryCount:  len(list.nets),
		Digest:      list.digest,
		LastRefresh: time.Now(),
		Sources:     sources,
	}
	c.lastDigest = list.digest
	c.stateMu.Unlock()

	return nil
}

func (c *ServeCommand) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The daemon starts even when the first refresh fails; the ticker or a
	// POST /refresh will retry.
	if err := c.Refresh(ctx); err != nil {
		log.Errorf("Initial refresh failed: %v", err)
	}

	server := api.NewServer(c.cfg.ListenAddr(), c)
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	interval := time.Duration(c.cfg.RefreshInterval()) * time.Minute
	log.Infof("Refreshing every %v", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	for {
		select {
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				log.Errorf("Scheduled refresh failed, keeping previous list: %v", err)
			}

		case err := <-serverErrors:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil

		case sig := <-shutdown:
			log.Infof("Received signal %v, shutting down...", sig)

			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancelShutdown()

			if err := server.Stop(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}

			log.Infof("Server stopped gracefully")
			return nil
		}
	}
}
