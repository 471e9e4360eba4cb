package config

import (
	"fmt"
	"path/filepath"

	"github.com/nathaningle/fetch-iplist/internal/utils"
)

// StdoutDestination is the reserved destination value meaning "write the
// aggregated list to standard output instead of a file". It bypasses all
// staging and atomic-replace machinery.
const StdoutDestination = "-"

type Config struct {
	// General holds general configuration.
	General *GeneralConfig `toml:"general" json:"general"`
	// Sources is the list of prefix list sources to fetch and aggregate. At least one is required.
	Sources []*SourceConfig `toml:"source,omitempty" json:"source,omitempty"`
	// Server holds serve-mode configuration (optional).
	Server *ServerConfig `toml:"server,omitempty" json:"server,omitempty"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// Destination is the path of the published list file, or "-" for stdout.
	Destination string `toml:"destination" json:"destination" validate:"required"`
	// StagingDir is an optional directory for the staging file. When empty, the
	// destination's directory is tried first, then the system temp directory.
	StagingDir string `toml:"staging_dir,omitempty" json:"staging_dir,omitempty"`
	// Verbose enables debug logging.
	Verbose bool `toml:"verbose" json:"verbose"`
}

type SourceConfig struct {
	// Name identifies the source in logs and status output.
	Name string `toml:"name" json:"name" validate:"required,source_name"`
	// URL is the HTTP(S) location of the plain-text prefix list.
	URL string `toml:"url" json:"url" validate:"required,http_url"`
}

type ServerConfig struct {
	// Listen is the serve-mode bind address (default: 127.0.0.1:8474).
	Listen string `toml:"listen,omitempty" json:"listen,omitempty" validate:"hostport_or_empty"`
	// RefreshIntervalMinutes is the serve-mode refresh interval (default: 60,
	// min: 1; zero means unset).
	RefreshIntervalMinutes int `toml:"refresh_interval_minutes,omitempty" json:"refresh_interval_minutes,omitempty" validate:"omitempty,gte=1"`
	// LogFile, when set, additionally writes logs to this path with rotation.
	LogFile string `toml:"log_file,omitempty" json:"log_file,omitempty"`
}

const (
	DefaultListenAddr             = "127.0.0.1:8474"
	DefaultRefreshIntervalMinutes = 60
)

// FromArgs builds a configuration from positional CLI arguments, preserving
// the original argument-driven one-shot usage (destfile followed by URLs).
func FromArgs(destination string, urls []string, stagingDir string, verbose bool) *Config {
	cfg := &Config{
		General: &GeneralConfig{
			Destination: destination,
			StagingDir:  stagingDir,
			Verbose:     verbose,
		},
	}
	for i, u := range urls {
		cfg.Sources = append(cfg.Sources, &SourceConfig{
			Name: fmt.Sprintf("source_%d", i+1),
			URL:  u,
		})
	}
	return cfg
}

// IsStdout reports whether the destination is the reserved stdout marker.
func (c *Config) IsStdout() bool {
	return c.General != nil && c.General.Destination == StdoutDestination
}

// GetConfigDir returns the directory of the loaded configuration file, or ""
// for argument-built configurations.
func (c *Config) GetConfigDir() string {
	if c._absConfigFilePath == "" {
		return ""
	}
	return filepath.Dir(c._absConfigFilePath)
}

// GetAbsDestination resolves the destination path. Relative paths in a config
// file are resolved against the config file's directory.
func (c *Config) GetAbsDestination() string {
	if c.IsStdout() {
		return StdoutDestination
	}
	if dir := c.GetConfigDir(); dir != "" {
		return utils.GetAbsolutePath(c.General.Destination, dir)
	}
	return filepath.Clean(c.General.Destination)
}

// GetAbsStagingDir resolves the staging directory hint, or "" when unset.
func (c *Config) GetAbsStagingDir() string {
	if c.General.StagingDir == "" {
		return ""
	}
	if dir := c.GetConfigDir(); dir != "" {
		return utils.GetAbsolutePath(c.General.StagingDir, dir)
	}
	return filepath.Clean(c.General.StagingDir)
}

// ListenAddr returns the serve-mode bind address with defaults applied.
func (c *Config) ListenAddr() string {
	if c.Server != nil && c.Server.Listen != "" {
		return c.Server.Listen
	}
	return DefaultListenAddr
}

// RefreshInterval returns the serve-mode refresh interval in minutes with
// defaults applied.
func (c *Config) RefreshInterval() int {
	if c.Server != nil && c.Server.RefreshIntervalMinutes > 0 {
		return c.Server.RefreshIntervalMinutes
	}
	return DefaultRefreshIntervalMinutes
}
