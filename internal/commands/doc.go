// Package commands implements the CLI subcommands: one-shot fetch, the
// serve daemon and the self-check preflight.
package commands
