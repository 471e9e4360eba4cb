// Package config defines the fetch-iplist configuration model.
//
// A configuration can come from a TOML file or be synthesized from positional
// command-line arguments (destination file followed by source URLs), which
// keeps the one-shot usage free of any config file. Structural validation is
// performed with go-playground/validator and reported through the
// ValidationErrors collection so operators see every problem at once.
package config
