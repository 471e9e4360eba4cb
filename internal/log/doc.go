// Package log provides simple leveled logging for fetch-iplist.
//
// This package implements a lightweight logging system with colored output
// and support for different log levels: DEBUG, INFO, WARN, and ERROR.
// It provides global logging functions that can be used throughout the application.
//
// # Log Levels
//
//   - DEBUG: Detailed diagnostic information (only shown in verbose mode)
//   - INFO: General informational messages
//   - WARN: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures and exceptions
//
// # Example Usage
//
// Basic logging:
//
//	log.Infof("Fetching %d sources", n)
//	log.Warnf("Staging file and destination are on different filesystems")
//	log.Errorf("Failed to fetch: %v", err)
//
// Enabling verbose mode for debug output:
//
//	log.SetVerbose(true)
//	log.Debugf("Source body checksum: %s", sum)
//
// When list output goes to stdout, console logging must be moved aside:
//
//	log.SetForceStdErr(true)
//
// Serve mode can additionally tee logs into a rotating file:
//
//	log.SetFileOutput(&lumberjack.Logger{Filename: path})
package log
