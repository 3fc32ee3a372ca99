package testmatches

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/spdi/pkg/logger"
)

// SetupLogging initialises the logger, copying output to logFile when set.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		out, closer = io.MultiWriter(os.Stdout, file), file
	}
	if err := logger.Init(logger.WithOutput(out)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ShowHelp prints usage information for the match test tool.
func ShowHelp() {
	os.Stdout.WriteString(`SPDI Match Test Tool
====================

Generates random matches, a share of them deliberately invalid, submits them
to a running SPDI service and checks every answer against the local engine.

Usage:
  go run ./cmd/test-matches [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -matches int
        Number of matches to generate and submit (default 10000)
  -batch int
        Matches to resend through /v1/spdi/batch, 0 to skip (default 200)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -seed uint
        Generator seed (default 1)
  -output string
        Output file for generated matches
  -log string
        Log file for test output
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/test-matches -matches 50000 -workers 16 -url http://localhost:8080
`)
}
