package seed

import (
	"fmt"
	"os"

	"github.com/okian/alumnet/pkg/logger"
)

// SetupLogging initializes the global logger, writing to stdout and, when
// logFile is set, to that file as well.
func SetupLogging(logFile string, verbose bool) error {
	var opts []logger.Option
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		opts = append(opts, logger.WithOutput(f))
	}
	if err := logger.Init(opts...); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	os.Stdout.WriteString(`Alumnet Seed Tool
=================

Populates a running service with a synthetic cohort through its public API:
students with scored profiles, alumni posting referrals and mentoring
sessions, applications and bookings. Finishes by verifying the leaderboard.

Usage:
  go run ./cmd/seed [options]

Options:
  -url string         Base URL of the service (default "http://localhost:9080")
  -students int       Student accounts to create (default 200)
  -alumni int         Alumni accounts to create (default 20)
  -applications int   Referrals each student applies to (default 2)
  -top int            Leaderboard entries to verify (default 50)
  -workers int        Concurrent workers (default CPU cores * 2)
  -timeout duration   HTTP request timeout (default 30s)
  -seed uint          Random seed (default 1)
  -log string         Also write logs to this file
  -verbose            Log every failed request
  -help               Show this help message

Examples:
  go run ./cmd/seed -students 1000 -alumni 50 -workers 16
  go run ./cmd/seed -url http://localhost:8080 -seed 42 -verbose
`)
}
