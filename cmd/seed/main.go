package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/alumnet/internal/seed"
)

// Default configuration constants.
const (
	defaultStudents     = 200
	defaultAlumni       = 20
	defaultApplications = 2
	defaultTopN         = 50
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		students     = flag.Int("students", defaultStudents, "Student accounts to create")
		alumni       = flag.Int("alumni", defaultAlumni, "Alumni accounts to create")
		applications = flag.Int("applications", defaultApplications, "Referrals each student applies to")
		topN         = flag.Int("top", defaultTopN, "Leaderboard entries to verify")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seedValue    = flag.Uint64("seed", 1, "Random seed")
		logFile      = flag.String("log", "", "Also write logs to this file")
		verbose      = flag.Bool("verbose", false, "Log every failed request")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	if err := seed.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := &seed.Config{
		BaseURL:      *baseURL,
		Students:     *students,
		Alumni:       *alumni,
		Applications: *applications,
		TopN:         *topN,
		Workers:      *workers,
		Timeout:      *timeout,
		Seed:         *seedValue,
		Verbose:      *verbose,
	}
	if _, err := seed.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Seed failed: " + err.Error() + "\n")
		cancel()
		stop()
		os.Exit(1)
	}
}
