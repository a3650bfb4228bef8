package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/rematch/internal/seed"
)

// Default configuration constants.
const (
	defaultNumCandidates   = 500
	defaultNumJobs         = 8
	defaultNumApplications = 2000
	defaultDormantRatio    = 0.3
	defaultTopK            = 10
	defaultWorkers         = 2 // multiplier for runtime.NumCPU()
	defaultTimeout         = 30 * time.Second
	defaultRunTimeout      = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		candidates   = flag.Int("candidates", defaultNumCandidates, "Number of candidates to generate")
		jobs         = flag.Int("jobs", defaultNumJobs, "Number of jobs to generate")
		applications = flag.Int("applications", defaultNumApplications, "Number of applications to submit")
		dormantRatio = flag.Float64("dormant-ratio", defaultDormantRatio, "Fraction of candidates seeded with an old application date")
		topK         = flag.Int("top", defaultTopK, "Number of matches to request per job")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile      = flag.String("log", "", "Log file for seed output (default: seed_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	// Setup logging
	if err := seed.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create seed configuration
	config := &seed.Config{
		BaseURL:         *baseURL,
		NumCandidates:   *candidates,
		NumJobs:         *jobs,
		NumApplications: *applications,
		DormantRatio:    *dormantRatio,
		TopK:            *topK,
		Workers:         *workers,
		Timeout:         *timeout,
		LogFile:         *logFile,
		Verbose:         *verbose,
	}

	// Run the seed pass
	if err := seed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		return
	}
}
