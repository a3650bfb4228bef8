package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/rematch/pkg/logger"
)

// ingestSettleDelay gives the async ingest pipeline time to drain before
// dormant detection reads application history.
const ingestSettleDelay = 2 * time.Second

// Run executes the complete seed and verification pass.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting rematch seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("candidates", config.NumCandidates),
		logger.Int("jobs", config.NumJobs),
		logger.Int("applications", config.NumApplications),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate data
	candidates := generateCandidates(ctx, config, stats)
	jobs := generateJobs(ctx, config)
	applications := generateApplications(ctx, config, candidates, jobs)

	// Step 3: Register jobs and candidates
	if err := submitJobs(ctx, config, jobs, stats); err != nil {
		return fmt.Errorf("job submission failed: %w", err)
	}
	if err := submitCandidates(ctx, config, candidates, stats); err != nil {
		return fmt.Errorf("candidate submission failed: %w", err)
	}

	// Step 4: Submit applications concurrently
	if err := submitApplications(ctx, config, applications, stats); err != nil {
		return fmt.Errorf("application submission failed: %w", err)
	}

	// Step 5: Let the ingest workers drain the queue
	logger.Get().Info(ctx, "waiting for applications to be processed")
	time.Sleep(ingestSettleDelay)

	// Step 6: Retrieve rankings for every job
	if err := retrieveMatchReports(ctx, config, jobs, stats); err != nil {
		return fmt.Errorf("match retrieval failed: %w", err)
	}

	// Step 7: Run dormant talent detection
	if err := retrieveDormantReports(ctx, config, jobs, stats); err != nil {
		return fmt.Errorf("dormant detection failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "seed run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 counts as healthy, the endpoint serves Prometheus metrics
	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats prints the final seed statistics.
func displayFinalStats(stats *Stats) {
	var applicationsPerSecond float64
	if stats.Duration > 0 {
		applicationsPerSecond = float64(stats.ApplicationsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("candidatesGenerated", stats.CandidatesGenerated),
		logger.Int("candidatesSubmitted", stats.CandidatesSubmitted),
		logger.Int("jobsSubmitted", stats.JobsSubmitted),
		logger.Int("applicationsSubmitted", stats.ApplicationsSubmitted),
		logger.Int("applicationsAccepted", stats.ApplicationsAccepted),
		logger.Int("applicationsDuplicate", stats.ApplicationsDuplicate),
		logger.Int("applicationsFailed", stats.ApplicationsFailed),
		logger.Int("matchReportsRetrieved", stats.MatchReportsRetrieved),
		logger.Int("dormantAlertsFound", stats.DormantAlertsFound),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("applicationsPerSecond", applicationsPerSecond))
}
