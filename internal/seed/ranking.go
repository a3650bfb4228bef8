package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/rematch/pkg/logger"
)

// matchReport is the slice of the /match response the seed run inspects.
type matchReport struct {
	JobID    string `json:"job_id"`
	PoolSize int    `json:"pool_size"`
	Matches  []struct {
		Candidate struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"candidate"`
		Scores struct {
			Total float64 `json:"total"`
		} `json:"scores"`
	} `json:"matches"`
	Summary string `json:"summary"`
}

// dormantReport is the slice of the /dormant response the seed run inspects.
type dormantReport struct {
	JobID    string `json:"job_id"`
	Eligible int    `json:"eligible_candidates"`
	Alerts   []struct {
		Candidate struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"candidate"`
		Priority string `json:"priority"`
	} `json:"alerts"`
}

// retrieveMatchReports runs an open search ranking for every seeded job.
func retrieveMatchReports(ctx context.Context, config *Config, jobs []jobPayload, stats *Stats) error {
	logger.Get().Info(ctx, "retrieving match reports", logger.Int("jobs", len(jobs)))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/match"

	for _, job := range jobs {
		resp, err := client.Post(ctx, url, matchPayload{
			JobID:      job.ID,
			TopK:       config.TopK,
			OpenSearch: true,
		})
		if err != nil {
			return fmt.Errorf("match request for %s failed: %w", job.ID, err)
		}
		body, err := readResponseBody(resp)
		if err != nil {
			return fmt.Errorf("failed to read match response for %s: %w", job.ID, err)
		}
		if resp.StatusCode != statusOK {
			return fmt.Errorf("match for %s returned status %d: %s", job.ID, resp.StatusCode, string(body))
		}

		var report matchReport
		if err := json.Unmarshal(body, &report); err != nil {
			return fmt.Errorf("failed to parse match response for %s: %w", job.ID, err)
		}
		stats.MatchReportsRetrieved++

		if config.Verbose {
			for i, m := range report.Matches {
				logger.Get().Info(ctx, "match",
					logger.String("job", job.Title),
					logger.Int("rank", i+1),
					logger.String("candidate", m.Candidate.Name),
					logger.Float64("total", m.Scores.Total))
			}
		}
		logger.Get().Info(ctx, "match report retrieved",
			logger.String("jobID", report.JobID),
			logger.Int("poolSize", report.PoolSize),
			logger.Int("matches", len(report.Matches)),
			logger.String("summary", report.Summary))

		if err := verifyRankingOrder(report); err != nil {
			return fmt.Errorf("ranking verification failed for %s: %w", job.ID, err)
		}
	}
	return nil
}

// verifyRankingOrder checks that match totals never increase down the list.
func verifyRankingOrder(report matchReport) error {
	for i := 1; i < len(report.Matches); i++ {
		if report.Matches[i].Scores.Total > report.Matches[i-1].Scores.Total {
			return fmt.Errorf("match %d (%.4f) outranks match %d (%.4f)",
				i, report.Matches[i].Scores.Total, i-1, report.Matches[i-1].Scores.Total)
		}
	}
	return nil
}

// retrieveDormantReports runs dormant detection for every seeded job.
func retrieveDormantReports(ctx context.Context, config *Config, jobs []jobPayload, stats *Stats) error {
	logger.Get().Info(ctx, "running dormant detection", logger.Int("jobs", len(jobs)))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/dormant"

	for _, job := range jobs {
		resp, err := client.Post(ctx, url, dormantPayload{JobID: job.ID})
		if err != nil {
			return fmt.Errorf("dormant request for %s failed: %w", job.ID, err)
		}
		body, err := readResponseBody(resp)
		if err != nil {
			return fmt.Errorf("failed to read dormant response for %s: %w", job.ID, err)
		}
		if resp.StatusCode != statusOK {
			return fmt.Errorf("dormant for %s returned status %d: %s", job.ID, resp.StatusCode, string(body))
		}

		var report dormantReport
		if err := json.Unmarshal(body, &report); err != nil {
			return fmt.Errorf("failed to parse dormant response for %s: %w", job.ID, err)
		}
		stats.DormantAlertsFound += len(report.Alerts)

		logger.Get().Info(ctx, "dormant report retrieved",
			logger.String("jobID", report.JobID),
			logger.Int("eligible", report.Eligible),
			logger.Int("alerts", len(report.Alerts)))

		if config.Verbose {
			for _, alert := range report.Alerts {
				logger.Get().Info(ctx, "dormant alert",
					logger.String("job", job.Title),
					logger.String("candidate", alert.Candidate.Name),
					logger.String("priority", alert.Priority))
			}
		}
	}
	return nil
}
