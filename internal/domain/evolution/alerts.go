package evolution

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/rematch/internal/domain/model"
)

// Alert priority bands over the evolution-adjusted total.
const (
	criticalPriorityScore = 0.90
	highPriorityScore     = 0.80
	mediumPriorityScore   = 0.75
)

// maxNotifications caps how many alerts a single detection run emits.
const maxNotifications = 10

// Priority labels a dormant-talent alert for triage.
type Priority string

// Alert priorities.
const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// PriorityFor maps an evolution-adjusted total to an alert priority.
func PriorityFor(totalWithEvolution float64) Priority {
	switch {
	case totalWithEvolution >= criticalPriorityScore:
		return PriorityCritical
	case totalWithEvolution >= highPriorityScore:
		return PriorityHigh
	case totalWithEvolution >= mediumPriorityScore:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// TopCandidate summarizes the best dormant match in an alert summary.
type TopCandidate struct {
	Name          string  `json:"name"`
	Score         float64 `json:"score"`
	MonthsDormant int     `json:"months_dormant"`
}

// AlertSummary aggregates one dormant-detection run.
type AlertSummary struct {
	TotalAlerts        int                      `json:"total_alerts"`
	AvgMonthsDormant   float64                  `json:"avg_months_dormant,omitempty"`
	AvgMatchScore      float64                  `json:"avg_match_score,omitempty"`
	GrowthDistribution map[model.GrowthTier]int `json:"growth_distribution,omitempty"`
	TopCandidate       *TopCandidate            `json:"top_candidate,omitempty"`
	Message            string                   `json:"message"`
}

// Summarize builds the aggregate view over a sorted dormant match list.
func Summarize(matches []model.MatchResult) AlertSummary {
	if len(matches) == 0 {
		return AlertSummary{Message: "No dormant candidates match this position"}
	}

	var monthsSum, scoreSum float64
	distribution := make(map[model.GrowthTier]int)
	for i := range matches {
		rec := matches[i].Evolution
		monthsSum += float64(rec.MonthsDormant)
		scoreSum += matches[i].Scores.Total
		distribution[rec.GrowthTier]++
	}

	top := matches[0]
	return AlertSummary{
		TotalAlerts:        len(matches),
		AvgMonthsDormant:   monthsSum / float64(len(matches)),
		AvgMatchScore:      scoreSum / float64(len(matches)),
		GrowthDistribution: distribution,
		TopCandidate: &TopCandidate{
			Name:          top.Candidate.Name,
			Score:         top.Evolution.TotalWithEvolution,
			MonthsDormant: top.Evolution.MonthsDormant,
		},
		Message: fmt.Sprintf("Found %d dormant candidates who may have evolved to match this role", len(matches)),
	}
}

// Notification is a single dormant-talent alert, ready for delivery.
type Notification struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Priority       Priority  `json:"priority"`
	JobID          string    `json:"job_id"`
	JobTitle       string    `json:"job_title"`
	CandidateID    string    `json:"candidate_id"`
	CandidateName  string    `json:"candidate_name"`
	MatchScore     float64   `json:"match_score"`
	EvolutionScore float64   `json:"evolution_score"`
	TotalScore     float64   `json:"total_score"`
	MonthsDormant  int       `json:"months_dormant"`
	Message        string    `json:"message"`
	Narrative      string    `json:"narrative"`
	CreatedAt      time.Time `json:"created_at"`
}

// Notifications creates alert notifications for the top dormant matches.
func Notifications(matches []model.MatchResult, job *model.Job, now time.Time) []Notification {
	limit := len(matches)
	if limit > maxNotifications {
		limit = maxNotifications
	}

	out := make([]Notification, 0, limit)
	for i := 0; i < limit; i++ {
		match := matches[i]
		rec := match.Evolution
		out = append(out, Notification{
			ID:             uuid.New().String(),
			Type:           "DORMANT_TALENT_ALERT",
			Priority:       PriorityFor(rec.TotalWithEvolution),
			JobID:          job.ID,
			JobTitle:       job.Title,
			CandidateID:    match.Candidate.ID,
			CandidateName:  match.Candidate.Name,
			MatchScore:     match.Scores.Total,
			EvolutionScore: rec.EvolutionScore,
			TotalScore:     rec.TotalWithEvolution,
			MonthsDormant:  rec.MonthsDormant,
			Message: fmt.Sprintf(
				"Dormant talent alert: %s (applied %d months ago) is a %d%% match for %s",
				match.Candidate.Name, rec.MonthsDormant, int(rec.TotalWithEvolution*100), job.Title,
			),
			Narrative: rec.Narrative,
			CreatedAt: now,
		})
	}
	return out
}
