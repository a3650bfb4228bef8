package explain

import (
	"fmt"
	"sort"

	"github.com/okian/rematch/internal/domain/model"
)

// Comparison report limits.
const (
	maxTopCandidates = 5
	maxCoverageRows  = 10
)

// Distribution summarizes the spread of total scores across a pool.
type Distribution struct {
	Mean    float64 `json:"mean"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
	Range   float64 `json:"range"`
	Above75 int     `json:"above_75"`
	Above65 int     `json:"above_65"`
}

// CandidateSummary is one line of the top-candidate table.
type CandidateSummary struct {
	Rank        int     `json:"rank"`
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Score       float64 `json:"score"`
	KeyStrength string  `json:"key_strength"`
}

// SkillCoverage reports how many candidates in the pool match one skill.
type SkillCoverage struct {
	Skill string  `json:"skill"`
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
}

// Report compares all scored candidates for one job.
type Report struct {
	TotalCandidates int                `json:"total_candidates"`
	Distribution    Distribution       `json:"score_distribution"`
	TopCandidates   []CandidateSummary `json:"top_candidates"`
	SkillCoverage   []SkillCoverage    `json:"skill_coverage"`
	Insights        []string           `json:"insights"`
}

// Compare builds a comparative report over an already-ranked pool. An empty
// pool yields an empty report, not an error.
func (g *Generator) Compare(matches []model.MatchResult) Report {
	if len(matches) == 0 {
		return Report{Insights: []string{"No candidates available for comparison"}}
	}

	report := Report{
		TotalCandidates: len(matches),
		Distribution:    g.distribution(matches),
		TopCandidates:   g.topCandidates(matches),
		SkillCoverage:   g.skillCoverage(matches),
	}
	report.Insights = g.insights(report)
	return report
}

func (g *Generator) distribution(matches []model.MatchResult) Distribution {
	d := Distribution{Min: matches[0].Scores.Total, Max: matches[0].Scores.Total}
	var sum float64
	for _, m := range matches {
		t := m.Scores.Total
		sum += t
		if t > d.Max {
			d.Max = t
		}
		if t < d.Min {
			d.Min = t
		}
		if t >= g.bands.Recommend {
			d.Above75++
		}
		if t >= g.bands.Consider {
			d.Above65++
		}
	}
	d.Mean = sum / float64(len(matches))
	d.Range = d.Max - d.Min
	return d
}

func (g *Generator) topCandidates(matches []model.MatchResult) []CandidateSummary {
	n := len(matches)
	if n > maxTopCandidates {
		n = maxTopCandidates
	}

	summaries := make([]CandidateSummary, 0, n)
	for i, m := range matches[:n] {
		summaries = append(summaries, CandidateSummary{
			Rank:        i + 1,
			CandidateID: m.Candidate.ID,
			Name:        m.Candidate.Name,
			Title:       m.Candidate.CurrentTitle,
			Score:       m.Scores.Total,
			KeyStrength: g.keyStrength(m.Scores),
		})
	}
	return summaries
}

// keyStrength names the component with the highest weighted contribution.
func (g *Generator) keyStrength(scores model.ScoreBreakdown) string {
	best := "Semantic Match"
	bestContribution := scores.Semantic * g.weights.Semantic

	if c := scores.Skills * g.weights.Skills; c > bestContribution {
		best, bestContribution = "Skills Match", c
	}
	if c := scores.Experience * g.weights.Experience; c > bestContribution {
		best, bestContribution = "Experience Match", c
	}
	if c := scores.Location * g.weights.Location; c > bestContribution {
		best, bestContribution = "Location Match", c
	}
	return best
}

func (g *Generator) skillCoverage(matches []model.MatchResult) []SkillCoverage {
	counts := make(map[string]int)
	for _, m := range matches {
		for _, skill := range m.Scores.MatchedSkills {
			counts[skill]++
		}
	}

	coverage := make([]SkillCoverage, 0, len(counts))
	for skill, count := range counts {
		coverage = append(coverage, SkillCoverage{
			Skill: skill,
			Count: count,
			Ratio: float64(count) / float64(len(matches)),
		})
	}
	sort.Slice(coverage, func(i, j int) bool {
		if coverage[i].Count != coverage[j].Count {
			return coverage[i].Count > coverage[j].Count
		}
		return coverage[i].Skill < coverage[j].Skill
	})
	if len(coverage) > maxCoverageRows {
		coverage = coverage[:maxCoverageRows]
	}
	return coverage
}

func (g *Generator) insights(report Report) []string {
	var insights []string

	switch {
	case report.Distribution.Above75 > 0:
		insights = append(insights, fmt.Sprintf(
			"%d candidate(s) exceed the recommend threshold and merit immediate review",
			report.Distribution.Above75,
		))
	case report.Distribution.Above65 > 0:
		insights = append(insights, fmt.Sprintf(
			"%d candidate(s) are viable matches worth a detailed comparison",
			report.Distribution.Above65,
		))
	default:
		insights = append(insights, "No candidate reaches the consideration threshold; widening the search may help")
	}

	if report.Distribution.Mean < g.bands.Maybe {
		insights = append(insights, "The overall pool quality is low for this position")
	}
	if report.Distribution.Range >= 0.3 {
		insights = append(insights, "Candidate quality varies widely; the top of the pool stands well apart")
	}
	if len(report.SkillCoverage) > 0 {
		best := report.SkillCoverage[0]
		insights = append(insights, fmt.Sprintf(
			"%q is the best-covered requirement, matched by %d of %d candidates",
			best.Skill, best.Count, report.TotalCandidates,
		))
	}
	return insights
}
