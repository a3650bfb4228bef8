package seed

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/rematch/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Date ranges used for seeded application history, expressed in days
// relative to the run time.
const (
	dormantMinAgeDays   = 200
	dormantAgeSpreadDay = 900
	recentMaxAgeDays    = 150
	dateLayout          = "2006-01-02"
)

// Experience ranges for generated profiles.
const (
	juniorYearsMax  = 4.0
	seniorYearsBase = 5.0
	seniorYearsSpan = 12.0
)

// serviceLines pairs a practice area with the skills its people carry.
var serviceLines = map[string][]string{
	"platform": {
		"go", "kubernetes", "terraform", "postgresql", "grpc",
		"prometheus", "docker", "aws", "kafka", "redis",
	},
	"data": {
		"python", "spark", "airflow", "sql", "dbt",
		"snowflake", "kafka", "pandas", "scala", "tableau",
	},
	"frontend": {
		"typescript", "react", "css", "graphql", "nextjs",
		"webpack", "jest", "accessibility", "figma", "nodejs",
	},
	"security": {
		"penetration testing", "siem", "iam", "threat modeling", "python",
		"incident response", "compliance", "zero trust", "cryptography", "soc2",
	},
}

var titles = map[string][]string{
	"platform": {"Backend Engineer", "Site Reliability Engineer", "Platform Engineer", "Infrastructure Lead"},
	"data":     {"Data Engineer", "Analytics Engineer", "ML Engineer", "Data Platform Lead"},
	"frontend": {"Frontend Engineer", "UI Engineer", "Full Stack Developer", "Design Systems Engineer"},
	"security": {"Security Engineer", "Security Analyst", "AppSec Engineer", "Security Architect"},
}

var locations = []string{
	"Berlin", "Amsterdam", "London", "Madrid", "Warsaw",
	"Lisbon", "Dublin", "Stockholm", "Zurich", "Paris",
}

var languages = []string{"English", "German", "Spanish", "French", "Polish", "Portuguese", "Dutch"}

var certifications = map[string][]string{
	"platform": {"CKA", "AWS Solutions Architect", "Terraform Associate"},
	"data":     {"Databricks Certified", "GCP Data Engineer", "Snowflake SnowPro"},
	"frontend": {"AWS Developer Associate"},
	"security": {"CISSP", "OSCP", "Security+"},
}

var remoteModes = []string{"onsite", "remote", "hybrid"}

var firstNames = []string{
	"Ada", "Bruno", "Clara", "Diego", "Elif", "Femke", "Goran", "Hana",
	"Iver", "Jana", "Kenji", "Lena", "Marek", "Nadia", "Omar", "Priya",
	"Quinn", "Rosa", "Sami", "Tomas",
}

var lastNames = []string{
	"Acker", "Bianchi", "Costa", "Dahl", "Eriksen", "Fischer", "Garcia",
	"Horvat", "Ito", "Jansen", "Kowalski", "Lindqvist", "Moreau", "Novak",
	"Okafor", "Petrov", "Quiroga", "Ricci", "Schmidt", "Takacs",
}

// randFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func randFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randIndex returns a random index in [0, n).
func randIndex(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func pick(values []string) string {
	return values[randIndex(len(values))]
}

// pickN returns n distinct values from the pool, fewer when the pool is
// smaller than n.
func pickN(pool []string, n int) []string {
	if n >= len(pool) {
		out := make([]string, len(pool))
		copy(out, pool)
		return out
	}
	chosen := make([]string, 0, n)
	used := make(map[int]struct{}, n)
	for len(chosen) < n {
		i := randIndex(len(pool))
		if _, ok := used[i]; ok {
			continue
		}
		used[i] = struct{}{}
		chosen = append(chosen, pool[i])
	}
	return chosen
}

var serviceLineNames = func() []string {
	names := make([]string, 0, len(serviceLines))
	for name := range serviceLines {
		names = append(names, name)
	}
	return names
}()

// generateCandidates creates synthetic candidate profiles. Roughly
// config.DormantRatio of them carry an application date old enough to
// count as dormant.
func generateCandidates(ctx context.Context, config *Config, stats *Stats) []candidatePayload {
	logger.Get().Info(ctx, "generating candidates",
		logger.Int("numCandidates", config.NumCandidates),
		logger.Float64("dormantRatio", config.DormantRatio))

	now := time.Now().UTC()
	candidates := make([]candidatePayload, config.NumCandidates)
	for i := range candidates {
		line := pick(serviceLineNames)
		skills := pickN(serviceLines[line], 4+randIndex(4))
		title := pick(titles[line])

		years := randFloat() * juniorYearsMax
		if randFloat() > 0.4 {
			years = seniorYearsBase + randFloat()*seniorYearsSpan
		}

		var lastApplication string
		if randFloat() < config.DormantRatio {
			age := dormantMinAgeDays + randIndex(dormantAgeSpreadDay)
			lastApplication = now.AddDate(0, 0, -age).Format(dateLayout)
		} else if randFloat() > 0.3 {
			lastApplication = now.AddDate(0, 0, -randIndex(recentMaxAgeDays)).Format(dateLayout)
		}

		candidates[i] = candidatePayload{
			ID:                  "cand-" + uuid.New().String(),
			Name:                pick(firstNames) + " " + pick(lastNames),
			CurrentTitle:        title,
			Summary:             title + " with a focus on " + strings.Join(skills[:2], " and "),
			Skills:              skills,
			Languages:           pickN(languages, 1+randIndex(2)),
			Certifications:      pickN(certifications[line], randIndex(2)),
			YearsExperience:     years,
			ServiceLine:         line,
			Location:            pick(locations),
			RemotePreference:    pick(remoteModes),
			LastApplicationDate: lastApplication,
		}
	}

	stats.CandidatesGenerated = len(candidates)
	logger.Get().Info(ctx, "generated candidates successfully", logger.Int("count", len(candidates)))
	return candidates
}

// generateJobs creates synthetic job postings across the service lines.
func generateJobs(ctx context.Context, config *Config) []jobPayload {
	logger.Get().Info(ctx, "generating jobs", logger.Int("numJobs", config.NumJobs))

	jobs := make([]jobPayload, config.NumJobs)
	for i := range jobs {
		line := serviceLineNames[i%len(serviceLineNames)]
		skills := pickN(serviceLines[line], 3+randIndex(3))
		title := pick(titles[line])
		minYears := float64(randIndex(6))

		jobs[i] = jobPayload{
			ID:             "job-" + uuid.New().String(),
			Title:          title,
			Description:    "We are hiring a " + title + " working with " + strings.Join(skills, ", ") + ".",
			RequiredSkills: skills,
			MinYears:       minYears,
			MaxYears:       minYears + 4 + float64(randIndex(6)),
			Location:       pick(locations),
			Remote:         pick(remoteModes),
			ServiceLine:    line,
		}
	}
	return jobs
}

// generateApplications pairs random candidates with random jobs. Pairs may
// repeat so the service's duplicate handling gets exercised.
func generateApplications(ctx context.Context, config *Config, candidates []candidatePayload, jobs []jobPayload) []applicationPayload {
	logger.Get().Info(ctx, "generating applications", logger.Int("numApplications", config.NumApplications))

	now := time.Now().UTC()
	applications := make([]applicationPayload, config.NumApplications)
	for i := range applications {
		applications[i] = applicationPayload{
			CandidateID: candidates[randIndex(len(candidates))].ID,
			JobID:       jobs[randIndex(len(jobs))].ID,
			AppliedAt:   now.AddDate(0, 0, -randIndex(recentMaxAgeDays)).Format(dateLayout),
		}
	}
	return applications
}
