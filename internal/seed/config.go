package seed

import "time"

// Config holds configuration for the seed run
type Config struct {
	BaseURL         string        // Base URL of the service
	NumCandidates   int           // Number of candidates to generate
	NumJobs         int           // Number of jobs to generate
	NumApplications int           // Number of applications to submit
	DormantRatio    float64       // Fraction of candidates seeded as dormant
	TopK            int           // Number of matches to request per job
	Workers         int           // Number of concurrent workers
	Timeout         time.Duration // HTTP request timeout
	LogFile         string        // Log file for seed output
	Verbose         bool          // Enable verbose logging
}

// candidatePayload mirrors the POST /candidates request schema.
type candidatePayload struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	CurrentTitle        string   `json:"current_title"`
	Summary             string   `json:"summary"`
	Skills              []string `json:"skills"`
	Languages           []string `json:"languages,omitempty"`
	Certifications      []string `json:"certifications,omitempty"`
	YearsExperience     float64  `json:"years_experience"`
	ServiceLine         string   `json:"service_line"`
	Location            string   `json:"location"`
	RemotePreference    string   `json:"remote_preference"`
	LastApplicationDate string   `json:"last_application_date,omitempty"`
}

// jobPayload mirrors the POST /jobs request schema.
type jobPayload struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	MinYears       float64  `json:"years_experience_min"`
	MaxYears       float64  `json:"years_experience_max"`
	Location       string   `json:"location"`
	Remote         string   `json:"remote"`
	ServiceLine    string   `json:"service_line"`
}

// applicationPayload mirrors the POST /applications request schema.
type applicationPayload struct {
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`
	AppliedAt   string `json:"applied_at"`
}

// matchPayload mirrors the POST /match request schema.
type matchPayload struct {
	JobID      string `json:"job_id"`
	TopK       int    `json:"top_k"`
	OpenSearch bool   `json:"open_search"`
}

// dormantPayload mirrors the POST /dormant request schema.
type dormantPayload struct {
	JobID    string  `json:"job_id"`
	MinScore float64 `json:"min_score"`
}

// AckResponse represents the response from application submission
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds seed run statistics
type Stats struct {
	CandidatesGenerated   int
	CandidatesSubmitted   int
	JobsSubmitted         int
	ApplicationsSubmitted int
	ApplicationsAccepted  int
	ApplicationsDuplicate int
	ApplicationsFailed    int
	MatchReportsRetrieved int
	DormantAlertsFound    int
	StartTime             time.Time
	EndTime               time.Time
	Duration              time.Duration
}
