// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New(...Option) initializer to build a Config with defaults.
//   - Validation happens eagerly at load time; a process with bad weights or
//     bands never starts serving.
//   - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"runtime"

	"github.com/okian/rematch/internal/domain/explain"
	"github.com/okian/rematch/internal/domain/scoring"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Weights blends the four score components. Must sum to 1.
	Weights scoring.Weights `koanf:"weights"`

	// Bands holds the recommendation thresholds.
	Bands explain.Bands `koanf:"recommendation_bands"`

	// NeutralSkillsScore is used when a job lists no required skills.
	NeutralSkillsScore float64 `koanf:"neutral_skills_score"`

	// SemanticFloor is assigned to pool members the vector index did not
	// return.
	SemanticFloor float64 `koanf:"semantic_floor"`

	// LocationRemoteTier and LocationMismatchTier configure the partial
	// location-score tiers.
	LocationRemoteTier   float64 `koanf:"location_remote_tier"`
	LocationMismatchTier float64 `koanf:"location_mismatch_tier"`

	// Experience penalty tuning. Junior candidates lose rate per missing
	// year up to the cap; senior candidates lose rate per excess year up
	// to the cap.
	ExperienceJuniorPenaltyRate float64 `koanf:"experience_junior_penalty_rate"`
	ExperienceJuniorPenaltyCap  float64 `koanf:"experience_junior_penalty_cap"`
	ExperienceSeniorPenaltyRate float64 `koanf:"experience_senior_penalty_rate"`
	ExperienceSeniorPenaltyCap  float64 `koanf:"experience_senior_penalty_cap"`

	// DormancyThresholdDays is how many days without an application make a
	// candidate dormant.
	DormancyThresholdDays int `koanf:"dormancy_threshold_days"`

	// DormantMinScore is the default alert threshold for dormant detection.
	DormantMinScore float64 `koanf:"dormant_min_score"`

	// EvolutionWeight, EvolutionCapMonths, and EvolutionMaxBonus configure
	// the dormancy growth bonus.
	EvolutionWeight    float64 `koanf:"evolution_weight"`
	EvolutionCapMonths float64 `koanf:"evolution_cap_months"`
	EvolutionMaxBonus  float64 `koanf:"evolution_max_bonus"`

	// DefaultTopK and MaxTopK bound how many matches a request returns.
	DefaultTopK int `koanf:"default_top_k"`
	MaxTopK     int `koanf:"max_top_k"`

	// QueueSize bounds the in-memory application ingest queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingest workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// EmbeddingDimensions sets the embedder's vector size.
	EmbeddingDimensions int `koanf:"embedding_dimensions"`

	// EmbedLatencyMinMS and EmbedLatencyMaxMS simulate external model
	// latency bounds. Zero max disables the delay.
	EmbedLatencyMinMS int `koanf:"embed_latency_min_ms"`
	EmbedLatencyMaxMS int `koanf:"embed_latency_max_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                    "info",
		Addr:                        ":9080",
		Weights:                     scoring.DefaultWeights(),
		Bands:                       explain.DefaultBands(),
		NeutralSkillsScore:          0.8,
		SemanticFloor:               0.3,
		LocationRemoteTier:          0.9,
		LocationMismatchTier:        0.3,
		ExperienceJuniorPenaltyRate: 0.15,
		ExperienceJuniorPenaltyCap:  0.5,
		ExperienceSeniorPenaltyRate: 0.05,
		ExperienceSeniorPenaltyCap:  0.3,
		DormancyThresholdDays:       180,
		DormantMinScore:             0.6,
		EvolutionWeight:             0.2,
		EvolutionCapMonths:          24,
		EvolutionMaxBonus:           0.5,
		DefaultTopK:                 10,
		MaxTopK:                     100,
		QueueSize:                   10_000,
		WorkerCount:                 runtime.NumCPU() * 4,
		DedupeSize:                  50_000,
		EmbeddingDimensions:         384,
		EmbedLatencyMinMS:           0,
		EmbedLatencyMaxMS:           0,
	}
}

// Validate checks every tunable the scoring pipeline depends on.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Bands.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for name, v := range map[string]float64{
		"neutral_skills_score":   c.NeutralSkillsScore,
		"semantic_floor":         c.SemanticFloor,
		"location_remote_tier":   c.LocationRemoteTier,
		"location_mismatch_tier": c.LocationMismatchTier,
		"dormant_min_score":      c.DormantMinScore,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s %.3f outside [0,1]", ErrInvalidConfig, name, v)
		}
	}
	if c.ExperienceJuniorPenaltyRate <= 0 || c.ExperienceJuniorPenaltyCap <= 0 ||
		c.ExperienceSeniorPenaltyRate <= 0 || c.ExperienceSeniorPenaltyCap <= 0 {
		return fmt.Errorf("%w: experience penalty rates and caps must be positive", ErrInvalidConfig)
	}
	if c.ExperienceJuniorPenaltyCap > 1 || c.ExperienceSeniorPenaltyCap > 1 {
		return fmt.Errorf("%w: experience penalty caps must not exceed 1", ErrInvalidConfig)
	}
	if c.DormancyThresholdDays <= 0 {
		return fmt.Errorf("%w: dormancy_threshold_days must be positive", ErrInvalidConfig)
	}
	if c.EvolutionWeight < 0 || c.EvolutionCapMonths <= 0 || c.EvolutionMaxBonus < 0 {
		return fmt.Errorf("%w: evolution parameters out of range", ErrInvalidConfig)
	}
	if c.DefaultTopK <= 0 || c.MaxTopK < c.DefaultTopK {
		return fmt.Errorf("%w: top-k bounds are inconsistent", ErrInvalidConfig)
	}
	if c.QueueSize <= 0 || c.WorkerCount <= 0 {
		return fmt.Errorf("%w: queue and worker sizes must be positive", ErrInvalidConfig)
	}
	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("%w: embedding_dimensions must be positive", ErrInvalidConfig)
	}
	if c.EmbedLatencyMaxMS < c.EmbedLatencyMinMS {
		return fmt.Errorf("%w: embed latency bounds are inverted", ErrInvalidConfig)
	}
	return nil
}
