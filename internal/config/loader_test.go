package config_test

import (
	"errors"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/rematch/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Weights.Semantic, convey.ShouldEqual, 0.60)
				convey.So(cfg.Weights.Skills, convey.ShouldEqual, 0.25)
				convey.So(cfg.DormancyThresholdDays, convey.ShouldEqual, 180)
				convey.So(cfg.ExperienceJuniorPenaltyRate, convey.ShouldEqual, 0.15)
				convey.So(cfg.ExperienceJuniorPenaltyCap, convey.ShouldEqual, 0.5)
				convey.So(cfg.ExperienceSeniorPenaltyRate, convey.ShouldEqual, 0.05)
				convey.So(cfg.ExperienceSeniorPenaltyCap, convey.ShouldEqual, 0.3)
				convey.So(cfg.DefaultTopK, convey.ShouldEqual, 10)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.EmbeddingDimensions, convey.ShouldEqual, 384)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("REMATCH_ADDR", ":8080")
			_ = os.Setenv("REMATCH_QUEUE_SIZE", "2000")
			_ = os.Setenv("REMATCH_WORKER_COUNT", "16")
			_ = os.Setenv("REMATCH_DORMANCY_THRESHOLD_DAYS", "90")
			_ = os.Setenv("REMATCH_EXPERIENCE_JUNIOR_PENALTY_RATE", "0.2")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.DormancyThresholdDays, convey.ShouldEqual, 90)
				convey.So(cfg.ExperienceJuniorPenaltyRate, convey.ShouldEqual, 0.2)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
queue_size: 3000
worker_count: 24
dormant_min_score: 0.7
weights:
  semantic: 0.70
  skills: 0.20
  experience: 0.07
  location: 0.03
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("REMATCH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 3000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 24)
				convey.So(cfg.DormantMinScore, convey.ShouldEqual, 0.7)
				convey.So(cfg.Weights.Semantic, convey.ShouldEqual, 0.70)
				convey.So(cfg.Weights.Location, convey.ShouldEqual, 0.03)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
worker_count: 24
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("REMATCH_CONFIG", tmpFile)
			_ = os.Setenv("REMATCH_ADDR", ":8080") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")   // Overridden by env
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 24) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("REMATCH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("REMATCH_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("REMATCH_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		convey.Convey("When the weights do not sum to one", func() {
			cfg := config.New()
			cfg.Weights.Semantic = 0.9

			convey.Convey("Then the process refuses to start", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the recommendation bands are not descending", func() {
			cfg := config.New()
			cfg.Bands.Consider = 0.95

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a tier score leaves the unit interval", func() {
			cfg := config.New()
			cfg.SemanticFloor = 1.5

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When top-k bounds are inverted", func() {
			cfg := config.New()
			cfg.MaxTopK = 5

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an experience penalty cap is zeroed", func() {
			cfg := config.New()
			cfg.ExperienceSeniorPenaltyCap = 0

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When embed latency bounds are inverted via env", func() {
			clearConfigEnvVars()
			_ = os.Setenv("REMATCH_EMBED_LATENCY_MIN_MS", "100")
			_ = os.Setenv("REMATCH_EMBED_LATENCY_MAX_MS", "10")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"REMATCH_CONFIG",
		"REMATCH_ADDR",
		"REMATCH_QUEUE_SIZE",
		"REMATCH_WORKER_COUNT",
		"REMATCH_DORMANCY_THRESHOLD_DAYS",
		"REMATCH_EXPERIENCE_JUNIOR_PENALTY_RATE",
		"REMATCH_EMBED_LATENCY_MIN_MS",
		"REMATCH_EMBED_LATENCY_MAX_MS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "rematch-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
