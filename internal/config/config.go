// Package config provides configuration loading for mailroom.
//
// Configuration is loaded from an optional YAML file, then overridden by
// environment variables, then backfilled with defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/mailroom/internal/confidence"
	"github.com/fyrsmithlabs/mailroom/internal/routing"
)

// Config holds the complete mailroom configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Corpus   CorpusConfig   `koanf:"corpus"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Feedback FeedbackConfig `koanf:"feedback"`
	Routing  routing.Config `koanf:"routing"`
	Triage   TriageConfig   `koanf:"triage"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `koanf:"http_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logger construction settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// CorpusConfig holds knowledge-base ingestion settings.
type CorpusConfig struct {
	// Dir is the directory of YAML knowledge documents loaded at startup.
	Dir string `koanf:"dir"`

	// Watch ingests documents dropped into Dir while running.
	Watch bool `koanf:"watch"`
}

// AnalysisConfig holds pipeline settings.
type AnalysisConfig struct {
	StageDelay time.Duration      `koanf:"stage_delay"`
	Confidence confidence.Weights `koanf:"confidence"`
}

// FeedbackConfig holds correction application settings.
type FeedbackConfig struct {
	ConfidenceDelta float64 `koanf:"confidence_delta"`
}

// TriageConfig holds service facade settings.
type TriageConfig struct {
	SearchTopK int `koanf:"search_top_k"`
}

// applyDefaults backfills zero values with defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8710
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if len(cfg.Analysis.Confidence.StageBases) == 0 {
		cfg.Analysis.Confidence = confidence.DefaultWeights()
	}
	if cfg.Feedback.ConfidenceDelta == 0 {
		cfg.Feedback.ConfidenceDelta = 0.05
	}
	if len(cfg.Routing.Departments) == 0 {
		cfg.Routing.Departments = routing.DefaultConfig().Departments
	}
	if cfg.Routing.FallbackDepartment == "" {
		cfg.Routing.FallbackDepartment = routing.DefaultConfig().FallbackDepartment
	}
	if cfg.Triage.SearchTopK == 0 {
		cfg.Triage.SearchTopK = 10
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %q (must be json or console)", c.Logging.Format)
	}

	if c.Feedback.ConfidenceDelta < 0 {
		return errors.New("feedback confidence delta cannot be negative")
	}

	w := c.Analysis.Confidence
	if w.Floor < 0 || w.InitialCap > 1 || w.Floor > w.InitialCap {
		return fmt.Errorf("invalid confidence bounds: floor=%v cap=%v", w.Floor, w.InitialCap)
	}
	for i := 1; i < len(w.StageBases); i++ {
		if w.StageBases[i] < w.StageBases[i-1] {
			return fmt.Errorf("stage bases must be non-decreasing: %v", w.StageBases)
		}
	}

	if c.Triage.SearchTopK <= 0 {
		return errors.New("search top k must be positive")
	}
	return nil
}
