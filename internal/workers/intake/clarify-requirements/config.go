// internal/workers/intake/clarify-requirements/config.go
package clarifyrequirements

import (
	"time"

	"archai-workers/internal/common/config"
)

type Config struct {
	Timeout          time.Duration
	ReasoningTimeout time.Duration
	ExecutionMode    string
	ClarityThreshold int
	MaxQuestions     int
}

func LoadConfig(pipeline config.PipelineConfig, reasoning config.ReasoningConfig) *Config {
	cfg := &Config{
		Timeout:          30 * time.Second,
		ReasoningTimeout: 15 * time.Second,
		ExecutionMode:    pipeline.ExecutionMode,
		ClarityThreshold: pipeline.ClarityThreshold,
		MaxQuestions:     pipeline.MaxQuestions,
	}
	if reasoning.Timeout > 0 {
		cfg.ReasoningTimeout = config.GetDuration(reasoning.Timeout)
	}
	if cfg.ExecutionMode == "" {
		cfg.ExecutionMode = config.ExecutionModeDemo
	}
	if cfg.ClarityThreshold <= 0 {
		cfg.ClarityThreshold = 85
	}
	if cfg.MaxQuestions <= 0 || cfg.MaxQuestions > 7 {
		cfg.MaxQuestions = 7
	}
	return cfg
}
