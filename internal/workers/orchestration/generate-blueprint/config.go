// internal/workers/orchestration/generate-blueprint/config.go
package generateblueprint

import (
	"time"

	"archai-workers/internal/common/config"
)

type Config struct {
	Timeout             time.Duration
	SinkTimeout         time.Duration
	ExecutionMode       string
	RepairCap           int
	OrchestratorVersion string
	Pipeline            config.PipelineConfig
	Reasoning           config.ReasoningConfig
}

func LoadConfig(pipeline config.PipelineConfig, reasoning config.ReasoningConfig) *Config {
	cfg := &Config{
		Timeout:             60 * time.Second,
		SinkTimeout:         10 * time.Second,
		ExecutionMode:       pipeline.ExecutionMode,
		RepairCap:           pipeline.RepairCap,
		OrchestratorVersion: pipeline.OrchestratorVersion,
		Pipeline:            pipeline,
		Reasoning:           reasoning,
	}
	if cfg.ExecutionMode == "" {
		cfg.ExecutionMode = config.ExecutionModeDemo
	}
	if cfg.OrchestratorVersion == "" {
		cfg.OrchestratorVersion = "1.3.0"
	}
	return cfg
}
