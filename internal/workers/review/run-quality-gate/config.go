// internal/workers/review/run-quality-gate/config.go
package runqualitygate

import (
	"time"

	"archai-workers/internal/common/config"
)

type Config struct {
	Timeout   time.Duration
	Deduction int
}

func LoadConfig(pipeline config.PipelineConfig) *Config {
	return &Config{
		Timeout:   5 * time.Second,
		Deduction: pipeline.QualityDeduction,
	}
}
