// internal/workers/analysis/analyze-stability/config.go
package analyzestability

import (
	"time"

	"archai-workers/internal/common/config"
	"archai-workers/internal/models"
)

type Config struct {
	Timeout        time.Duration
	Weights        config.SeverityWeights
	Amplifications config.AmplificationConfig
}

func LoadConfig(pipeline config.PipelineConfig) *Config {
	return &Config{
		Timeout:        5 * time.Second,
		Weights:        pipeline.Severity,
		Amplifications: pipeline.Amplification,
	}
}

// Deduction maps a severity onto its configured weight.
func (c *Config) Deduction(sev models.Severity) int {
	switch sev {
	case models.SeverityCritical:
		return c.Weights.Critical
	case models.SeverityWarning:
		return c.Weights.Warning
	default:
		return c.Weights.Info
	}
}
