// internal/workers/review/validate-consistency/config.go
package validateconsistency

import (
	"time"

	"archai-workers/internal/common/config"
)

type Config struct {
	Timeout    time.Duration
	Penalty    int
	RuleGroups []string
}

func LoadConfig(pipeline config.PipelineConfig) *Config {
	return &Config{
		Timeout:    5 * time.Second,
		Penalty:    pipeline.CritiquePenalty,
		RuleGroups: pipeline.RuleGroups,
	}
}
