// internal/workers/analysis/select-archetype/config.go
package selectarchetype

import "time"

type Config struct {
	Timeout              time.Duration
	StabilityFloor       int
	TightTimelineDays    int
	MicroservicesMinDays int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:              5 * time.Second,
		StabilityFloor:       50,
		TightTimelineDays:    60,
		MicroservicesMinDays: 365,
	}
}
