// internal/workers/intake/normalize-constraints/config.go
package normalizeconstraints

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
