// internal/workers/data-access/persist-blueprint/config.go
package persistblueprint

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
