// internal/workers/data-access/index-audit/config.go
package indexaudit

import "time"

type Config struct {
	Timeout time.Duration
	Index   string
}

func LoadConfig(index string) *Config {
	if index == "" {
		index = "execution-audits"
	}
	return &Config{
		Timeout: 10 * time.Second,
		Index:   index,
	}
}
