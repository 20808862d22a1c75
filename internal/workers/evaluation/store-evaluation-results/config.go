// internal/workers/evaluation/store-evaluation-results/config.go
package storeevaluationresults

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
