// internal/workers/evaluation/evaluate-region/config.go
package evaluateregion

import "time"

type Config struct {
	Timeout time.Duration
	// CacheTTL bounds how long a region result stays reusable for job retries.
	CacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  60 * time.Second,
		CacheTTL: 5 * time.Minute,
	}
}
