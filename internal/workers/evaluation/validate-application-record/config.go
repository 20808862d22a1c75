// internal/workers/evaluation/validate-application-record/config.go
package validateapplicationrecord

import "time"

// No per-worker config needed, but struct provided for consistency
type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
