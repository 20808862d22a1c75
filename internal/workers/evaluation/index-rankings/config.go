// internal/workers/evaluation/index-rankings/config.go
package indexrankings

import "time"

type Config struct {
	Timeout time.Duration
	// Index is the Elasticsearch index that receives ranked entries.
	Index string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		Index:   "evaluation-rankings",
	}
}
