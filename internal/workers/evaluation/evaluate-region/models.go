// internal/workers/evaluation/evaluate-region/models.go
package evaluateregion

import "kjet-workers/internal/models"

type Input struct {
	Cohort string `json:"cohort"`
	Region string `json:"region"`
	// RequestID makes retried jobs idempotent: the same request id returns
	// the cached result instead of re-evaluating the pool.
	RequestID    string                     `json:"requestId,omitempty"`
	Applications []models.ApplicationRecord `json:"applications"`
	Alternates   []models.RankedEntry       `json:"alternates,omitempty"`
}

type Output struct {
	Cohort string               `json:"cohort"`
	Region string               `json:"region"`
	Result *models.RegionResult `json:"result"`
	Cached bool                 `json:"cached"`
}
