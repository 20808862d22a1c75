// internal/workers/evaluation/index-rankings/models.go
package indexrankings

import "kjet-workers/internal/models"

type Input struct {
	RunID    string               `json:"runId"`
	Cohort   string               `json:"cohort"`
	Region   string               `json:"region"`
	Rankings []models.RankedEntry `json:"rankings"`
}

type Output struct {
	Indexed   bool   `json:"indexed"`
	Documents int    `json:"documents"`
	Index     string `json:"index"`
}

// rankingDocument is the indexed shape: the ranked entry plus run context so
// dashboards can filter by run and cohort.
type rankingDocument struct {
	RunID  string `json:"runId"`
	Cohort string `json:"cohort"`
	models.RankedEntry
}
