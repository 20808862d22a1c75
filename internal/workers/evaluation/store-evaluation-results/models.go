// internal/workers/evaluation/store-evaluation-results/models.go
package storeevaluationresults

import "kjet-workers/internal/models"

type Input struct {
	RunID   string                `json:"runId"`
	Cohort  string                `json:"cohort"`
	Regions []models.RegionResult `json:"regions"`
	Totals  models.RunTotals      `json:"totals"`
}

type Output struct {
	Stored     bool   `json:"stored"`
	RunID      string `json:"runId"`
	RankedRows int    `json:"rankedRows"`
}
