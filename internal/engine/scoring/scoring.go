// internal/engine/scoring/scoring.go
// Package scoring assigns the six rubric criteria their 0-5 raw scores and
// folds them into the weighted 0-100 composite.
package scoring

import (
	"time"

	"kjet-workers/internal/engine/cohort"
	"kjet-workers/internal/models"
)

// Policy produces the six raw criterion scores for one eligible application.
// Implementations must clamp every score to [0, 5].
type Policy interface {
	Score(app *models.ApplicationRecord, content string) map[models.Criterion]int
}

// ForCohort selects the scoring policy matching the cohort's intake shape.
// The 2025 round scores structured registry metadata and falls back to the
// content heuristics for records that arrived without it.
func ForCohort(cfg *cohort.Config) Policy {
	contentPolicy := &ContentPolicy{cfg: cfg, ReferenceYear: time.Now().Year()}
	if cfg.ID == "cohort-2025" {
		return &StructuredPolicy{fallback: contentPolicy}
	}
	return contentPolicy
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 5 {
		return 5
	}
	return score
}
