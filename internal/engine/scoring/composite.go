// internal/engine/scoring/composite.go
package scoring

import (
	"math"

	"kjet-workers/internal/models"
)

// Grade labels for composite score bands.
const (
	GradeExcellent = "Excellent"
	GradeGood      = "Good"
	GradeFair      = "Fair"
	GradePoor      = "Poor"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Composite folds raw 0-5 criterion scores into the weighted 0-100 breakdown.
// Raw scores are clamped before weighting so a misbehaving policy can never
// push the composite outside [0, 100].
func Composite(raw map[models.Criterion]int, weights map[models.Criterion]float64) *models.ScoreBreakdown {
	breakdown := &models.ScoreBreakdown{
		Raw:        make(map[models.Criterion]int, len(models.Criteria)),
		Normalized: make(map[models.Criterion]float64, len(models.Criteria)),
		Weighted:   make(map[models.Criterion]float64, len(models.Criteria)),
	}

	total := 0.0
	for _, criterion := range models.Criteria {
		score := clamp(raw[criterion])
		normalized := float64(score) * 20
		weighted := normalized * weights[criterion]

		breakdown.Raw[criterion] = score
		breakdown.Normalized[criterion] = normalized
		breakdown.Weighted[criterion] = round2(weighted)
		total += weighted
	}

	breakdown.Composite = round2(total)
	breakdown.Grade = Grade(breakdown.Composite)
	return breakdown
}

// Grade converts a 0-100 composite to its band label.
func Grade(composite float64) string {
	switch {
	case composite >= 80:
		return GradeExcellent
	case composite >= 70:
		return GradeGood
	case composite >= 60:
		return GradeFair
	default:
		return GradePoor
	}
}
