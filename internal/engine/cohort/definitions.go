// internal/engine/cohort/definitions.go
package cohort

import (
	"fmt"

	"kjet-workers/internal/models"
)

// Tier labels shared by both cohorts.
const (
	TierReadyToScale = "Tier 1: Ready-to-Scale"
	TierEmerging     = "Tier 2: Emerging"
)

// Both cohorts use the same rubric weights; they diverge on gates, scoring
// tables, tie-breaks and tier rules.
func rubricWeights() map[models.Criterion]float64 {
	return map[models.Criterion]float64{
		models.CriterionRegistration: 0.05,
		models.CriterionFinancial:    0.20,
		models.CriterionMarket:       0.20,
		models.CriterionProposal:     0.25,
		models.CriterionValueChain:   0.10,
		models.CriterionInclusivity:  0.20,
	}
}

// Cohort2024 is the first-round cohort: four priority value chains, two
// winners per region, uniform Tier 2 within the cut.
func Cohort2024() *Config {
	return &Config{
		ID:      "cohort-2024",
		Weights: rubricWeights(),
		PriorityCategories: []string{
			"dairy", "textiles", "construction", "leather",
		},
		TieBreakOrder: []models.Criterion{
			models.CriterionProposal,
			models.CriterionFinancial,
		},
		TopN: 2,
		TierRule: func(raw map[models.Criterion]int) string {
			return TierEmerging
		},
	}
}

// Cohort2025 is the second-round cohort: ten priority value chains, six
// winners per region, readiness-based tiering, and carry-over of the prior
// round's rank 3-4 alternates.
func Cohort2025() *Config {
	return &Config{
		ID:      "cohort-2025",
		Weights: rubricWeights(),
		PriorityCategories: []string{
			"edible oils", "dairy", "textiles", "construction", "rice",
			"tea", "blue economy", "minerals", "forestry", "leather",
		},
		TieBreakOrder: []models.Criterion{
			models.CriterionProposal,
			models.CriterionMarket,
			models.CriterionFinancial,
			models.CriterionInclusivity,
			models.CriterionRegistration,
		},
		TopN: 6,
		TierRule: func(raw map[models.Criterion]int) string {
			if raw[models.CriterionFinancial] >= 4 && raw[models.CriterionMarket] >= 4 {
				return TierReadyToScale
			}
			return TierEmerging
		},
		BlendAlternates: true,
		AlternateBand:   RankBand{Low: 3, High: 4},
	}
}

// ByID resolves a cohort identifier to its validated configuration.
func ByID(id string) (*Config, error) {
	var cfg *Config
	switch id {
	case "cohort-2024":
		cfg = Cohort2024()
	case "cohort-2025":
		cfg = Cohort2025()
	default:
		return nil, fmt.Errorf("unknown cohort %q", id)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
