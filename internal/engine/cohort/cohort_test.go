// internal/engine/cohort/cohort_test.go
package cohort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kjet-workers/internal/models"
)

func TestByID_KnownCohorts(t *testing.T) {
	tests := []struct {
		id              string
		topN            int
		priorityCount   int
		blendAlternates bool
	}{
		{"cohort-2024", 2, 4, false},
		{"cohort-2025", 6, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			cfg, err := ByID(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.id, cfg.ID)
			assert.Equal(t, tt.topN, cfg.TopN)
			assert.Len(t, cfg.PriorityCategories, tt.priorityCount)
			assert.Equal(t, tt.blendAlternates, cfg.BlendAlternates)
		})
	}
}

func TestByID_UnknownCohort(t *testing.T) {
	_, err := ByID("cohort-1999")
	assert.Error(t, err)
}

func TestValidate_WeightSum(t *testing.T) {
	cfg := Cohort2024()
	require.NoError(t, cfg.Validate())

	cfg.Weights[models.CriterionProposal] = 0.30
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum")
}

func TestValidate_MissingCriterion(t *testing.T) {
	cfg := Cohort2025()
	delete(cfg.Weights, models.CriterionValueChain)
	assert.Error(t, cfg.Validate())
}

func TestValidate_ExtraCriterion(t *testing.T) {
	cfg := Cohort2024()
	cfg.Weights["innovation"] = 0.0
	assert.Error(t, cfg.Validate())
}

func TestValidate_UnknownTieBreak(t *testing.T) {
	cfg := Cohort2024()
	cfg.TieBreakOrder = append(cfg.TieBreakOrder, models.Criterion("charisma"))
	assert.Error(t, cfg.Validate())
}

func TestValidate_TopN(t *testing.T) {
	cfg := Cohort2024()
	cfg.TopN = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_AlternateBand(t *testing.T) {
	cfg := Cohort2025()
	cfg.AlternateBand = RankBand{Low: 4, High: 3}
	assert.Error(t, cfg.Validate())
}

func TestTierRules(t *testing.T) {
	c2024 := Cohort2024()
	assert.Equal(t, TierEmerging, c2024.TierRule(map[models.Criterion]int{
		models.CriterionFinancial: 5,
		models.CriterionMarket:    5,
	}))

	c2025 := Cohort2025()
	assert.Equal(t, TierReadyToScale, c2025.TierRule(map[models.Criterion]int{
		models.CriterionFinancial: 4,
		models.CriterionMarket:    4,
	}))
	assert.Equal(t, TierEmerging, c2025.TierRule(map[models.Criterion]int{
		models.CriterionFinancial: 5,
		models.CriterionMarket:    3,
	}))
}

func TestRankBandContains(t *testing.T) {
	band := RankBand{Low: 3, High: 4}
	assert.False(t, band.Contains(2))
	assert.True(t, band.Contains(3))
	assert.True(t, band.Contains(4))
	assert.False(t, band.Contains(5))
}
