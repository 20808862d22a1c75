// internal/engine/evaluator/evaluator_test.go
package evaluator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kjet-workers/internal/common/logger"
	"kjet-workers/internal/models"
)

// structuredApp builds a cohort-2025 application that clears every gate.
// Band knobs: turnover drives financial, exports drives market, objectives
// length drives proposal, womanOwned drives inclusivity.
func structuredApp(id, turnover string, exports bool, womanOwned bool) models.ApplicationRecord {
	meta := map[string]interface{}{
		"registration_status": "self help group",
		"value_chain":         "dairy processing",
		"turnover_2024":       turnover,
	}
	if exports {
		meta["exports_percent"] = "10"
	}
	if womanOwned {
		meta["woman_owned_enterprise"] = "yes"
	}
	return models.ApplicationRecord{
		ID:                 id,
		Region:             "Nakuru",
		StructuredMetadata: meta,
	}
}

func newEvaluator(t *testing.T, cohortID string) *Evaluator {
	t.Helper()
	e, err := ForCohortID(cohortID, logger.NewNoOpLogger())
	require.NoError(t, err)
	return e
}

func TestForCohortID_UnknownCohort(t *testing.T) {
	_, err := ForCohortID("cohort-1999", logger.NewNoOpLogger())
	assert.Error(t, err)
}

func TestEvaluateRegion_SeparatesIneligible(t *testing.T) {
	e := newEvaluator(t, "cohort-2025")
	apps := []models.ApplicationRecord{
		structuredApp("good-1", "2,000,000", false, false),
		{
			ID:     "bad-1",
			Region: "Nakuru",
			StructuredMetadata: map[string]interface{}{
				"registration_status": "unregistered",
				"value_chain":         "dairy",
			},
		},
	}

	result, err := e.EvaluateRegion(context.Background(), "Nakuru", apps, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.TotalApplications)
	assert.Equal(t, 1, result.Summary.Eligible)
	assert.Equal(t, 1, result.Summary.Ineligible)
	require.Len(t, result.Ineligible, 1)
	assert.Equal(t, "bad-1", result.Ineligible[0].ApplicationID)
	assert.Contains(t, result.Ineligible[0].FailedCriteria, models.GateRegistration)
	assert.Equal(t, 1, result.Summary.GateFailures[models.GateRegistration])

	require.Len(t, result.Ranked, 1)
	assert.Equal(t, "good-1", result.Ranked[0].ApplicationID)
	assert.Equal(t, 1, result.Ranked[0].Rank)
	assert.Equal(t, models.OriginCurrent, result.Ranked[0].Origin)
}

func TestEvaluateRegion_FallbackAndDuplicateIDs(t *testing.T) {
	e := newEvaluator(t, "cohort-2025")
	apps := []models.ApplicationRecord{
		structuredApp("", "2,000,000", false, false),
		structuredApp("dup", "2,000,000", false, false),
		structuredApp("dup", "2,000,000", false, false),
	}

	result, err := e.EvaluateRegion(context.Background(), "Nakuru", apps, nil)
	require.NoError(t, err)
	require.Len(t, result.Ranked, 3)

	ids := make(map[string]bool)
	for _, entry := range result.Ranked {
		ids[entry.ApplicationID] = true
	}
	assert.True(t, ids["unknown_1"])
	assert.True(t, ids["dup"])
	assert.True(t, ids["dup_1"])
}

func TestEvaluateRegion_BlendsAlternatesBeforeRanking(t *testing.T) {
	e := newEvaluator(t, "cohort-2025")

	// Six mid-band applicants at 63 and one stronger at 71.
	apps := []models.ApplicationRecord{structuredApp("strong", "12,000,000", false, false)}
	for i := 1; i <= 6; i++ {
		apps = append(apps, structuredApp(fmt.Sprintf("mid-%d", i), "2,000,000", false, false))
	}

	carried := []models.RankedEntry{{
		ApplicationID: "C1_ALT1",
		Region:        "Nakuru",
		Origin:        models.OriginAlternate,
		Scores: &models.ScoreBreakdown{
			Raw: map[models.Criterion]int{
				models.CriterionFinancial: 4,
				models.CriterionMarket:    4,
			},
			Composite: 72.0,
		},
	}}

	result, err := e.EvaluateRegion(context.Background(), "Nakuru", apps, carried)
	require.NoError(t, err)
	require.Len(t, result.Ranked, 8)

	// The alternate outscores everyone and takes a top-N slot.
	assert.Equal(t, "C1_ALT1", result.Ranked[0].ApplicationID)
	assert.Equal(t, models.OriginAlternate, result.Ranked[0].Origin)
	assert.NotEmpty(t, result.Ranked[0].Tier)

	// Ranks stay contiguous and the cut moves down one slot.
	for i, entry := range result.Ranked {
		assert.Equal(t, i+1, entry.Rank)
	}
	assert.NotEmpty(t, result.Ranked[5].Tier)
	assert.Empty(t, result.Ranked[6].Tier)
	assert.Empty(t, result.Ranked[7].Tier)
}

func TestEvaluateRegion_IgnoresAlternatesWhenCohortDisablesBlending(t *testing.T) {
	e := newEvaluator(t, "cohort-2024")
	apps := []models.ApplicationRecord{{
		ID:      "app-1",
		Region:  "Nakuru",
		Content: "Registered dairy cooperative in Nakuru county, Soin ward. Bank statement attached. Contact 0712345678.",
	}}
	carried := []models.RankedEntry{{
		ApplicationID: "C1_ALT1",
		Origin:        models.OriginAlternate,
		Scores:        &models.ScoreBreakdown{Composite: 99},
	}}

	result, err := e.EvaluateRegion(context.Background(), "Nakuru", apps, carried)
	require.NoError(t, err)

	require.Len(t, result.Ranked, 1)
	assert.Equal(t, "app-1", result.Ranked[0].ApplicationID)
}

func TestEvaluateRegion_CanonicalizesRegionName(t *testing.T) {
	e := newEvaluator(t, "cohort-2025")

	result, err := e.EvaluateRegion(context.Background(), "Homa_Bay", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Homa Bay", result.Region)
}

func TestEvaluateRegion_SummaryStatistics(t *testing.T) {
	e := newEvaluator(t, "cohort-2025")
	apps := []models.ApplicationRecord{
		structuredApp("a", "12,000,000", true, true),  // high band
		structuredApp("b", "2,000,000", false, false), // mid band
	}

	result, err := e.EvaluateRegion(context.Background(), "Nakuru", apps, nil)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.Summary.EligibilityRate, 0.001)
	assert.Equal(t, result.Ranked[0].Scores.Composite, result.Summary.HighestScore)
	assert.Equal(t, result.Ranked[1].Scores.Composite, result.Summary.LowestScore)
	assert.Greater(t, result.Summary.AverageScore, result.Summary.LowestScore)

	bandTotal := 0
	for _, n := range result.Summary.ScoreDistribution {
		bandTotal += n
	}
	assert.Equal(t, len(result.Ranked), bandTotal)
}

func TestEvaluateRegion_ContextCancellation(t *testing.T) {
	e := newEvaluator(t, "cohort-2025")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.EvaluateRegion(ctx, "Nakuru",
		[]models.ApplicationRecord{structuredApp("a", "2,000,000", false, false)}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_MergesRegionsDeterministically(t *testing.T) {
	e := newEvaluator(t, "cohort-2025")
	regions := map[string][]models.ApplicationRecord{
		"Nakuru": {
			structuredApp("n1", "12,000,000", false, false),
			structuredApp("n2", "2,000,000", false, false),
		},
		"Kisumu": {
			structuredApp("k1", "2,000,000", false, true),
		},
	}
	carried := map[string][]models.RankedEntry{
		"Kisumu": {{
			ApplicationID: "C1_K9",
			Region:        "Kisumu",
			Origin:        models.OriginAlternate,
			Scores:        &models.ScoreBreakdown{Raw: map[models.Criterion]int{}, Composite: 70},
		}},
	}

	run, err := e.Run(context.Background(), regions, carried)
	require.NoError(t, err)

	require.Len(t, run.Regions, 2)
	assert.Equal(t, "Kisumu", run.Regions[0].Region)
	assert.Equal(t, "Nakuru", run.Regions[1].Region)
	assert.Equal(t, "cohort-2025", run.Cohort)
	assert.NotEmpty(t, run.RunID)

	assert.Equal(t, 2, run.Totals.Regions)
	assert.Equal(t, 3, run.Totals.Applications)
	assert.Equal(t, 3, run.Totals.Eligible)
	assert.Equal(t, 4, run.Totals.Scored)
	assert.Equal(t, 1, run.Totals.Alternates)

	// Same inputs, same ranked output.
	again, err := e.Run(context.Background(), regions, carried)
	require.NoError(t, err)
	assert.Equal(t, run.Regions, again.Regions)
	assert.Equal(t, run.Totals, again.Totals)
}

func TestRun_CancelledContext(t *testing.T) {
	e := newEvaluator(t, "cohort-2025")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, map[string][]models.ApplicationRecord{
		"Nakuru": {structuredApp("a", "2,000,000", false, false)},
	}, nil)
	assert.Error(t, err)
}
