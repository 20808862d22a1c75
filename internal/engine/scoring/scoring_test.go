// internal/engine/scoring/scoring_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kjet-workers/internal/engine/cohort"
	"kjet-workers/internal/models"
)

func newContentPolicy() *ContentPolicy {
	return &ContentPolicy{cfg: cohort.Cohort2024(), ReferenceYear: 2024}
}

func TestForCohort(t *testing.T) {
	assert.IsType(t, &ContentPolicy{}, ForCohort(cohort.Cohort2024()))
	assert.IsType(t, &StructuredPolicy{}, ForCohort(cohort.Cohort2025()))
}

func TestContentPolicy_RegistrationTrackRecord(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"long track record with governance", "5 years operational with board meetings and minutes", 5},
		{"young with leadership", "2 years in business led by our chairperson", 4},
		{"registered only", "a registered producer group", 3},
		{"vague company mention", "a company selling produce", 1},
		{"no evidence", "we sell produce", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := newContentPolicy().Score(&models.ApplicationRecord{}, tt.content)
			assert.Equal(t, tt.want, scores[models.CriterionRegistration])
		})
	}
}

func TestContentPolicy_FinancialPosition(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"high turnover with trend and proof", "turnover of 12 million kes showing growth, bank statement attached", 5},
		{"mid turnover with proof", "turnover was 6,000,000 last year, bank statement attached", 4},
		{"low turnover with proof", "turnover was 1,500,000, mpesa statement available", 3},
		{"statements only", "bank statement attached", 2},
		{"thin evidence", "we plan to open a bank account", 1},
		{"nothing", "we sell produce", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := newContentPolicy().Score(&models.ApplicationRecord{}, tt.content)
			assert.Equal(t, tt.want, scores[models.CriterionFinancial])
		})
	}
}

func TestContentPolicy_MarketDemand(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"full evidence", "supply agreement in place, wholesale and retail channels, repeat customers, quality assurance certification", 5},
		{"consistent orders", "monthly orders through our retail shop with quality assurance", 4},
		{"sales one channel", "regular sales at our retail shop", 3},
		{"sales only", "occasional sales to neighbours", 2},
		{"market mention", "there is strong demand locally", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := newContentPolicy().Score(&models.ApplicationRecord{}, tt.content)
			assert.Equal(t, tt.want, scores[models.CriterionMarket])
		})
	}
}

func TestContentPolicy_BusinessProposal(t *testing.T) {
	content := "our objectives and targets are laid out in the plan with a costed budget"
	scores := newContentPolicy().Score(&models.ApplicationRecord{}, content)
	assert.Equal(t, 4, scores[models.CriterionProposal])
}

func TestContentPolicy_ValueChainAlignment(t *testing.T) {
	policy := newContentPolicy()

	scores := policy.Score(&models.ApplicationRecord{},
		"dairy processing and aggregation with linkages upstream")
	assert.Equal(t, 5, scores[models.CriterionValueChain])

	scores = policy.Score(&models.ApplicationRecord{}, "wheat farming on two acres")
	assert.Equal(t, 1, scores[models.CriterionValueChain])
}

func TestContentPolicy_Inclusivity(t *testing.T) {
	content := "women and youth groups practice recycling and sustainable production"
	scores := newContentPolicy().Score(&models.ApplicationRecord{}, content)
	assert.Equal(t, 4, scores[models.CriterionInclusivity])
}

func TestStructuredPolicy_Bands(t *testing.T) {
	policy := ForCohort(cohort.Cohort2025())
	app := &models.ApplicationRecord{
		ID: "app-1",
		StructuredMetadata: map[string]interface{}{
			"registration_status":    "Private Company",
			"turnover_2024":          "12,000,000",
			"exports_percent":        "15",
			"business_objectives":    "expand cold chain capacity across three counties and add a packaging line",
			"woman_owned_enterprise": "Yes",
		},
	}

	scores := policy.Score(app, "")

	assert.Equal(t, 5, scores[models.CriterionRegistration])
	assert.Equal(t, 5, scores[models.CriterionFinancial])
	assert.Equal(t, 5, scores[models.CriterionMarket])
	assert.Equal(t, 4, scores[models.CriterionProposal])
	assert.Equal(t, 4, scores[models.CriterionValueChain])
	assert.Equal(t, 5, scores[models.CriterionInclusivity])
}

func TestStructuredPolicy_DefaultBands(t *testing.T) {
	policy := ForCohort(cohort.Cohort2025())
	app := &models.ApplicationRecord{
		ID: "app-2",
		StructuredMetadata: map[string]interface{}{
			"registration_status": "self help group",
		},
	}

	scores := policy.Score(app, "")

	assert.Equal(t, 4, scores[models.CriterionRegistration])
	assert.Equal(t, 0, scores[models.CriterionFinancial])
	assert.Equal(t, 3, scores[models.CriterionMarket])
	assert.Equal(t, 3, scores[models.CriterionProposal])
	assert.Equal(t, 3, scores[models.CriterionInclusivity])
}

func TestStructuredPolicy_FallsBackToContent(t *testing.T) {
	policy := ForCohort(cohort.Cohort2025())
	app := &models.ApplicationRecord{ID: "app-3"}

	scores := policy.Score(app, "a registered dairy processing cooperative")

	// Content heuristics, not the structured default bands.
	assert.Equal(t, 3, scores[models.CriterionRegistration])
	assert.NotEqual(t, 4, scores[models.CriterionValueChain])
}

func TestComposite(t *testing.T) {
	raw := map[models.Criterion]int{
		models.CriterionRegistration: 3,
		models.CriterionFinancial:    4,
		models.CriterionMarket:       5,
		models.CriterionProposal:     4,
		models.CriterionValueChain:   4,
		models.CriterionInclusivity:  5,
	}

	breakdown := Composite(raw, cohort.Cohort2024().Weights)

	assert.InDelta(t, 87.0, breakdown.Composite, 0.001)
	assert.Equal(t, GradeExcellent, breakdown.Grade)
	assert.InDelta(t, 60.0, breakdown.Normalized[models.CriterionRegistration], 0.001)
	assert.InDelta(t, 3.0, breakdown.Weighted[models.CriterionRegistration], 0.001)
	assert.InDelta(t, 20.0, breakdown.Weighted[models.CriterionProposal], 0.001)
}

func TestComposite_ClampsOutOfRangeScores(t *testing.T) {
	raw := map[models.Criterion]int{
		models.CriterionRegistration: 9,
		models.CriterionFinancial:    -2,
		models.CriterionMarket:       5,
		models.CriterionProposal:     5,
		models.CriterionValueChain:   5,
		models.CriterionInclusivity:  5,
	}

	breakdown := Composite(raw, cohort.Cohort2024().Weights)

	require.Equal(t, 5, breakdown.Raw[models.CriterionRegistration])
	require.Equal(t, 0, breakdown.Raw[models.CriterionFinancial])
	assert.LessOrEqual(t, breakdown.Composite, 100.0)
	assert.GreaterOrEqual(t, breakdown.Composite, 0.0)
}

func TestComposite_Bounds(t *testing.T) {
	all := func(v int) map[models.Criterion]int {
		m := make(map[models.Criterion]int)
		for _, c := range models.Criteria {
			m[c] = v
		}
		return m
	}

	assert.InDelta(t, 100.0, Composite(all(5), cohort.Cohort2024().Weights).Composite, 0.001)
	assert.InDelta(t, 0.0, Composite(all(0), cohort.Cohort2024().Weights).Composite, 0.001)
	assert.InDelta(t, 60.0, Composite(all(3), cohort.Cohort2024().Weights).Composite, 0.001)
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{85, GradeExcellent},
		{80, GradeExcellent},
		{75, GradeGood},
		{65, GradeFair},
		{59.99, GradePoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Grade(tt.score))
	}
}
