// internal/engine/scoring/structured.go
package scoring

import (
	"strconv"
	"strings"

	"kjet-workers/internal/models"
)

// StructuredPolicy scores from registry metadata bands. Records that arrive
// without any structured metadata fall back to the content heuristics so
// nobody is scored on an empty form.
type StructuredPolicy struct {
	fallback *ContentPolicy
}

func (p *StructuredPolicy) Score(app *models.ApplicationRecord, content string) map[models.Criterion]int {
	if len(app.StructuredMetadata) == 0 {
		return p.fallback.Score(app, content)
	}
	return map[models.Criterion]int{
		models.CriterionRegistration: clamp(registrationBand(app)),
		models.CriterionFinancial:    clamp(financialBand(app)),
		models.CriterionMarket:       clamp(marketBand(app)),
		models.CriterionProposal:     clamp(proposalBand(app)),
		models.CriterionValueChain:   4,
		models.CriterionInclusivity:  clamp(inclusivityBand(app)),
	}
}

var formalEntityTypes = []string{"private company", "limited", "cooperative"}

func registrationBand(app *models.ApplicationRecord) int {
	status := strings.ToLower(app.StructuredField("registration_status"))
	for _, entityType := range formalEntityTypes {
		if status == entityType {
			return 5
		}
	}
	if status != "" {
		return 4
	}
	return 3
}

func financialBand(app *models.ApplicationRecord) int {
	turnover := app.StructuredField("turnover_2024")
	if turnover == "" {
		turnover = app.StructuredField("turnover_2023")
	}
	if turnover != "" {
		value, err := strconv.ParseFloat(strings.ReplaceAll(turnover, ",", ""), 64)
		if err != nil {
			return 3
		}
		switch {
		case value > 10_000_000:
			return 5
		case value > 5_000_000:
			return 4
		default:
			return 3
		}
	}
	if len(app.FinancialDocuments) > 0 {
		return 3
	}
	return 0
}

func marketBand(app *models.ApplicationRecord) int {
	exports := strings.TrimSpace(app.StructuredField("exports_percent"))
	if exports != "" && exports != "0" {
		return 5
	}
	if app.StructuredField("b2b_description") != "" {
		return 4
	}
	return 3
}

func proposalBand(app *models.ApplicationRecord) int {
	objectives := app.StructuredField("business_objectives")
	switch {
	case len(objectives) > 200:
		return 5
	case len(objectives) > 50:
		return 4
	default:
		return 3
	}
}

func inclusivityBand(app *models.ApplicationRecord) int {
	if strings.EqualFold(app.StructuredField("woman_owned_enterprise"), "yes") {
		return 5
	}
	return 3
}
