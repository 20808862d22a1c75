// internal/engine/scoring/content.go
package scoring

import (
	"strings"

	"kjet-workers/internal/engine/cohort"
	"kjet-workers/internal/engine/signals"
	"kjet-workers/internal/models"
)

// ContentPolicy scores each criterion by counting rubric signals in the
// application's document content. The thresholds mirror the A3 scoring
// rubrics: each level requires progressively more corroborating evidence.
type ContentPolicy struct {
	cfg *cohort.Config

	// ReferenceYear anchors "since YYYY" track-record phrasing.
	ReferenceYear int
}

func (p *ContentPolicy) Score(app *models.ApplicationRecord, content string) map[models.Criterion]int {
	return map[models.Criterion]int{
		models.CriterionRegistration: clamp(p.registrationTrackRecord(content)),
		models.CriterionFinancial:    clamp(p.financialPosition(app, content)),
		models.CriterionMarket:       clamp(p.marketDemand(content)),
		models.CriterionProposal:     clamp(p.businessProposal(content)),
		models.CriterionValueChain:   clamp(p.valueChainAlignment(app, content)),
		models.CriterionInclusivity:  clamp(p.inclusivitySustainability(content)),
	}
}

// A3.1: years of operation plus governance and leadership evidence.
func (p *ContentPolicy) registrationTrackRecord(content string) int {
	years := signals.YearsOperational(content, p.ReferenceYear)
	hasGovernance := signals.ContainsAny(content, signals.GovernanceIndicators)
	hasLeadership := signals.ContainsAny(content, signals.LeadershipIndicators)

	switch {
	case years >= 3 && hasGovernance:
		return 5
	case years >= 1 && (hasLeadership || hasGovernance):
		return 4
	case years >= 1 || strings.Contains(content, "registered"):
		return 3
	case strings.Contains(content, "registration") &&
		(strings.Contains(content, "dormant") || strings.Contains(content, "irregular")):
		return 2
	case strings.Contains(content, "registration") ||
		strings.Contains(content, "company") ||
		strings.Contains(content, "cooperative"):
		return 1
	default:
		return 0
	}
}

// A3.2: turnover magnitude, trend, and statement evidence.
func (p *ContentPolicy) financialPosition(app *models.ApplicationRecord, content string) int {
	turnover := signals.MaxTurnover(content)
	hasTrend := signals.ContainsAny(content, signals.TrendIndicators)
	hasStatements := signals.ContainsAny(content, signals.StatementTypes)
	hasDocs := len(app.FinancialDocuments) > 0
	hasProof := hasStatements || hasDocs

	switch {
	case turnover >= 10_000_000 && hasTrend && hasProof:
		return 5
	case turnover >= 5_000_000 && hasProof:
		return 4
	case turnover >= 1_000_000 && hasProof:
		return 3
	case turnover >= 1_000_000 || hasProof:
		return 2
	case strings.Contains(content, "financial") ||
		strings.Contains(content, "bank") ||
		strings.Contains(content, "transaction"):
		return 1
	default:
		return 0
	}
}

// A3.3: contracts, sales channels, customer base, and quality positioning.
func (p *ContentPolicy) marketDemand(content string) int {
	hasContracts := signals.ContainsAny(content, signals.ContractIndicators)
	channelCount := signals.CountTerms(content, signals.SalesChannels)
	hasRepeatCustomers := signals.ContainsAny(content, signals.CustomerIndicators)
	hasQuality := signals.ContainsAny(content, signals.QualityIndicators)
	hasConsistentOrders := signals.ContainsAny(content, signals.OrderIndicators)
	mentionsSales := strings.Contains(content, "sales") || strings.Contains(content, "customers")

	switch {
	case hasContracts && channelCount >= 2 && hasRepeatCustomers && hasQuality:
		return 5
	case hasConsistentOrders && channelCount >= 1 && hasQuality:
		return 4
	case mentionsSales && channelCount >= 1:
		return 3
	case mentionsSales:
		return 2
	case strings.Contains(content, "market") || strings.Contains(content, "demand"):
		return 1
	default:
		return 0
	}
}

// A3.4: proposal completeness, one point per planning element present.
func (p *ContentPolicy) businessProposal(content string) int {
	count := signals.CountTerms(content, signals.ProposalTerms)
	switch {
	case count >= 6:
		return 5
	case count >= 4:
		return 4
	case count >= 3:
		return 3
	case count >= 2:
		return 2
	case count >= 1:
		return 1
	default:
		return 0
	}
}

var valueChainTerms = []string{"processing", "manufacturing", "aggregation", "linkages"}

// A3.5: node participation within a priority value chain.
func (p *ContentPolicy) valueChainAlignment(app *models.ApplicationRecord, content string) int {
	count := signals.CountTerms(content, valueChainTerms)
	if strings.Contains(content, "upstream") || strings.Contains(content, "downstream") {
		count++
	}

	if !p.inPriorityChain(app, content) {
		return 1
	}
	switch {
	case count >= 4:
		return 5
	case count >= 3:
		return 4
	case count >= 2:
		return 3
	default:
		return 2
	}
}

func (p *ContentPolicy) inPriorityChain(app *models.ApplicationRecord, content string) bool {
	for _, field := range []string{"value_chain", "value_chain_other"} {
		value := strings.ToLower(app.StructuredField(field))
		if value != "" && signals.ContainsAny(value, signals.PriorityKeywords) {
			return true
		}
	}
	return signals.ContainsAny(content, signals.PriorityKeywords)
}

// A3.6: gender/youth/PWD inclusion plus green practice signals.
func (p *ContentPolicy) inclusivitySustainability(content string) int {
	count := signals.CountTerms(content, signals.InclusivityTerms)
	if strings.Contains(content, "disabled") || strings.Contains(content, "pwd") {
		count++
	}
	count += signals.CountTerms(content, signals.SustainabilityTerms)

	switch {
	case count >= 5:
		return 5
	case count >= 3:
		return 4
	case count >= 2:
		return 3
	case count >= 1:
		return 2
	default:
		return 0
	}
}
