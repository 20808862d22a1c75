// internal/engine/eligibility/eligibility.go
// Package eligibility implements the five binary gates (E1-E5) an
// application must clear before scoring. Gates are fail-closed: absent
// evidence fails the gate, it never passes by default.
package eligibility

import (
	"fmt"
	"strings"

	"kjet-workers/internal/engine/cohort"
	"kjet-workers/internal/engine/signals"
	"kjet-workers/internal/models"
)

// Policy decides the five gates for one application. content is the
// normalized lowercase document blob for the application.
type Policy interface {
	Evaluate(app *models.ApplicationRecord, content string) models.EligibilityResult
}

// ForCohort selects the gate policy matching the cohort's intake shape:
// the 2024 round evaluated raw document content, the 2025 round receives
// structured registry metadata with geography and consent validated upstream.
func ForCohort(cfg *cohort.Config) Policy {
	if cfg.ID == "cohort-2025" {
		return &StructuredPolicy{cfg: cfg}
	}
	return &ContentPolicy{cfg: cfg}
}

var gateReasons = map[models.Gate]string{
	models.GateRegistration:   "no registration or legal entity evidence found",
	models.GateRegionMapping:  "region name or location details not found in application",
	models.GateCategory:       "no priority category alignment found",
	models.GateFinancial:      "no financial evidence (documents, statements or figures)",
	models.GateContactability: "no contact details or consent indication found",
}

func buildResult(criteria map[models.Gate]bool) models.EligibilityResult {
	result := models.EligibilityResult{Criteria: criteria, Eligible: true}
	for _, gate := range models.Gates {
		if !criteria[gate] {
			result.Eligible = false
			result.FailureReasons = append(result.FailureReasons,
				fmt.Sprintf("%s: %s", gate, gateReasons[gate]))
		}
	}
	return result
}

// ContentPolicy derives every gate from the application's document content.
type ContentPolicy struct {
	cfg *cohort.Config
}

func (p *ContentPolicy) Evaluate(app *models.ApplicationRecord, content string) models.EligibilityResult {
	return buildResult(map[models.Gate]bool{
		models.GateRegistration:   p.registration(content),
		models.GateRegionMapping:  p.regionMapping(app, content),
		models.GateCategory:       hasPriorityCategory(p.cfg, app, content),
		models.GateFinancial:      p.financialEvidence(app, content),
		models.GateContactability: p.contactability(content),
	})
}

// E1: registration keywords or a registry-number shaped token.
func (p *ContentPolicy) registration(content string) bool {
	return signals.ContainsAny(content, signals.RegistrationIndicators) ||
		signals.HasRegistrationPattern(content)
}

// E2: the region name must appear alongside location detail. An application
// that never names its region cannot be mapped to a ranking pool.
func (p *ContentPolicy) regionMapping(app *models.ApplicationRecord, content string) bool {
	region := strings.ToLower(app.Region)
	if region == "" {
		return false
	}
	return strings.Contains(content, region) &&
		signals.ContainsAny(content, signals.LocationIndicators)
}

// E4: attached financial documents, statement keywords, or money figures.
func (p *ContentPolicy) financialEvidence(app *models.ApplicationRecord, content string) bool {
	if len(app.FinancialDocuments) > 0 {
		return true
	}
	return signals.ContainsAny(content, signals.FinancialKeywords) ||
		signals.HasFinancialFigures(content)
}

// E5: contact keywords, a phone number, or an email address.
func (p *ContentPolicy) contactability(content string) bool {
	return signals.ContainsAny(content, signals.ContactIndicators) ||
		signals.HasPhone(content) ||
		signals.HasEmail(content)
}

// StructuredPolicy derives E1/E3/E4 from registry metadata with content as
// fallback. E2 and E5 always pass: geography and consent are validated by the
// intake system before records reach the engine.
type StructuredPolicy struct {
	cfg *cohort.Config
}

func (p *StructuredPolicy) Evaluate(app *models.ApplicationRecord, content string) models.EligibilityResult {
	return buildResult(map[models.Gate]bool{
		models.GateRegistration:   p.registration(app, content),
		models.GateRegionMapping:  true,
		models.GateCategory:       hasPriorityCategory(p.cfg, app, content),
		models.GateFinancial:      p.financialEvidence(app, content),
		models.GateContactability: true,
	})
}

func (p *StructuredPolicy) registration(app *models.ApplicationRecord, content string) bool {
	status := strings.ToLower(app.StructuredField("registration_status"))
	if status != "" && status != "unregistered" {
		return true
	}
	if signals.HasStructuredRegistrationNumber(app.StructuredField("registration_number")) {
		return true
	}
	return signals.HasStructuredRegistrationNumber(content)
}

func (p *StructuredPolicy) financialEvidence(app *models.ApplicationRecord, content string) bool {
	if len(app.FinancialDocuments) > 0 {
		return true
	}
	if app.StructuredField("turnover_2024") != "" || app.StructuredField("turnover_2023") != "" {
		return true
	}
	return signals.ContainsAny(content, signals.FinancialKeywords)
}

// hasPriorityCategory implements E3 for both policies: the applicant's value
// chain (structured fields first, then content) must touch one of the
// cohort's priority categories or a processing/manufacturing node.
func hasPriorityCategory(cfg *cohort.Config, app *models.ApplicationRecord, content string) bool {
	keywords := priorityKeywords(cfg)
	for _, field := range []string{"value_chain", "value_chain_other"} {
		if containsAnyKeyword(strings.ToLower(app.StructuredField(field)), keywords) {
			return true
		}
	}
	return containsAnyKeyword(content, keywords)
}

func priorityKeywords(cfg *cohort.Config) []string {
	keywords := make([]string, 0, len(cfg.PriorityCategories)+2)
	for _, category := range cfg.PriorityCategories {
		keywords = append(keywords, strings.ToLower(category))
	}
	return append(keywords, "processing", "manufacturing")
}

func containsAnyKeyword(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
