// internal/models/application.go
package models

// Criterion identifies one of the six weighted merit criteria.
type Criterion string

const (
	CriterionRegistration Criterion = "registration_track_record"
	CriterionFinancial    Criterion = "financial_position"
	CriterionMarket       Criterion = "market_demand_competitiveness"
	CriterionProposal     Criterion = "business_proposal_viability"
	CriterionValueChain   Criterion = "value_chain_alignment"
	CriterionInclusivity  Criterion = "inclusivity_sustainability"
)

// Criteria lists the six merit criteria in rubric order.
var Criteria = []Criterion{
	CriterionRegistration,
	CriterionFinancial,
	CriterionMarket,
	CriterionProposal,
	CriterionValueChain,
	CriterionInclusivity,
}

// Gate identifies one of the five binary eligibility checks.
type Gate string

const (
	GateRegistration   Gate = "E1_registration_legality"
	GateRegionMapping  Gate = "E2_region_mapping"
	GateCategory       Gate = "E3_priority_category"
	GateFinancial      Gate = "E4_financial_evidence"
	GateContactability Gate = "E5_consent_contactability"
)

// Gates lists the five eligibility gates in order.
var Gates = []Gate{
	GateRegistration,
	GateRegionMapping,
	GateCategory,
	GateFinancial,
	GateContactability,
}

// DocumentRef is one attached document, already extracted to text upstream.
type DocumentRef struct {
	Name    string `json:"name"`
	Content string `json:"content,omitempty"`
}

// ApplicationRecord is the normalized evaluation input produced by the
// extraction pipeline. The engine treats it as read-only: derived results
// are attached elsewhere, Content and StructuredMetadata are never altered.
type ApplicationRecord struct {
	ID                 string                 `json:"applicationId"`
	Region             string                 `json:"region"`
	ApplicantName      string                 `json:"applicantName,omitempty"`
	Content            string                 `json:"content"`
	StructuredMetadata map[string]interface{} `json:"structuredMetadata,omitempty"`
	FinancialDocuments []DocumentRef          `json:"financialDocuments,omitempty"`
}

// StructuredField returns the first non-empty string value for a structured
// metadata field, or "" when the field is absent or not a string.
func (a *ApplicationRecord) StructuredField(name string) string {
	if a == nil || a.StructuredMetadata == nil {
		return ""
	}
	v, ok := a.StructuredMetadata[name]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
