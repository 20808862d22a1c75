// internal/engine/signals/signals.go
// Package signals holds the keyword tables and pattern matchers the
// content-based eligibility and scoring policies scan for. Everything here is
// pure: lowercase text in, counts and booleans out.
package signals

import (
	"regexp"
	"strconv"
	"strings"
)

// Keyword tables. All matching is substring matching over lowercased content,
// so every entry must be lowercase.
var (
	RegistrationIndicators = []string{
		"registration", "registered", "company", "cooperative", "limited", "ltd",
		"sacco", "association", "certificate", "registration number",
	}

	LocationIndicators = []string{"ward", "constituency", "sub-county", "location", "address"}

	PriorityKeywords = []string{
		"dairy", "tea", "rice", "oil", "textile", "construction", "blue economy",
		"minerals", "forestry", "leather", "edible oil", "processing", "manufacturing",
	}

	FinancialKeywords = []string{
		"balance sheet", "income statement", "cashflow", "mpesa", "bank statement",
		"financial statement", "profit loss", "audited accounts",
	}

	ContactIndicators = []string{
		"phone", "email", "contact", "consent", "mobile", "telephone", "cell",
		"address", "location",
	}

	GovernanceIndicators = []string{
		"board", "directors", "elected officials", "minutes", "meetings",
		"governance", "audited", "handover", "constitution", "bylaws",
	}

	LeadershipIndicators = []string{
		"chairman", "chairperson", "secretary", "treasurer", "ceo",
		"managing director", "executive", "leadership",
	}

	TrendIndicators = []string{"positive", "growth", "increase", "improving", "rising", "up"}

	StatementTypes = []string{
		"balance sheet", "income statement", "cash flow", "bank statement",
		"mpesa statement", "financial statement", "audited accounts",
	}

	ContractIndicators = []string{
		"contract", "purchase order", "offtake agreement", "buyer agreement",
		"supply agreement", "distribution agreement",
	}

	SalesChannels = []string{"wholesale", "retail", "digital", "marketplace", "online", "export"}

	CustomerIndicators = []string{
		"repeat customers", "regular buyers", "loyal customers", "returning clients",
		"established relationships", "long-term clients",
	}

	QualityIndicators = []string{
		"quality assurance", "certification", "standards", "premium pricing",
		"competitive pricing", "brand", "differentiation",
	}

	OrderIndicators = []string{"monthly orders", "consistent orders", "regular orders", "steady demand"}

	ProposalTerms = []string{"objectives", "targets", "plan", "budget", "strategy", "growth", "feasibility"}

	InclusivityTerms = []string{"women", "youth", "female", "young", "diversity"}

	SustainabilityTerms = []string{"environment", "sustainable", "green", "recycling", "efficiency"}
)

var (
	registrationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)registration.*number.*[A-Z]{3}[-/][A-Z0-9]+`),
		regexp.MustCompile(`(?i)[A-Z]{3}[-/][A-Z0-9]{4,}`),
		regexp.MustCompile(`(?i)certificate.*registration`),
		regexp.MustCompile(`(?i)registered.*company`),
	}

	phonePattern    = regexp.MustCompile(`\b\d{9,10}\b|\+254\d{9}`)
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	currencyMarker  = regexp.MustCompile(`(?i)ksh|kes|\$`)
	amountPattern   = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?`)
	financialTerms  = regexp.MustCompile(`(?i)revenue|income|profit|assets|liabilities`)
	structuredRegNo = regexp.MustCompile(`(?i)BN-\w+|PVT-\w+|CPR/\w+`)

	turnoverPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)\s*(kes|ksh|shillings?|million|m)\b`),
		regexp.MustCompile(`(?i)turnover\D{0,40}?(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`),
		regexp.MustCompile(`(?i)revenue\D{0,40}?(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`),
		regexp.MustCompile(`(?i)sales\D{0,40}?(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`),
	}

	yearsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*years?\s*operational`),
		regexp.MustCompile(`(?i)(\d+)\s*years?\s*in\s*business`),
		regexp.MustCompile(`(?i)established\s*(\d+)\s*years?\s*ago`),
		regexp.MustCompile(`(?i)founded\s*(\d+)\s*years?\s*ago`),
		regexp.MustCompile(`(?i)since\s*(\d{4})`),
	}
)

// ContainsAny reports whether content contains any of the given terms.
func ContainsAny(content string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(content, term) {
			return true
		}
	}
	return false
}

// CountTerms returns how many of the given terms occur in content. Each term
// counts at most once.
func CountTerms(content string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(content, term) {
			count++
		}
	}
	return count
}

// HasRegistrationPattern reports whether content carries a registration
// number or registration phrasing.
func HasRegistrationPattern(content string) bool {
	for _, p := range registrationPatterns {
		if p.MatchString(content) {
			return true
		}
	}
	return false
}

// HasStructuredRegistrationNumber matches the registry number formats issued
// for business names, private companies and cooperatives (BN-, PVT-, CPR/).
func HasStructuredRegistrationNumber(value string) bool {
	return structuredRegNo.MatchString(value)
}

// HasPhone reports whether content contains a local or international phone number.
func HasPhone(content string) bool {
	return phonePattern.MatchString(content)
}

// HasEmail reports whether content contains an email address.
func HasEmail(content string) bool {
	return emailPattern.MatchString(content)
}

// HasFinancialFigures reports whether content carries currency markers,
// numeric amounts, or financial terminology.
func HasFinancialFigures(content string) bool {
	return amountPattern.MatchString(content) ||
		currencyMarker.MatchString(content) ||
		financialTerms.MatchString(content)
}

// MaxTurnover extracts the largest turnover-like amount from content, in KES.
// Amounts suffixed with "million"/"m" are scaled up.
func MaxTurnover(content string) float64 {
	best := 0.0
	for i, p := range turnoverPatterns {
		for _, m := range p.FindAllStringSubmatch(content, -1) {
			raw := strings.ReplaceAll(m[1], ",", "")
			amount, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			if i == 0 {
				unit := strings.ToLower(m[2])
				if unit == "million" || unit == "m" {
					amount *= 1_000_000
				}
			}
			if amount > best {
				best = amount
			}
		}
	}
	return best
}

// YearsOperational extracts how many years the applicant has operated.
// referenceYear anchors "since YYYY" phrasing; zero means no signal found.
func YearsOperational(content string, referenceYear int) int {
	for _, p := range yearsPatterns {
		m := p.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		years, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if years > 1900 {
			years = referenceYear - years
		}
		if years < 0 {
			years = 0
		}
		return years
	}
	return 0
}
