// internal/models/evaluation.go
package models

// Origin marks whether a ranked entry came from the current round or was
// carried over from a prior round's reviewed results.
type Origin string

const (
	OriginCurrent   Origin = "current"
	OriginAlternate Origin = "alternate"
)

// EligibilityResult holds the five gate outcomes for one application.
// Eligible is true only when every gate passed.
type EligibilityResult struct {
	Criteria       map[Gate]bool `json:"criteriaResults"`
	Eligible       bool          `json:"eligible"`
	FailureReasons []string      `json:"failureReasons,omitempty"`
}

// FailedGates returns the gates that did not pass, in canonical order.
func (e *EligibilityResult) FailedGates() []Gate {
	var failed []Gate
	for _, g := range Gates {
		if !e.Criteria[g] {
			failed = append(failed, g)
		}
	}
	return failed
}

// ScoreBreakdown holds the per-criterion scores for one eligible application.
// Invariant: Composite == round(sum(Raw[c]/5*100*weight[c]), 2).
type ScoreBreakdown struct {
	Raw        map[Criterion]int     `json:"rawScores"`
	Normalized map[Criterion]float64 `json:"normalizedScores"`
	Weighted   map[Criterion]float64 `json:"weightedScores"`
	Composite  float64               `json:"compositeScore"`
	Grade      string                `json:"grade"`
}

// RankedEntry is one row of a region's final ranked list.
// Rank is 1-based and contiguous within the region; Tier is empty beyond
// the cohort's top-N cut.
type RankedEntry struct {
	ApplicationID string          `json:"applicationId"`
	ApplicantName string          `json:"applicantName,omitempty"`
	Region        string          `json:"region"`
	Scores        *ScoreBreakdown `json:"scores"`
	Eligibility   map[Gate]bool   `json:"eligibilityResults,omitempty"`
	Rank          int             `json:"rank"`
	Tier          string          `json:"tier,omitempty"`
	Origin        Origin          `json:"origin"`
}

// IneligibleEntry reports an application that failed one or more gates.
type IneligibleEntry struct {
	ApplicationID  string   `json:"applicationId"`
	FailedCriteria []Gate   `json:"failedCriteria"`
	Reasons        []string `json:"reasons"`
}

// RegionSummary aggregates one region's evaluation statistics.
type RegionSummary struct {
	TotalApplications int            `json:"totalApplications"`
	Eligible          int            `json:"eligibleApplications"`
	Ineligible        int            `json:"ineligibleApplications"`
	EligibilityRate   float64        `json:"eligibilityRate"`
	GateFailures      map[Gate]int   `json:"gateFailures"`
	AverageScore      float64        `json:"averageScore"`
	HighestScore      float64        `json:"highestScore"`
	LowestScore       float64        `json:"lowestScore"`
	ScoreDistribution map[string]int `json:"scoreDistribution"`
}

// RegionResult is the complete output for one region: the ranked list,
// the separately reported ineligible applications, and summary statistics.
type RegionResult struct {
	Region     string            `json:"region"`
	Ranked     []RankedEntry     `json:"rankings"`
	Ineligible []IneligibleEntry `json:"ineligible"`
	Summary    RegionSummary     `json:"summary"`
}

// RunTotals aggregates counts across all regions of one evaluation run.
type RunTotals struct {
	Regions      int `json:"regions"`
	Applications int `json:"applications"`
	Eligible     int `json:"eligible"`
	Scored       int `json:"scored"`
	Alternates   int `json:"alternates"`
}

// RunResult is the output of one full evaluation run.
type RunResult struct {
	RunID   string         `json:"runId"`
	Cohort  string         `json:"cohort"`
	Regions []RegionResult `json:"regions"`
	Totals  RunTotals      `json:"totals"`
}
