// internal/engine/alternates/alternates.go
// Package alternates carries human-reviewed candidates from a prior round
// into the current pool. Prior records score criteria on a 0-100 scale; they
// are rescaled onto the 0-5 rubric while the reviewed composite is kept as-is.
package alternates

import (
	"encoding/json"
	"fmt"
	"math"

	"kjet-workers/internal/common/logger"
	"kjet-workers/internal/engine/cohort"
	"kjet-workers/internal/engine/scoring"
	"kjet-workers/internal/engine/signals"
	"kjet-workers/internal/models"
)

// legacyRecord mirrors the column names of the prior round's reviewed export.
type legacyRecord struct {
	ApplicationID string   `json:"Application ID"`
	Rank          *float64 `json:"Ranking from composite score"`
	Region        string   `json:"E2. County Mapping"`
	Total         float64  `json:"TOTAL"`
	Registration  float64  `json:"A3.1"`
	Financial     float64  `json:"A3.2"`
	Market        float64  `json:"A3.3"`
	Proposal      float64  `json:"A3.4"`
	ValueChain    float64  `json:"A3.5"`
	Inclusivity   float64  `json:"A3.6"`
}

// Load parses a prior round's reviewed export and returns the carry-over
// candidates grouped by canonical region name. Only records whose reviewed
// rank falls inside the cohort's alternate band are kept. Records that cannot
// be parsed are skipped with a warning; one bad row must not sink the run.
func Load(data []byte, cfg *cohort.Config, log logger.Logger) (map[string][]models.RankedEntry, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing alternates file: %w", err)
	}

	byRegion := make(map[string][]models.RankedEntry)
	for i, row := range rows {
		var rec legacyRecord
		if err := json.Unmarshal(row, &rec); err != nil {
			log.Warn("skipping malformed alternate record", map[string]interface{}{
				"index": i,
				"error": err.Error(),
			})
			continue
		}
		if rec.ApplicationID == "" || rec.Rank == nil || rec.Region == "" {
			log.Warn("skipping incomplete alternate record", map[string]interface{}{
				"index":         i,
				"applicationId": rec.ApplicationID,
			})
			continue
		}
		if !cfg.AlternateBand.Contains(int(*rec.Rank)) {
			continue
		}

		region := signals.CanonicalRegion(rec.Region)
		byRegion[region] = append(byRegion[region], toEntry(&rec, region, cfg))
	}
	return byRegion, nil
}

func toEntry(rec *legacyRecord, region string, cfg *cohort.Config) models.RankedEntry {
	normalized := map[models.Criterion]float64{
		models.CriterionRegistration: rec.Registration,
		models.CriterionFinancial:    rec.Financial,
		models.CriterionMarket:       rec.Market,
		models.CriterionProposal:     rec.Proposal,
		models.CriterionValueChain:   rec.ValueChain,
		models.CriterionInclusivity:  rec.Inclusivity,
	}

	breakdown := &models.ScoreBreakdown{
		Raw:        make(map[models.Criterion]int, len(models.Criteria)),
		Normalized: make(map[models.Criterion]float64, len(models.Criteria)),
		Weighted:   make(map[models.Criterion]float64, len(models.Criteria)),
		Composite:  rec.Total,
		Grade:      scoring.Grade(rec.Total),
	}
	for _, criterion := range models.Criteria {
		breakdown.Raw[criterion] = rescale(normalized[criterion])
		breakdown.Normalized[criterion] = normalized[criterion]
		breakdown.Weighted[criterion] = math.Round(normalized[criterion]*cfg.Weights[criterion]*100) / 100
	}

	return models.RankedEntry{
		ApplicationID: "C1_" + rec.ApplicationID,
		ApplicantName: fmt.Sprintf("Cohort 1 Alternate (%s)", rec.ApplicationID),
		Region:        region,
		Scores:        breakdown,
		Origin:        models.OriginAlternate,
	}
}

// rescale maps a 0-100 criterion score onto the 0-5 rubric.
func rescale(v float64) int {
	raw := int(math.Round(v / 20))
	if raw < 0 {
		return 0
	}
	if raw > 5 {
		return 5
	}
	return raw
}
