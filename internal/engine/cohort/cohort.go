// internal/engine/cohort/cohort.go
package cohort

import (
	"fmt"
	"math"

	"kjet-workers/internal/models"
)

const weightTolerance = 1e-6

// TierFunc classifies a top-N entry's raw scores into a tier label.
type TierFunc func(raw map[models.Criterion]int) string

// RankBand is an inclusive range of prior-round ranks eligible for carry-over.
type RankBand struct {
	Low  int
	High int
}

// Contains reports whether rank falls inside the band.
func (b RankBand) Contains(rank int) bool {
	return rank >= b.Low && rank <= b.High
}

// Config is the immutable policy bundle for one evaluation cohort.
// It is built once at run start and shared read-only across all concurrent
// region evaluations.
type Config struct {
	ID                 string
	Weights            map[models.Criterion]float64
	PriorityCategories []string
	TieBreakOrder      []models.Criterion
	TopN               int
	TierRule           TierFunc

	// BlendAlternates enables carrying prior-round candidates into the
	// current pool; AlternateBand selects which prior ranks qualify.
	BlendAlternates bool
	AlternateBand   RankBand
}

// Validate checks the structural integrity of the configuration. A failure
// here is fatal for the run: the engine refuses to evaluate under an invalid
// cohort rather than renormalizing or guessing.
func (c *Config) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("cohort id is required")
	}
	if len(c.Weights) != len(models.Criteria) {
		return fmt.Errorf("cohort %s: expected %d criterion weights, got %d",
			c.ID, len(models.Criteria), len(c.Weights))
	}
	sum := 0.0
	for _, criterion := range models.Criteria {
		w, ok := c.Weights[criterion]
		if !ok {
			return fmt.Errorf("cohort %s: missing weight for criterion %q", c.ID, criterion)
		}
		if w < 0 {
			return fmt.Errorf("cohort %s: negative weight for criterion %q", c.ID, criterion)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("cohort %s: criterion weights sum to %.6f, expected 1.0", c.ID, sum)
	}
	if len(c.PriorityCategories) == 0 {
		return fmt.Errorf("cohort %s: priority categories are required", c.ID)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("cohort %s: top_n must be positive, got %d", c.ID, c.TopN)
	}
	if c.TierRule == nil {
		return fmt.Errorf("cohort %s: tier rule is required", c.ID)
	}
	known := make(map[models.Criterion]bool, len(models.Criteria))
	for _, criterion := range models.Criteria {
		known[criterion] = true
	}
	for _, criterion := range c.TieBreakOrder {
		if !known[criterion] {
			return fmt.Errorf("cohort %s: unknown tie-break criterion %q", c.ID, criterion)
		}
	}
	if c.BlendAlternates {
		if c.AlternateBand.Low <= 0 || c.AlternateBand.High < c.AlternateBand.Low {
			return fmt.Errorf("cohort %s: invalid alternate rank band [%d, %d]",
				c.ID, c.AlternateBand.Low, c.AlternateBand.High)
		}
	}
	return nil
}
