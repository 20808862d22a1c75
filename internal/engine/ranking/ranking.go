// internal/engine/ranking/ranking.go
// Package ranking orders a region's scored pool and assigns ranks and tiers.
package ranking

import (
	"sort"

	"kjet-workers/internal/engine/cohort"
	"kjet-workers/internal/models"
)

// Rank sorts the pool by descending composite, breaking ties with the
// cohort's criterion chain and finally the application id, then assigns
// contiguous 1-based ranks. Entries within the cohort's top-N cut get a tier
// from the cohort's tier rule; everyone below the cut gets none.
//
// Entries without a score breakdown are dropped: an unscored entry has no
// defensible position in an ordering that decides funding.
func Rank(entries []models.RankedEntry, cfg *cohort.Config) []models.RankedEntry {
	ranked := make([]models.RankedEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Scores != nil {
			ranked = append(ranked, entry)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		return less(&ranked[i], &ranked[j], cfg.TieBreakOrder)
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
		if ranked[i].Rank <= cfg.TopN {
			ranked[i].Tier = cfg.TierRule(ranked[i].Scores.Raw)
		} else {
			ranked[i].Tier = ""
		}
	}
	return ranked
}

// less orders a before b. The final application-id key makes the ordering
// total, so identical inputs always produce identical output.
func less(a, b *models.RankedEntry, tieBreak []models.Criterion) bool {
	if a.Scores.Composite != b.Scores.Composite {
		return a.Scores.Composite > b.Scores.Composite
	}
	for _, criterion := range tieBreak {
		if a.Scores.Raw[criterion] != b.Scores.Raw[criterion] {
			return a.Scores.Raw[criterion] > b.Scores.Raw[criterion]
		}
	}
	return a.ApplicationID < b.ApplicationID
}
