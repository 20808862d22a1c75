// internal/engine/evaluator/evaluator.go
// Package evaluator runs the full pipeline for one or more regions:
// eligibility gates, criterion scoring, alternate blending, ranking, and
// summary statistics.
package evaluator

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"kjet-workers/internal/common/logger"
	"kjet-workers/internal/engine/cohort"
	"kjet-workers/internal/engine/eligibility"
	"kjet-workers/internal/engine/ranking"
	"kjet-workers/internal/engine/scoring"
	"kjet-workers/internal/engine/signals"
	"kjet-workers/internal/models"
)

const defaultConcurrency = 4

// Evaluator binds one cohort's policies for the lifetime of a run. The
// config and both policies are read-only after construction, so a single
// Evaluator is safe to share across concurrent region evaluations.
type Evaluator struct {
	cfg    *cohort.Config
	gates  eligibility.Policy
	scorer scoring.Policy
	log    logger.Logger

	// Concurrency bounds how many regions evaluate in parallel during Run.
	Concurrency int
}

// New builds an Evaluator for the given cohort configuration.
func New(cfg *cohort.Config, log logger.Logger) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{
		cfg:         cfg,
		gates:       eligibility.ForCohort(cfg),
		scorer:      scoring.ForCohort(cfg),
		log:         log,
		Concurrency: defaultConcurrency,
	}, nil
}

// ForCohortID resolves the cohort by identifier and builds its Evaluator.
func ForCohortID(id string, log logger.Logger) (*Evaluator, error) {
	cfg, err := cohort.ByID(id)
	if err != nil {
		return nil, err
	}
	return New(cfg, log)
}

// Config returns the cohort configuration the evaluator was built with.
func (e *Evaluator) Config() *cohort.Config {
	return e.cfg
}

// EvaluateRegion runs the pipeline for one region's application pool plus
// any carried-over alternates. Alternates join the pool before sorting, so
// they compete for rank like everyone else.
func (e *Evaluator) EvaluateRegion(ctx context.Context, region string, apps []models.ApplicationRecord, carried []models.RankedEntry) (*models.RegionResult, error) {
	region = signals.CanonicalRegion(region)
	log := e.log.WithFields(map[string]interface{}{"region": region, "cohort": e.cfg.ID})

	result := &models.RegionResult{
		Region: region,
		Summary: models.RegionSummary{
			TotalApplications: len(apps),
			GateFailures:      make(map[models.Gate]int),
			ScoreDistribution: make(map[string]int),
		},
	}

	pool := make([]models.RankedEntry, 0, len(apps)+len(carried))
	seen := make(map[string]bool, len(apps))

	for i := range apps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		app := apps[i]
		app.ID = uniqueID(app.ID, i, seen)
		content := normalizedContent(&app)

		gateResult := e.gates.Evaluate(&app, content)
		if !gateResult.Eligible {
			result.Summary.Ineligible++
			for _, gate := range gateResult.FailedGates() {
				result.Summary.GateFailures[gate]++
			}
			result.Ineligible = append(result.Ineligible, models.IneligibleEntry{
				ApplicationID:  app.ID,
				FailedCriteria: gateResult.FailedGates(),
				Reasons:        gateResult.FailureReasons,
			})
			continue
		}
		result.Summary.Eligible++

		raw := e.scorer.Score(&app, content)
		pool = append(pool, models.RankedEntry{
			ApplicationID: app.ID,
			ApplicantName: app.ApplicantName,
			Region:        region,
			Scores:        scoring.Composite(raw, e.cfg.Weights),
			Eligibility:   gateResult.Criteria,
			Origin:        models.OriginCurrent,
		})
	}

	if e.cfg.BlendAlternates && len(carried) > 0 {
		pool = append(pool, carried...)
		log.Info("blended prior-round alternates into pool", map[string]interface{}{
			"alternates": len(carried),
		})
	}

	ranked := ranking.Rank(pool, e.cfg)
	if dropped := len(pool) - len(ranked); dropped > 0 {
		log.Warn("excluded entries without score breakdowns from ranking", map[string]interface{}{
			"dropped": dropped,
		})
	}
	result.Ranked = ranked
	fillSummary(&result.Summary, ranked)

	log.Info("region evaluation complete", map[string]interface{}{
		"applications": len(apps),
		"eligible":     result.Summary.Eligible,
		"ranked":       len(ranked),
	})
	return result, nil
}

// uniqueID fills in a deterministic fallback id for blank ids and suffixes
// duplicates so no record is dropped or clobbered.
func uniqueID(id string, index int, seen map[string]bool) string {
	if id == "" {
		id = fmt.Sprintf("unknown_%d", index+1)
	}
	if seen[id] {
		base := id
		for suffix := 1; ; suffix++ {
			id = fmt.Sprintf("%s_%d", base, suffix)
			if !seen[id] {
				break
			}
		}
	}
	seen[id] = true
	return id
}

func normalizedContent(app *models.ApplicationRecord) string {
	parts := make([]string, 0, 1+len(app.FinancialDocuments))
	if app.Content != "" {
		parts = append(parts, app.Content)
	}
	for _, doc := range app.FinancialDocuments {
		if doc.Content != "" {
			parts = append(parts, doc.Content)
		}
	}
	return signals.NormalizeContent(parts)
}

func fillSummary(summary *models.RegionSummary, ranked []models.RankedEntry) {
	if summary.TotalApplications > 0 {
		rate := float64(summary.Eligible) / float64(summary.TotalApplications)
		summary.EligibilityRate = math.Round(rate*10000) / 10000
	}
	if len(ranked) == 0 {
		return
	}

	total := 0.0
	summary.LowestScore = ranked[0].Scores.Composite
	for _, entry := range ranked {
		score := entry.Scores.Composite
		total += score
		if score > summary.HighestScore {
			summary.HighestScore = score
		}
		if score < summary.LowestScore {
			summary.LowestScore = score
		}
		switch {
		case score >= 80:
			summary.ScoreDistribution["excellent_80_100"]++
		case score >= 70:
			summary.ScoreDistribution["good_70_79"]++
		case score >= 60:
			summary.ScoreDistribution["fair_60_69"]++
		default:
			summary.ScoreDistribution["poor_below_60"]++
		}
	}
	summary.AverageScore = math.Round(total/float64(len(ranked))*100) / 100
}

// Run evaluates every region concurrently against the shared cohort config
// and merges the partial results through a single collector, so identical
// inputs always produce an identical RunResult (modulo the run id).
func (e *Evaluator) Run(ctx context.Context, regions map[string][]models.ApplicationRecord, carried map[string][]models.RankedEntry) (*models.RunResult, error) {
	names := sortedRegionNames(regions)

	type outcome struct {
		index  int
		result *models.RegionResult
		err    error
	}

	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	sem := make(chan struct{}, concurrency)
	outcomes := make(chan outcome, len(names))

	for i, name := range names {
		go func(index int, region string) {
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := e.EvaluateRegion(ctx, region, regions[region], carried[signals.CanonicalRegion(region)])
			outcomes <- outcome{index: index, result: result, err: err}
		}(i, name)
	}

	run := &models.RunResult{
		RunID:  uuid.New().String(),
		Cohort: e.cfg.ID,
	}
	ordered := make([]*models.RegionResult, len(names))
	var firstErr error
	for range names {
		out := <-outcomes
		if out.err != nil {
			if ctx.Err() != nil {
				firstErr = ctx.Err()
				continue
			}
			e.log.WithError(out.err).Error("region evaluation failed", map[string]interface{}{
				"region": names[out.index],
			})
			continue
		}
		ordered[out.index] = out.result
	}
	if firstErr != nil {
		return nil, firstErr
	}

	for _, result := range ordered {
		if result == nil {
			continue
		}
		run.Regions = append(run.Regions, *result)
		run.Totals.Regions++
		run.Totals.Applications += result.Summary.TotalApplications
		run.Totals.Eligible += result.Summary.Eligible
		run.Totals.Scored += len(result.Ranked)
		for _, entry := range result.Ranked {
			if entry.Origin == models.OriginAlternate {
				run.Totals.Alternates++
			}
		}
	}
	return run, nil
}

func sortedRegionNames(regions map[string][]models.ApplicationRecord) []string {
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
