// cmd/tools/batch-evaluator/main.go
// Batch evaluator runs a full cohort evaluation offline from a JSON export
// of application records, without Camunda or any backing service. Useful
// for dry runs and for re-scoring a cohort after a rubric change.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"kjet-workers/internal/common/logger"
	"kjet-workers/internal/engine/alternates"
	"kjet-workers/internal/engine/evaluator"
	"kjet-workers/internal/engine/signals"
	"kjet-workers/internal/models"
)

func main() {
	var (
		inputPath      = flag.String("input", "", "path to a JSON array of application records (required)")
		cohortID       = flag.String("cohort", "cohort-2025", "cohort identifier")
		alternatesPath = flag.String("alternates", "", "optional path to a prior round's reviewed export")
		outputDir      = flag.String("output", "./evaluation-output", "directory for result files")
		concurrency    = flag.Int("concurrency", 4, "parallel region evaluations")
	)
	flag.Parse()

	log := logger.NewStructured("info", "console")

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(log, *inputPath, *cohortID, *alternatesPath, *outputDir, *concurrency); err != nil {
		log.Error("batch evaluation failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run(log logger.Logger, inputPath, cohortID, alternatesPath, outputDir string, concurrency int) error {
	eval, err := evaluator.ForCohortID(cohortID, log)
	if err != nil {
		return fmt.Errorf("resolving cohort %q: %w", cohortID, err)
	}
	eval.Concurrency = concurrency

	regions, err := loadApplications(inputPath)
	if err != nil {
		return err
	}
	log.Info("applications loaded", map[string]interface{}{
		"input":   inputPath,
		"regions": len(regions),
	})

	carried := map[string][]models.RankedEntry{}
	if alternatesPath != "" {
		data, err := os.ReadFile(alternatesPath)
		if err != nil {
			return fmt.Errorf("reading alternates file: %w", err)
		}
		carried, err = alternates.Load(data, eval.Config(), log)
		if err != nil {
			return fmt.Errorf("loading alternates: %w", err)
		}
		log.Info("alternates loaded", map[string]interface{}{
			"path":    alternatesPath,
			"regions": len(carried),
		})
	}

	result, err := eval.Run(context.Background(), regions, carried)
	if err != nil {
		return fmt.Errorf("running evaluation: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := writeResults(result, outputDir); err != nil {
		return err
	}

	log.Info("evaluation complete", map[string]interface{}{
		"runId":        result.RunID,
		"regions":      result.Totals.Regions,
		"applications": result.Totals.Applications,
		"eligible":     result.Totals.Eligible,
		"scored":       result.Totals.Scored,
		"alternates":   result.Totals.Alternates,
		"output":       outputDir,
	})
	return nil
}

// loadApplications reads a flat JSON array of application records and groups
// them by canonical region name, the shape Evaluator.Run expects.
func loadApplications(path string) (map[string][]models.ApplicationRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	var apps []models.ApplicationRecord
	if err := json.Unmarshal(data, &apps); err != nil {
		return nil, fmt.Errorf("parsing input file: %w", err)
	}

	regions := make(map[string][]models.ApplicationRecord)
	for _, app := range apps {
		region := signals.CanonicalRegion(app.Region)
		regions[region] = append(regions[region], app)
	}
	return regions, nil
}

func writeResults(result *models.RunResult, outputDir string) error {
	for i := range result.Regions {
		region := &result.Regions[i]
		path := filepath.Join(outputDir, regionFilename(region.Region))
		if err := writeJSON(path, region); err != nil {
			return err
		}
	}

	if err := writeJSON(filepath.Join(outputDir, "run.json"), result); err != nil {
		return err
	}
	return writeShortlistCSV(filepath.Join(outputDir, "shortlist.csv"), result)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writeShortlistCSV emits one row per tiered entry across all regions, the
// hand-off format the programme team imports into their tracking sheet.
func writeShortlistCSV(path string, result *models.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"region", "rank", "applicationId", "applicantName", "compositeScore", "grade", "tier", "origin"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, region := range result.Regions {
		for _, entry := range region.Ranked {
			if entry.Tier == "" {
				continue
			}
			row := []string{
				entry.Region,
				strconv.Itoa(entry.Rank),
				entry.ApplicationID,
				entry.ApplicantName,
				strconv.FormatFloat(entry.Scores.Composite, 'f', 2, 64),
				entry.Scores.Grade,
				entry.Tier,
				string(entry.Origin),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func regionFilename(region string) string {
	slug := strings.ToLower(region)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "/", "-")
	return slug + ".json"
}
