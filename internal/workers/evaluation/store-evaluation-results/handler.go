// internal/workers/evaluation/store-evaluation-results/handler.go
package storeevaluationresults

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	stderrors "kjet-workers/internal/common/errors"
	"kjet-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/lib/pq"
)

const (
	TaskType = "store-evaluation-results"

	uniqueViolation = "23505"
)

var (
	ErrDuplicateRun      = errors.New("DUPLICATE_RUN")
	ErrResultStoreFailed = errors.New("RESULT_STORE_FAILED")
)

const insertRunQuery = `
	INSERT INTO evaluation_runs
		(run_id, cohort, regions, applications, eligible, scored, alternates, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const insertRankingQuery = `
	INSERT INTO region_rankings
		(run_id, region, application_id, rank, composite_score, tier, origin, payload)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const insertIneligibleQuery = `
	INSERT INTO region_ineligible
		(run_id, region, application_id, failed_criteria, reasons)
	VALUES ($1, $2, $3, $4, $5)`

type Handler struct {
	logger logger.Logger
	db     *sql.DB
	errors *stderrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		logger: scoped,
		db:     db,
		errors: stderrors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errors.HandleJobError(ctx, client, job, stderrors.NewApplicationParseError("", err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		stdErr := stderrors.NewResultStoreFailedError(err)
		if errors.Is(err, ErrDuplicateRun) {
			stdErr = stderrors.NewDuplicateRunError(input.RunID)
		}
		h.errors.HandleJobError(ctx, client, job, stdErr)
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.RunID == "" {
		return nil, fmt.Errorf("%w: runId is required", ErrResultStoreFailed)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin transaction: %s", ErrResultStoreFailed, err.Error())
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insertRunQuery,
		input.RunID,
		input.Cohort,
		input.Totals.Regions,
		input.Totals.Applications,
		input.Totals.Eligible,
		input.Totals.Scored,
		input.Totals.Alternates,
		time.Now().UTC(),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, fmt.Errorf("%w: runId %s", ErrDuplicateRun, input.RunID)
		}
		return nil, fmt.Errorf("%w: insert run: %s", ErrResultStoreFailed, err.Error())
	}

	rankedRows := 0
	for _, region := range input.Regions {
		for _, entry := range region.Ranked {
			payload, err := json.Marshal(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: marshal ranking %s: %s", ErrResultStoreFailed, entry.ApplicationID, err.Error())
			}
			_, err = tx.ExecContext(ctx, insertRankingQuery,
				input.RunID,
				region.Region,
				entry.ApplicationID,
				entry.Rank,
				entry.Scores.Composite,
				entry.Tier,
				string(entry.Origin),
				payload,
			)
			if err != nil {
				return nil, fmt.Errorf("%w: insert ranking %s: %s", ErrResultStoreFailed, entry.ApplicationID, err.Error())
			}
			rankedRows++
		}

		for _, entry := range region.Ineligible {
			failed := make([]string, 0, len(entry.FailedCriteria))
			for _, gate := range entry.FailedCriteria {
				failed = append(failed, string(gate))
			}
			_, err = tx.ExecContext(ctx, insertIneligibleQuery,
				input.RunID,
				region.Region,
				entry.ApplicationID,
				pq.Array(failed),
				pq.Array(entry.Reasons),
			)
			if err != nil {
				return nil, fmt.Errorf("%w: insert ineligible %s: %s", ErrResultStoreFailed, entry.ApplicationID, err.Error())
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %s", ErrResultStoreFailed, err.Error())
	}

	h.logger.Info("evaluation results stored", map[string]interface{}{
		"runId":      input.RunID,
		"regions":    len(input.Regions),
		"rankedRows": rankedRows,
	})
	return &Output{Stored: true, RunID: input.RunID, RankedRows: rankedRows}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
