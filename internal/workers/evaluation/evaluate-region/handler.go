// internal/workers/evaluation/evaluate-region/handler.go
package evaluateregion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kjet-workers/internal/common/logger"
	"kjet-workers/internal/common/metrics"
	"kjet-workers/internal/engine/evaluator"
	"kjet-workers/internal/engine/signals"
	"kjet-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "evaluate-region"
)

var (
	ErrCohortConfigInvalid    = errors.New("COHORT_CONFIG_INVALID")
	ErrRegionEvaluationFailed = errors.New("REGION_EVALUATION_FAILED")
)

type Handler struct {
	logger logger.Logger
	cache  *redis.Client
	ttl    time.Duration
}

// NewHandler builds the evaluate-region handler. The cache client may be nil;
// evaluation then always recomputes.
func NewHandler(config *Config, cache *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		cache:  cache,
		ttl:    config.CacheTTL,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "APPLICATION_PARSE_ERROR", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		code := "REGION_EVALUATION_FAILED"
		if errors.Is(err, ErrCohortConfigInvalid) {
			code = "COHORT_CONFIG_INVALID"
		}
		h.failJob(client, job, code, err.Error())
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
	region := signals.CanonicalRegion(input.Region)

	if cached := h.readCache(ctx, input.Cohort, region, input.RequestID); cached != nil {
		h.logger.Info("returning cached region result", map[string]interface{}{
			"region":    region,
			"requestId": input.RequestID,
		})
		return &Output{Cohort: input.Cohort, Region: region, Result: cached, Cached: true}, nil
	}

	eval, err := evaluator.ForCohortID(input.Cohort, h.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCohortConfigInvalid, err.Error())
	}

	started := time.Now()
	result, err := eval.EvaluateRegion(ctx, region, input.Applications, input.Alternates)
	if err != nil {
		return nil, fmt.Errorf("%w: region %s: %s", ErrRegionEvaluationFailed, region, err.Error())
	}
	metrics.RegionEvaluationDuration.WithLabelValues(input.Cohort).Observe(time.Since(started).Seconds())
	h.recordMetrics(input.Cohort, result)

	h.writeCache(ctx, input.Cohort, region, input.RequestID, result)

	return &Output{Cohort: input.Cohort, Region: region, Result: result}, nil
}

func (h *Handler) recordMetrics(cohortID string, result *models.RegionResult) {
	metrics.RegionsRanked.WithLabelValues(cohortID).Inc()
	metrics.ApplicationsEvaluated.WithLabelValues(cohortID, "eligible").Add(float64(result.Summary.Eligible))
	metrics.ApplicationsEvaluated.WithLabelValues(cohortID, "ineligible").Add(float64(result.Summary.Ineligible))
	for gate, count := range result.Summary.GateFailures {
		metrics.GateFailures.WithLabelValues(cohortID, string(gate)).Add(float64(count))
	}
}

func cacheKey(cohortID, region, requestID string) string {
	return fmt.Sprintf("evaluation:%s:%s:%s", cohortID, region, requestID)
}

func (h *Handler) readCache(ctx context.Context, cohortID, region, requestID string) *models.RegionResult {
	if h.cache == nil || requestID == "" {
		return nil
	}
	payload, err := h.cache.Get(ctx, cacheKey(cohortID, region, requestID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.WithError(err).Warn("cache read failed", map[string]interface{}{
				"region": region,
			})
		}
		return nil
	}
	var result models.RegionResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		h.logger.WithError(err).Warn("discarding malformed cached result", map[string]interface{}{
			"region": region,
		})
		return nil
	}
	return &result
}

func (h *Handler) writeCache(ctx context.Context, cohortID, region, requestID string, result *models.RegionResult) {
	if h.cache == nil || requestID == "" {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, cacheKey(cohortID, region, requestID), payload, h.ttl).Err(); err != nil {
		h.logger.WithError(err).Warn("cache write failed", map[string]interface{}{
			"region": region,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(job.Type, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, _ = client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
