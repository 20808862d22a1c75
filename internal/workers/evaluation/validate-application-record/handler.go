// internal/workers/evaluation/validate-application-record/handler.go
package validateapplicationrecord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"kjet-workers/internal/common/logger"
	"kjet-workers/internal/common/metrics"
	"kjet-workers/internal/common/validation"
	"kjet-workers/internal/engine/signals"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-application-record"
)

var (
	ErrApplicationValidationFailed = errors.New("APPLICATION_VALIDATION_FAILED")
)

type Handler struct {
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "APPLICATION_VALIDATION_FAILED", err.Error())
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.ApplicationRecord == nil {
		return nil, fmt.Errorf("%w: applicationRecord is missing", ErrApplicationValidationFailed)
	}

	result, err := validation.ValidateApplicationRecord(input.ApplicationRecord)
	if err != nil {
		return nil, err
	}

	if !result.Valid {
		h.logger.Warn("application record rejected", map[string]interface{}{
			"errorCount": len(result.Errors),
			"errors":     result.GetErrorMessages(),
		})
		return nil, fmt.Errorf("%w: %s", ErrApplicationValidationFailed,
			strings.Join(result.GetErrorMessages(), "; "))
	}

	applicationID, _ := input.ApplicationRecord["applicationId"].(string)
	region, _ := input.ApplicationRecord["region"].(string)

	output := &Output{
		IsValid:          true,
		ApplicationID:    applicationID,
		Region:           signals.CanonicalRegion(region),
		ValidationErrors: []validation.ValidationError{},
	}

	h.logger.Info("application record validated", map[string]interface{}{
		"applicationId": output.ApplicationID,
		"region":        output.Region,
	})
	return output, nil
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
