// internal/workers/evaluation/index-rankings/handler.go
package indexrankings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	stderrors "kjet-workers/internal/common/errors"
	"kjet-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	TaskType = "index-rankings"
)

var (
	ErrIndexRankingsFailed = errors.New("INDEX_RANKINGS_FAILED")
)

type Handler struct {
	logger logger.Logger
	es     *elasticsearch.Client
	index  string
	errors *stderrors.ErrorHandler
}

func NewHandler(config *Config, es *elasticsearch.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		logger: scoped,
		es:     es,
		index:  config.Index,
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
		h.errors.HandleJobError(ctx, client, job, stderrors.NewIndexRankingsFailedError(input.Region, err))
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
	if len(input.Rankings) == 0 {
		h.logger.Info("no rankings to index", map[string]interface{}{
			"region": input.Region,
		})
		return &Output{Indexed: true, Documents: 0, Index: h.index}, nil
	}

	body, err := h.bulkBody(input)
	if err != nil {
		return nil, err
	}

	res, err := h.es.Bulk(bytes.NewReader(body),
		h.es.Bulk.WithContext(ctx),
		h.es.Bulk.WithIndex(h.index),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: region %s: %s", ErrIndexRankingsFailed, input.Region, err.Error())
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: region %s: bulk request returned %s", ErrIndexRankingsFailed, input.Region, res.Status())
	}

	var bulkResponse struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
			Error  *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read bulk response: %s", ErrIndexRankingsFailed, err.Error())
	}
	if err := json.Unmarshal(payload, &bulkResponse); err != nil {
		return nil, fmt.Errorf("%w: parse bulk response: %s", ErrIndexRankingsFailed, err.Error())
	}
	if bulkResponse.Errors {
		failed := 0
		for _, item := range bulkResponse.Items {
			for _, op := range item {
				if op.Error != nil {
					failed++
				}
			}
		}
		return nil, fmt.Errorf("%w: region %s: %d documents rejected", ErrIndexRankingsFailed, input.Region, failed)
	}

	h.logger.Info("rankings indexed", map[string]interface{}{
		"region":    input.Region,
		"documents": len(input.Rankings),
		"index":     h.index,
	})
	return &Output{Indexed: true, Documents: len(input.Rankings), Index: h.index}, nil
}

// bulkBody builds the NDJSON bulk payload. Document ids include the run id,
// so re-indexing the same run overwrites instead of duplicating.
func (h *Handler) bulkBody(input *Input) ([]byte, error) {
	var buf bytes.Buffer
	for _, entry := range input.Rankings {
		action := map[string]map[string]string{
			"index": {
				"_index": h.index,
				"_id":    fmt.Sprintf("%s:%s:%s", input.RunID, input.Region, entry.ApplicationID),
			},
		}
		actionLine, err := json.Marshal(action)
		if err != nil {
			return nil, fmt.Errorf("%w: marshal bulk action: %s", ErrIndexRankingsFailed, err.Error())
		}
		docLine, err := json.Marshal(rankingDocument{
			RunID:       input.RunID,
			Cohort:      input.Cohort,
			RankedEntry: entry,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: marshal document %s: %s", ErrIndexRankingsFailed, entry.ApplicationID, err.Error())
		}
		buf.Write(actionLine)
		buf.WriteByte('\n')
		buf.Write(docLine)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
