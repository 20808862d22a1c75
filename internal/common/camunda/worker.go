// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"kjet-workers/internal/common/metrics"
)

// JobHandlerFunc matches the Zeebe job worker handler signature.
type JobHandlerFunc func(client worker.JobClient, job entities.Job)

// JobRecorder receives per-job telemetry from the worker set.
type JobRecorder interface {
	RecordJobProcessed(ctx context.Context, status string)
	RecordJobDuration(ctx context.Context, duration time.Duration, status string)
}

// WorkerOptions holds the per-task-type polling settings.
type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
}

// WorkerSet tracks the job workers opened on one client so they can be
// drained together on shutdown. Every handler is wrapped with job metrics.
type WorkerSet struct {
	client   *Client
	recorder JobRecorder
	logger   *zap.Logger
	workers  []worker.JobWorker
}

func NewWorkerSet(client *Client, recorder JobRecorder, logger *zap.Logger) *WorkerSet {
	return &WorkerSet{client: client, recorder: recorder, logger: logger}
}

// Start opens a job worker for the task type and registers it for shutdown.
func (s *WorkerSet) Start(taskType string, opts WorkerOptions, handler JobHandlerFunc) {
	jobWorker := s.client.GetClient().NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(s.instrument(taskType, handler))).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Open()

	s.workers = append(s.workers, jobWorker)
	s.logger.Info("Worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", opts.MaxJobsActive),
		zap.Duration("timeout", opts.Timeout),
	)
}

func (s *WorkerSet) instrument(taskType string, handler JobHandlerFunc) JobHandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		started := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		handler(client, job)

		elapsed := time.Since(started)
		metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		if s.recorder != nil {
			s.recorder.RecordJobProcessed(context.Background(), taskType)
			s.recorder.RecordJobDuration(context.Background(), elapsed, taskType)
		}
	}
}

// Len reports how many workers are open.
func (s *WorkerSet) Len() int {
	return len(s.workers)
}

// Close drains every open worker. Workers stop polling for new jobs and
// finish the jobs they already activated.
func (s *WorkerSet) Close() {
	for _, w := range s.workers {
		w.Close()
	}
	s.logger.Info("All workers stopped", zap.Int("count", len(s.workers)))
}
