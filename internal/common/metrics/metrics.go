// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ApplicationsEvaluated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_applications_total",
			Help: "Total number of applications evaluated, by cohort and eligibility outcome",
		},
		[]string{"cohort", "outcome"},
	)

	GateFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_gate_failures_total",
			Help: "Total number of eligibility gate failures, by gate",
		},
		[]string{"cohort", "gate"},
	)

	RegionsRanked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_regions_ranked_total",
			Help: "Total number of regions ranked",
		},
		[]string{"cohort"},
	)

	RegionEvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaluation_region_duration_seconds",
			Help:    "Duration of a single region evaluation in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"cohort"},
	)
)
