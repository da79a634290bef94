// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archai_worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archai_worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "archai_stage_duration_milliseconds",
			Help:    "Duration of pipeline stages",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 15000},
		},
		[]string{"stage_id"},
	)

	StageOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archai_stage_outcomes_total",
			Help: "Audit entries written per stage and status",
		},
		[]string{"stage_id", "status"},
	)

	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archai_pipeline_runs_total",
			Help: "Pipeline runs by execution mode and outcome (completed or halted)",
		},
		[]string{"mode", "outcome"},
	)

	PipelineRepairs = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "archai_pipeline_repairs",
			Help:    "Total repairs recorded per completed run",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	ReasoningCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archai_reasoning_calls_total",
			Help: "External reasoning calls by purpose and result",
		},
		[]string{"purpose", "result"},
	)

	ReasoningCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archai_reasoning_cache_lookups_total",
			Help: "Verdict cache lookups by layer and result",
		},
		[]string{"layer", "result"},
	)

	SinkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archai_sink_failures_total",
			Help: "Failures of peripheral sinks (store, index, upload, events)",
		},
		[]string{"sink"},
	)
)

// ObserveCacheLookup matches reasoning.CacheObserver.
func ObserveCacheLookup(layer string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ReasoningCacheLookups.WithLabelValues(layer, result).Inc()
}
