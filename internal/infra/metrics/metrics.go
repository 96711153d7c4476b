// Package metrics provides Prometheus metrics for weld task execution —
// counters, gauges and histograms for tasks, the concurrency pool, and
// output capture.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// ─── Tasks ──────────────────────────────────────────────────────────────────

// TasksActive tracks currently executing child processes.
var TasksActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "weld",
	Name:      "tasks_active",
	Help:      "Number of currently executing tasks.",
})

// TasksCompleted tracks tasks that exited with code 0, by kind.
var TasksCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "weld",
	Name:      "tasks_completed_total",
	Help:      "Total completed tasks.",
}, []string{"kind"})

// TasksFailed tracks failed tasks by kind and failure reason.
var TasksFailed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "weld",
	Name:      "tasks_failed_total",
	Help:      "Total failed tasks.",
}, []string{"kind", "reason"})

// TaskDuration tracks child process wall-clock runtime in seconds.
var TaskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "weld",
	Name:      "task_duration_seconds",
	Help:      "Task wall-clock duration in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"kind"})

// ─── Pool ───────────────────────────────────────────────────────────────────

// PoolWait tracks time spent queued for a concurrency pool slot.
var PoolWait = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "weld",
	Name:      "pool_wait_seconds",
	Help:      "Time from task submission to pool slot acquisition.",
	Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
})

// ─── Output capture ─────────────────────────────────────────────────────────

// OutputTruncated counts tasks whose captured output hit the configured cap.
var OutputTruncated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "weld",
	Name:      "output_truncated_total",
	Help:      "Tasks whose stdout or stderr capture was truncated at the cap.",
})

// WriteSnapshot serializes every registered metric to w in the Prometheus
// text exposition format. weld has no network surface, so telemetry is
// flushed to a file instead of scraped.
func WriteSnapshot(w io.Writer) error {
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
