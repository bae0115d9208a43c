// Package metrics exposes Prometheus counters and histograms for the chat
// pipeline. Everything registers on the default registry and is served by
// the /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	chatRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datachat_chat_requests_total",
		Help: "Total chat requests received.",
	})

	generationFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datachat_generation_failures_total",
		Help: "Total SQL generation failures, including those recovered by fallback.",
	})

	queriesRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "datachat_queries_rejected_total",
		Help: "Total generated statements rejected by the validator, by reason.",
	}, []string{"reason"})

	queriesExecutedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datachat_queries_executed_total",
		Help: "Total statements executed successfully.",
	})

	executionErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datachat_execution_errors_total",
		Help: "Total statements that failed during execution.",
	})

	queryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "datachat_query_duration_seconds",
		Help:    "Wall time of statement execution.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		chatRequestsTotal,
		generationFailuresTotal,
		queriesRejectedTotal,
		queriesExecutedTotal,
		executionErrorsTotal,
		queryDuration,
	)
}

func ObserveChatRequest()            { chatRequestsTotal.Inc() }
func ObserveGenerationFailure()      { generationFailuresTotal.Inc() }
func ObserveRejected(reason string)  { queriesRejectedTotal.WithLabelValues(reason).Inc() }
func ObserveExecuted()               { queriesExecutedTotal.Inc() }
func ObserveExecutionError()         { executionErrorsTotal.Inc() }
func ObserveQueryDuration(d time.Duration) { queryDuration.Observe(d.Seconds()) }
