// Package metrics holds the Prometheus collectors for verification runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "veritas"

var (
	// OracleCalls counts judgment oracle attempts by outcome: ok, timeout,
	// malformed, error, cache_hit.
	OracleCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oracle_calls_total",
		Help:      "Judgment oracle attempts by outcome.",
	}, []string{"outcome"})

	DegradedJudgments = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degraded_judgments_total",
		Help:      "Evidence judgments replaced by the neutral default after retries ran out.",
	})

	ExcludedEvidence = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "excluded_evidence_total",
		Help:      "Evidence items dropped before scoring because they had no usable text.",
	})

	RetrievalFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retrieval_failures_total",
		Help:      "Per-query retrieval tasks that failed or timed out.",
	})

	Verdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verdicts_total",
		Help:      "Completed verification runs by verdict.",
	}, []string{"verdict"})

	RunFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "run_failures_total",
		Help:      "Verification runs that ended without a verdict, by error kind.",
	}, []string{"kind"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the scoring core per run.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)
