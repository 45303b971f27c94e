package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for one pipeline process.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	llmRequests    *prometheus.CounterVec
	llmLatency     *prometheus.HistogramVec
	sourceRecords  *prometheus.CounterVec
	sourceFailures *prometheus.CounterVec
	runs           *prometheus.CounterVec
	revisionRounds prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satirist",
			Name:      "llm_requests_total",
			Help:      "Language model calls by agent and outcome.",
		}, []string{"agent", "outcome"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "satirist",
			Name:      "llm_latency_seconds",
			Help:      "Language model call latency by agent.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45},
		}, []string{"agent"}),
		sourceRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satirist",
			Name:      "source_records_total",
			Help:      "Candidate records returned by each news source.",
		}, []string{"source"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satirist",
			Name:      "source_failures_total",
			Help:      "Failed news source queries.",
		}, []string{"source"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satirist",
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome and the stage they ended at.",
		}, []string{"outcome", "stage"}),
		revisionRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "satirist",
			Name:      "revision_rounds",
			Help:      "Critique rounds executed per run.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.llmRequests, m.llmLatency, m.sourceRecords, m.sourceFailures, m.runs, m.revisionRounds)
	}
	return m
}

// ObserveLLM records one model call.
func (m *Metrics) ObserveLLM(agent string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.llmRequests.WithLabelValues(agent, outcome).Inc()
	m.llmLatency.WithLabelValues(agent).Observe(d.Seconds())
}

// ObserveSource records the result of one source query.
func (m *Metrics) ObserveSource(source string, records int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.sourceFailures.WithLabelValues(source).Inc()
		return
	}
	m.sourceRecords.WithLabelValues(source).Add(float64(records))
}

// RecordRun records a finished pipeline run.
func (m *Metrics) RecordRun(outcome, stage string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome, stage).Inc()
}

// ObserveRevisionRounds records how many critique rounds a draft went through.
func (m *Metrics) ObserveRevisionRounds(rounds int) {
	if m == nil {
		return
	}
	m.revisionRounds.Observe(float64(rounds))
}
