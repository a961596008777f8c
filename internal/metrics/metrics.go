package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docextract"

// Document outcomes recorded by ObserveDocument.
const (
	OutcomeScored = "scored"
	OutcomeError  = "error"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	documentsTotal    *prometheus.CounterVec
	overallConfidence *prometheus.HistogramVec
	llmCallSeconds    *prometheus.HistogramVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed, by document type and outcome.",
		}, []string{"doc_type", "outcome"}),
		overallConfidence: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overall_confidence",
			Help:      "Overall document confidence of scored reports.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}, []string{"doc_type"}),
		llmCallSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_call_seconds",
			Help:      "Latency of LLM provider calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"provider", "op"}),
	}
	m.registry.MustRegister(
		m.documentsTotal,
		m.overallConfidence,
		m.llmCallSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveDocument records one finished document. Confidence is only observed
// for scored reports.
func (m *Metrics) ObserveDocument(docType, outcome string, overall float64) {
	if m == nil {
		return
	}
	m.documentsTotal.WithLabelValues(docType, outcome).Inc()
	if outcome == OutcomeScored {
		m.overallConfidence.WithLabelValues(docType).Observe(overall)
	}
}

// ObserveLLMCall records the latency of one provider call.
func (m *Metrics) ObserveLLMCall(provider, op string, d time.Duration) {
	if m == nil {
		return
	}
	m.llmCallSeconds.WithLabelValues(provider, op).Observe(d.Seconds())
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
