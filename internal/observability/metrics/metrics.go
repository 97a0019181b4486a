package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/histograms for the chat pipeline.
type PipelineMetrics struct {
	messagesTotal  *prometheus.CounterVec
	crisisTotal    *prometheus.CounterVec
	composeLatency prometheus.Histogram
	storeFallback  prometheus.Counter
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "therabot",
			Subsystem: "pipeline",
			Name:      "messages_total",
			Help:      "Processed chat messages by safety level",
		}, []string{"level"}),
		crisisTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "therabot",
			Subsystem: "pipeline",
			Name:      "crisis_total",
			Help:      "Crisis short-circuits by category",
		}, []string{"category"}),
		composeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "therabot",
			Subsystem: "pipeline",
			Name:      "compose_latency_seconds",
			Help:      "Latency of therapeutic response composition",
			Buckets:   prometheus.DefBuckets,
		}),
		storeFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "therabot",
			Subsystem: "session",
			Name:      "store_fallback_total",
			Help:      "Degradations from the durable store to in-memory",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.crisisTotal, m.composeLatency, m.storeFallback)
	return m
}

func (m *PipelineMetrics) ObserveMessage(level string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(level).Inc()
}

func (m *PipelineMetrics) ObserveCrisis(category string) {
	if m == nil {
		return
	}
	m.crisisTotal.WithLabelValues(category).Inc()
}

func (m *PipelineMetrics) ObserveComposeLatency(seconds float64) {
	if m == nil {
		return
	}
	m.composeLatency.Observe(seconds)
}

func (m *PipelineMetrics) ObserveStoreFallback() {
	if m == nil {
		return
	}
	m.storeFallback.Inc()
}
