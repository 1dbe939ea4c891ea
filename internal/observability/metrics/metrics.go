package metrics

import "github.com/prometheus/client_golang/prometheus"

// MatchingMetrics exposes counters/histograms for the doctor-matching engine.
type MatchingMetrics struct {
	chatTurns  *prometheus.CounterVec
	fallbacks  *prometheus.CounterVec
	llmLatency prometheus.Histogram
}

func NewMatchingMetrics(reg prometheus.Registerer) *MatchingMetrics {
	m := &MatchingMetrics{
		chatTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mediconnect",
			Subsystem: "matching",
			Name:      "chat_turns_total",
			Help:      "Total chat turns handled by the matching engine",
		}, []string{"intent", "outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mediconnect",
			Subsystem: "matching",
			Name:      "fallback_total",
			Help:      "Total turns answered by the fallback policy",
		}, []string{"reason"}),
		llmLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mediconnect",
			Subsystem: "matching",
			Name:      "llm_latency_seconds",
			Help:      "Latency of the outbound LLM chat call",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.chatTurns, m.fallbacks, m.llmLatency)
	return m
}

func (m *MatchingMetrics) ObserveTurn(intent, outcome string) {
	if m == nil {
		return
	}
	m.chatTurns.WithLabelValues(intent, outcome).Inc()
}

func (m *MatchingMetrics) ObserveFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(reason).Inc()
}

func (m *MatchingMetrics) ObserveLLMLatency(seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.Observe(seconds)
}
