package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the chat lookup flows.
type ChatMetrics struct {
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	llmCallsTotal  *prometheus.CounterVec
	failOpenTotal  *prometheus.CounterVec
	matchedRecords *prometheus.HistogramVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatlookup",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total chat requests by flow and outcome",
		}, []string{"flow", "outcome"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chatlookup",
			Subsystem: "chat",
			Name:      "request_seconds",
			Help:      "End-to-end latency of chat requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"flow"}),
		llmCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatlookup",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Completion calls by operation and outcome",
		}, []string{"op", "outcome"}),
		failOpenTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatlookup",
			Subsystem: "llm",
			Name:      "fail_open_total",
			Help:      "Times an operation fell back to its default value",
		}, []string{"op"}),
		matchedRecords: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chatlookup",
			Subsystem: "chat",
			Name:      "matched_records",
			Help:      "Number of records kept by the matcher per request",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50},
		}, []string{"flow"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestLatency, m.llmCallsTotal, m.failOpenTotal, m.matchedRecords)
	return m
}

func (m *ChatMetrics) ObserveRequest(flow, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(flow, outcome).Inc()
	m.requestLatency.WithLabelValues(flow).Observe(seconds)
}

func (m *ChatMetrics) ObserveLLMCall(op, outcome string) {
	if m == nil {
		return
	}
	m.llmCallsTotal.WithLabelValues(op, outcome).Inc()
}

func (m *ChatMetrics) ObserveFailOpen(op string) {
	if m == nil {
		return
	}
	m.failOpenTotal.WithLabelValues(op).Inc()
}

func (m *ChatMetrics) ObserveMatches(flow string, count int) {
	if m == nil {
		return
	}
	m.matchedRecords.WithLabelValues(flow).Observe(float64(count))
}
